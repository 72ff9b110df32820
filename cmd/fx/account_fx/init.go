package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"captionly/internal/cache"
	"captionly/internal/repositories"
	"captionly/internal/services"
)

var Module = fx.Provide(
	provideAccountRepo, provideAccountService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	subscriptionService services.SubscriptionServiceInterface,
	guestService services.GuestServiceInterface,
	mailService services.IMailService,
	otpStore cache.OtpStore,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, subscriptionService, guestService, mailService, otpStore)
}

package guest_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"captionly/internal/repositories"
	"captionly/internal/services"
)

var Module = fx.Provide(
	provideGuestRepo, provideGuestService)

func provideGuestRepo(db *gorm.DB) repositories.IGuestRepository {
	return repositories.NewGuestRepository(db)
}

func provideGuestService(
	guestRepo repositories.IGuestRepository,
	subscriptionRepo repositories.ISubscriptionRepository,
) services.GuestServiceInterface {
	return services.NewGuestService(guestRepo, subscriptionRepo)
}

package subscription_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"captionly/internal/repositories"
	"captionly/internal/services"
)

var Module = fx.Provide(
	provideSubscriptionRepo, providePurchaseRepo, provideSubscriptionService)

func provideSubscriptionRepo(db *gorm.DB) repositories.ISubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func providePurchaseRepo(db *gorm.DB) repositories.IPurchaseRepository {
	return repositories.NewPurchaseRepository(db)
}

func provideSubscriptionService(
	subscriptionRepo repositories.ISubscriptionRepository,
	purchaseRepo repositories.IPurchaseRepository,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(subscriptionRepo, purchaseRepo)
}

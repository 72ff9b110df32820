package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"captionly/cmd/fx/account_fx"
	"captionly/cmd/fx/caption_fx"
	"captionly/cmd/fx/db_fx"
	"captionly/cmd/fx/guest_fx"
	"captionly/cmd/fx/mail_fx"
	"captionly/cmd/fx/redis_fx"
	"captionly/cmd/fx/subscription_fx"
	"captionly/internal/api/controllers"
	"captionly/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		redis_fx.Module,
		mail_fx.Module,
		subscription_fx.Module,
		guest_fx.Module,
		caption_fx.Module,
		account_fx.Module,

		fx.Provide(
			controllers.NewAccountController,
			controllers.NewCaptionController,
			controllers.NewSubscriptionController,
			controllers.NewGuestController,
		),

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	captionController *controllers.CaptionController,
	subscriptionController *controllers.SubscriptionController,
	guestController *controllers.GuestController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, accountController, captionController, subscriptionController, guestController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	captionController *controllers.CaptionController,
	subscriptionController *controllers.SubscriptionController,
	guestController *controllers.GuestController) {

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", accountController.Register)
	accountGroup.POST("/login", accountController.Login)
	accountGroup.POST("/forgot-password", accountController.ForgotPassword)
	accountGroup.POST("/verify-otp", accountController.VerifyOtpToken)
	accountGroup.POST("/reset-password", accountController.ResetPasswordWithOtp)

	captionGroup := r.Group("/captions")
	captionGroup.Use(middleware.JWTOptionalMiddleware())
	captionGroup.POST("/generate", captionController.GenerateCaptions)

	subscriptionGroup := r.Group("/subscriptions")
	subscriptionGroup.Use(middleware.JWTAuthMiddleware())
	subscriptionGroup.GET("/status", subscriptionController.GetStatus)
	subscriptionGroup.POST("/trial", subscriptionController.StartTrial)
	subscriptionGroup.POST("/verify-purchase", subscriptionController.VerifyPurchase)

	guestGroup := r.Group("/guests")
	guestGroup.POST("/usage", guestController.TrackUsage)
	guestGroup.POST("/merge", middleware.JWTAuthMiddleware(), guestController.Merge)
}

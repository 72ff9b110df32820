package caption_fx

import (
	"log"
	"os"

	"go.uber.org/fx"

	"captionly/internal/services"
	"captionly/pkg/utils"
)

var Module = fx.Provide(
	provideCaptionClient, provideCaptionService)

func provideCaptionClient() utils.CaptionClientInterface {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		client, err := utils.NewGeminiCaptionClient(key, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatalf("Failed to create Gemini caption client: %v", err)
		}
		return client
	}

	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		log.Fatal("Either GEMINI_API_KEY or OPENAI_API_KEY must be set")
	}
	return utils.NewOpenAICaptionClient(key, os.Getenv("OPENAI_MODEL"))
}

func provideCaptionService(
	subscriptionService services.SubscriptionServiceInterface,
	captionClient utils.CaptionClientInterface,
) services.CaptionServiceInterface {
	return services.NewCaptionService(subscriptionService, captionClient)
}

package ai

import (
	"context"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/quickcart-grocery/api/pkg/global"
)

var (
	client        *openai.Client
	isInitialized bool
)

// InitializeAIService wires the optional Azure OpenAI client. When the
// credentials are absent the analytics endpoints degrade to raw data.
func InitializeAIService(cfg *global.Config) {
	if cfg.AzureOpenAIEndpoint == "" || cfg.AzureOpenAIAPIKey == "" {
		global.Log().Info("AI service disabled - Azure OpenAI credentials not provided")
		isInitialized = false
		return
	}

	clientValue := openai.NewClient(
		option.WithBaseURL(cfg.AzureOpenAIEndpoint),
		option.WithAPIKey(cfg.AzureOpenAIAPIKey),
	)
	client = &clientValue

	isInitialized = true
	global.Log().Info("AI service initialized with Azure OpenAI")
}

// IsEnabled returns whether the AI service is properly initialized.
func IsEnabled() bool {
	return isInitialized && client != nil
}

func generateCompletion(ctx context.Context, systemMessage, userMessage string) (string, error) {
	if !IsEnabled() {
		return "", &AIError{Message: "AI service is not enabled"}
	}

	deploymentName := global.GetConfig().AzureOpenAIDeployment

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(deploymentName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(1500),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		global.Log().WithError(err).Error("AI API request failed")
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// AIError represents an AI service error.
type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

package factory

import (
	"fmt"

	"faq-agentic-be/pkg/llm"
	"faq-agentic-be/pkg/llm/ollama"
	"faq-agentic-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, openAIKey, openAIBaseURL, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(openAIKey, openAIBaseURL, modelName)
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

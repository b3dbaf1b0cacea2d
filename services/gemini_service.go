package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiService answers free-form chat messages through the Gemini API.
// It implements AIClient; the caller decides when to escalate to it.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService builds the client from GEMINI_API_KEY and GEMINI_MODEL.
// Returns (nil, nil) when no key is configured so the chatbot can run
// local-only.
func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiService{client: client, model: model}, nil
}

// Answer sends the message with the assembled context block and returns the
// cleaned model reply.
func (s *GeminiService) Answer(ctx context.Context, message, contextBlock string, profile models.UserProfile) (string, error) {
	prompt := s.buildPrompt(message, contextBlock, profile)

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0.3)),
		TopP:            genai.Ptr(float32(0.8)),
		TopK:            genai.Ptr(float32(40)),
		MaxOutputTokens: 400,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return stripLeadIn(text), nil
}

func (s *GeminiService) buildPrompt(message, contextBlock string, profile models.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("Du bist Kantino, der freundliche Mensa-Assistent für Berliner Hochschulmensen.\n\n")
	sb.WriteString("KONTEXT:\n")
	if contextBlock != "" {
		sb.WriteString(contextBlock)
	} else {
		sb.WriteString("(keine Mensa-Daten verfügbar)\n")
	}
	sb.WriteString("\nANTWORT-REGELN:\n")
	sb.WriteString("- Antworte auf Deutsch, locker und hilfsbereit, per Du.\n")
	sb.WriteString("- Nutze ausschließlich die Gerichte aus dem Kontext, erfinde keine.\n")
	sb.WriteString("- Nenne Preise im Format \"2,95 €\", wenn sie im Kontext stehen.\n")
	if len(profile.Preferences) > 0 {
		sb.WriteString("- Berücksichtige die Präferenzen des Users bei Empfehlungen.\n")
	}
	sb.WriteString("- Bei Allergie-Fragen verweise zusätzlich auf das Mensa-Personal.\n")
	sb.WriteString("- Maximal 4 Sätze oder eine kurze Liste.\n")
	sb.WriteString("\nANTWORT-PATTERNS:\n")
	sb.WriteString("- Empfehlung: 1 bis 3 konkrete Gerichte mit Preis und kurzer Begründung.\n")
	sb.WriteString("- Keine passenden Daten: sag es ehrlich und schlage eine andere Frage vor.\n")
	sb.WriteString("\nUSER-FRAGE: ")
	sb.WriteString(message)
	return sb.String()
}

// stripLeadIn removes boilerplate openers models like to prepend.
func stripLeadIn(text string) string {
	for _, prefix := range []string{"Antwort:", "Gerne!", "Klar!", "Natürlich!"} {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(text, prefix))
		}
	}
	return text
}

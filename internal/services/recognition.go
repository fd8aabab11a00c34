package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pokeport/pokeport-ai/backend/internal/metrics"
	"github.com/pokeport/pokeport-ai/backend/internal/models"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	visionModel        = "gpt-4o"
	recognitionTimeout = 60 * time.Second
)

const recognitionPrompt = `You are an expert Pokemon card recognition AI. Analyze the provided Pokemon card image and extract the following information:
- Card name (exact name as printed)
- Set name (e.g., "Base Set", "Jungle", "Fossil", etc.)
- Card number (e.g., "25/102")
- Condition assessment (Mint, Near Mint, Excellent, Good, Fair, Poor)
- Confidence level (0-1)
- Rarity (if visible)
- Type (if visible)

Only report text that is actually visible on the card. Respond with JSON in this exact format: {
  "name": "card name",
  "set": "set name",
  "cardNumber": "number/total",
  "condition": "condition",
  "confidence": 0.95,
  "rarity": "rare/uncommon/common",
  "type": "pokemon type"
}`

// RecognitionError signals that the vision model could not produce a
// usable card identity. A wrong identity silently produces a wrong price,
// so the scan fails fast and the user is asked to rescan.
type RecognitionError struct {
	Reason string
}

func (e *RecognitionError) Error() string {
	return e.Reason
}

// CardRecognizer extracts a structured card identity from raw image bytes.
type CardRecognizer interface {
	RecognizeCard(ctx context.Context, imageBytes []byte) (*models.CardIdentity, error)
}

// OpenAIVisionService implements CardRecognizer against the OpenAI vision
// chat API. Stateless beyond the HTTP client.
type OpenAIVisionService struct {
	client  *resty.Client
	enabled bool
}

// NewOpenAIVisionService creates the recognition adapter. An empty API key
// disables the service; scans then fail at the recognition stage.
func NewOpenAIVisionService(apiKey string) *OpenAIVisionService {
	client := resty.New().
		SetBaseURL(openAIBaseURL).
		SetTimeout(recognitionTimeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	svc := &OpenAIVisionService{
		client:  client,
		enabled: apiKey != "",
	}

	if svc.enabled {
		log.Printf("Vision recognition: enabled (model=%s)", visionModel)
	} else {
		log.Printf("Vision recognition: disabled (no OPENAI_API_KEY)")
	}

	return svc
}

// IsEnabled returns whether recognition is available.
func (s *OpenAIVisionService) IsEnabled() bool {
	return s.enabled
}

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// rawRecognition mirrors the JSON the model is instructed to return.
type rawRecognition struct {
	Name       string  `json:"name"`
	Set        string  `json:"set"`
	CardNumber string  `json:"cardNumber"`
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
	Rarity     string  `json:"rarity"`
	Type       string  `json:"type"`
}

// RecognizeCard forwards the image to the vision model and validates the
// structured reply. Identities with a missing or "unknown" name, or with
// confidence below models.MinRecognitionConfidence, fail with a
// RecognitionError; no catalog calls are made for them.
func (s *OpenAIVisionService) RecognizeCard(ctx context.Context, imageBytes []byte) (*models.CardIdentity, error) {
	if !s.enabled {
		return nil, fmt.Errorf("vision recognition not enabled (no OPENAI_API_KEY)")
	}

	mimeType := detectMimeType(imageBytes)
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageBytes))

	reqBody := chatCompletionRequest{
		Model: visionModel,
		Messages: []chatMessage{
			{Role: "system", Content: recognitionPrompt},
			{Role: "user", Content: []chatContentPart{
				{Type: "text", Text: "Please analyze this Pokemon card and provide the recognition data in JSON format."},
				{Type: "image_url", ImageURL: &chatImageURL{URL: dataURL}},
			}},
		},
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
		MaxTokens:      500,
	}

	var chatResp chatCompletionResponse
	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&chatResp).
		SetError(&chatResp).
		Post("/chat/completions")
	metrics.RecognitionRequestsTotal.Inc()
	metrics.RecognitionAPILatency.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RecognitionErrorsTotal.WithLabelValues("network").Inc()
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}
	if resp.IsError() {
		metrics.RecognitionErrorsTotal.WithLabelValues("api").Inc()
		if chatResp.Error != nil {
			return nil, fmt.Errorf("vision API error: %s", chatResp.Error.Message)
		}
		return nil, fmt.Errorf("vision API returned status %d", resp.StatusCode())
	}

	if len(chatResp.Choices) == 0 {
		metrics.RecognitionErrorsTotal.WithLabelValues("parse").Inc()
		return nil, &RecognitionError{Reason: "could not identify card clearly"}
	}

	var raw rawRecognition
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &raw); err != nil {
		log.Printf("Failed to parse recognition reply: %v", err)
		metrics.RecognitionErrorsTotal.WithLabelValues("parse").Inc()
		return nil, &RecognitionError{Reason: "could not identify card clearly"}
	}

	identity := normalizeRecognition(raw)
	metrics.RecognitionConfidence.Observe(identity.Confidence)

	if isUnknownName(identity.Name) {
		metrics.RecognitionErrorsTotal.WithLabelValues("unknown_card").Inc()
		return nil, &RecognitionError{Reason: "could not identify card clearly"}
	}
	if identity.Confidence < models.MinRecognitionConfidence {
		metrics.RecognitionErrorsTotal.WithLabelValues("low_confidence").Inc()
		return nil, &RecognitionError{Reason: "could not identify card clearly"}
	}

	log.Printf("Recognized card %q (%s) confidence=%.2f", identity.Name, identity.Set, identity.Confidence)
	return identity, nil
}

// normalizeRecognition fills defaulted fields and clamps confidence into
// [0, 1], mirroring what the model was asked for.
func normalizeRecognition(raw rawRecognition) *models.CardIdentity {
	identity := &models.CardIdentity{
		Name:       strings.TrimSpace(raw.Name),
		Set:        strings.TrimSpace(raw.Set),
		CardNumber: raw.CardNumber,
		Condition:  raw.Condition,
		Confidence: raw.Confidence,
		Rarity:     raw.Rarity,
		Type:       raw.Type,
	}

	if identity.Set == "" {
		identity.Set = "Unknown Set"
	}
	if identity.CardNumber == "" {
		identity.CardNumber = "0/0"
	}
	if identity.Condition == "" {
		identity.Condition = "Unknown"
	}
	if identity.Confidence < 0 {
		identity.Confidence = 0
	}
	if identity.Confidence > 1 {
		identity.Confidence = 1
	}

	return identity
}

func isUnknownName(name string) bool {
	lower := strings.ToLower(name)
	return lower == "" || lower == "unknown" || lower == "unknown card"
}

// detectMimeType returns the MIME type for image bytes. Non-image or
// unrecognized content defaults to jpeg, the most common for photos.
func detectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "image/jpeg"
	}
	return contentType
}

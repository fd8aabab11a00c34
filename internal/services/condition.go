package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/pokeport/pokeport-ai/backend/internal/metrics"
)

const conditionPrompt = `You are an expert Pokemon card grader who assesses card condition based on visual inspection.

Analyze the provided Pokemon card image and determine its condition based on these standard grading criteria:

MINT (10): Perfect card with no visible flaws
NEAR MINT (8-9): Minimal wear, very slight edge wear or surface issues
LIGHTLY PLAYED (6-7): Light surface wear, minor edge wear, slight corner wear
MODERATELY PLAYED (4-5): Moderate surface wear, noticeable edge/corner wear, possible creases
HEAVILY PLAYED (2-3): Heavy wear, significant damage, creases, scratches
DAMAGED (1): Major damage, tears, water damage, heavy creases

Look for edge wear and whitening, corner rounding, surface scratches, creases, centering problems, and holofoil scratches.

Respond with JSON in this exact format:
{
  "condition": "condition_name",
  "confidence": 0.85,
  "reasoning": "detailed explanation of assessment",
  "issues": ["list", "of", "specific", "issues", "found"],
  "grade": 8
}`

// ConditionAssessment is a visual wear grading for a single card image.
type ConditionAssessment struct {
	Condition  string   `json:"condition"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Issues     []string `json:"issues"`
	Grade      int      `json:"grade"`
}

// ConditionAssessorService grades card wear through a second vision call,
// independent from identity recognition.
type ConditionAssessorService struct {
	client  *resty.Client
	enabled bool
}

func NewConditionAssessorService(apiKey string) *ConditionAssessorService {
	client := resty.New().
		SetBaseURL(openAIBaseURL).
		SetTimeout(recognitionTimeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &ConditionAssessorService{
		client:  client,
		enabled: apiKey != "",
	}
}

// IsEnabled returns whether condition grading is available.
func (s *ConditionAssessorService) IsEnabled() bool {
	return s.enabled
}

// AssessCondition grades the card's physical condition from the image.
func (s *ConditionAssessorService) AssessCondition(ctx context.Context, imageBytes []byte) (*ConditionAssessment, error) {
	if !s.enabled {
		return nil, fmt.Errorf("condition assessment not enabled (no OPENAI_API_KEY)")
	}

	mimeType := detectMimeType(imageBytes)
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageBytes))

	reqBody := chatCompletionRequest{
		Model: visionModel,
		Messages: []chatMessage{
			{Role: "system", Content: conditionPrompt},
			{Role: "user", Content: []chatContentPart{
				{Type: "text", Text: "Please assess this Pokemon card's condition based on the image. Focus on edges, corners, surface, and overall wear."},
				{Type: "image_url", ImageURL: &chatImageURL{URL: dataURL}},
			}},
		},
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
		MaxTokens:      1000,
	}

	var chatResp chatCompletionResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&chatResp).
		SetError(&chatResp).
		Post("/chat/completions")
	if err != nil {
		metrics.ConditionAssessmentsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}
	if resp.IsError() {
		metrics.ConditionAssessmentsTotal.WithLabelValues("failed").Inc()
		if chatResp.Error != nil {
			return nil, fmt.Errorf("vision API error: %s", chatResp.Error.Message)
		}
		return nil, fmt.Errorf("vision API returned status %d", resp.StatusCode())
	}

	if len(chatResp.Choices) == 0 {
		metrics.ConditionAssessmentsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("vision API returned no choices")
	}

	var assessment ConditionAssessment
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &assessment); err != nil {
		metrics.ConditionAssessmentsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to parse condition assessment: %w", err)
	}

	// Clamp into the documented scales.
	if assessment.Confidence < 0 {
		assessment.Confidence = 0
	}
	if assessment.Confidence > 1 {
		assessment.Confidence = 1
	}
	if assessment.Grade < 1 {
		assessment.Grade = 1
	}
	if assessment.Grade > 10 {
		assessment.Grade = 10
	}
	if assessment.Issues == nil {
		assessment.Issues = []string{}
	}

	metrics.ConditionAssessmentsTotal.WithLabelValues("success").Inc()
	return &assessment, nil
}

package classifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/pkg/config"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
)

const toolName = "report_violation"

const systemPrompt = "You are a safety inspector reviewing footage from an underground mining site. " +
	"Report at most one violation per request using the report_violation tool. " +
	"Only report a violation when you are confident it is present."

// OpenAIClassifier classifies frames with a forced tool call against a
// chat-completions endpoint
type OpenAIClassifier struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAI creates the classifier. It returns ErrUnavailable when no usable
// API key is configured.
func NewOpenAI(cfg config.ClassifierConfig, logger *zap.Logger) (*OpenAIClassifier, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" || strings.HasPrefix(key, "your-") {
		return nil, ErrUnavailable
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger.Named("classifier"),
	}, nil
}

// Classify sends one request and parses the forced tool call
func (c *OpenAIClassifier) Classify(ctx context.Context, req Request) (*Result, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: userParts(req)},
		},
		Tools: []openai.Tool{reportTool(req.LabelSet.Types())},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: toolName},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedReply)
	}
	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) == 0 || calls[0].Function.Name != toolName {
		return nil, fmt.Errorf("%w: missing %s tool call", ErrMalformedReply, toolName)
	}

	result, err := ParseReply(calls[0].Function.Arguments)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("classified frame",
		zap.Int("frame", req.FrameNumber),
		zap.Bool("image", len(req.Image) > 0),
		zap.Bool("has_violation", result.HasViolation),
		zap.String("type", result.ViolationType),
		zap.Float64("confidence", result.Confidence))
	return result, nil
}

// ParseReply decodes the tool-call arguments
func ParseReply(arguments string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(arguments), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformedReply, result.Confidence)
	}
	if result.Severity != "" && !result.Severity.Valid() {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrMalformedReply, result.Severity)
	}
	return &result, nil
}

func reportTool(types []string) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        toolName,
			Description: "Report whether the frame shows a safety violation",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"has_violation": {Type: jsonschema.Boolean},
					"violation_type": {
						Type: jsonschema.String,
						Enum: types,
					},
					"confidence": {
						Type:        jsonschema.Number,
						Description: "Confidence between 0 and 1",
					},
					"severity": {
						Type: jsonschema.String,
						Enum: []string{string(models.SeverityCritical), string(models.SeverityWarning)},
					},
				},
				Required: []string{"has_violation", "violation_type", "confidence", "severity"},
			},
		},
	}
}

func userParts(req Request) []openai.ChatMessagePart {
	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: Prompt(req),
	}}
	if len(req.Image) > 0 {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.Image),
				Detail: openai.ImageURLDetailLow,
			},
		})
	}
	return parts
}

// Prompt builds the instruction text for one request
func Prompt(req Request) string {
	var b strings.Builder
	if len(req.Image) > 0 {
		fmt.Fprintf(&b, "Inspect frame %d (%.2fs into the video). ", req.FrameNumber, req.TimestampSeconds)
	} else {
		fmt.Fprintf(&b, "No image is available for frame %d of a mining site recording. "+
			"Estimate whether a violation is likely at this point. ", req.FrameNumber)
	}
	b.WriteString("Possible violations: ")
	b.WriteString(strings.Join(req.LabelSet.Types(), ", "))
	b.WriteString(".")
	if req.TrainingHint != "" {
		b.WriteString(" Training context: ")
		b.WriteString(req.TrainingHint)
	}
	return b.String()
}

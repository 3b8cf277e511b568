package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/ai/prompt"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/ai/response"
)

const (
	DefaultBaseURL     = "https://ai.gateway.lovable.dev/v1"
	DefaultModel       = "google/gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultKeyEnv      = "LOVABLE_API_KEY"
)

// Options configure the gateway client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	// KeyEnv names the environment variable holding the bearer credential.
	KeyEnv     string
	HTTPClient *http.Client
	// LookupKey replaces os.Getenv for the credential, mainly for tests.
	LookupKey func(name string) string
}

// Client calls a multimodal chat completion endpoint and decodes the diagnosis.
type Client struct {
	opts Options
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.KeyEnv == "" {
		opts.KeyEnv = DefaultKeyEnv
	}
	if opts.LookupKey == nil {
		opts.LookupKey = os.Getenv
	}
	return &Client{opts: opts}
}

// Analyze sends the image to the provider. The credential is read on every call,
// so a key added to the environment later is picked up without a restart.
func (c *Client) Analyze(ctx context.Context, image string) (analysis.Result, error) {
	if strings.TrimSpace(image) == "" {
		return analysis.Result{}, analysis.ErrMissingInput
	}
	key := c.opts.LookupKey(c.opts.KeyEnv)
	if key == "" {
		return analysis.Result{}, analysis.ConfigurationError(c.opts.KeyEnv)
	}

	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = strings.TrimRight(c.opts.BaseURL, "/")
	if c.opts.HTTPClient != nil {
		cfg.HTTPClient = c.opts.HTTPClient
	}
	cli := openai.NewClientWithConfig(cfg)

	log.WithField("model", c.opts.Model).Info("analizando planta con IA")
	resp, err := cli.CreateChatCompletion(ctx, c.buildRequest(image))
	if err != nil {
		return analysis.Result{}, mapError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return analysis.Result{}, analysis.ErrEmptyCompletion
	}
	content := resp.Choices[0].Message.Content
	log.WithField("bytes", len(content)).Debug("respuesta de IA recibida")

	res, err := response.Decode(content)
	if err != nil {
		log.WithError(err).WithField("content", content).Error("respuesta de IA no interpretable")
		return analysis.Result{}, err
	}
	log.WithFields(log.Fields{
		"plant_type":    res.PlantType,
		"health_status": res.HealthStatus,
		"confidence":    int(res.Confidence),
	}).Info("análisis completado")
	return res, nil
}

func (c *Client) buildRequest(image string) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Temperature: c.opts.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.GetUserPrompt()},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: image}},
				},
			},
		},
	}
	if c.opts.MaxTokens > 0 {
		req.MaxTokens = c.opts.MaxTokens
	}
	return req
}

// mapError converts provider failures into the analysis error taxonomy.
func mapError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == 0 {
		return fmt.Errorf("failed to create chat completion: %w", err)
	}

	log.WithFields(log.Fields{"status": status}).WithError(err).Error("error del gateway de IA")
	switch status {
	case http.StatusTooManyRequests:
		return &analysis.Error{Kind: analysis.KindRateLimited, Status: status, Message: analysis.ErrRateLimited.Message, Err: err}
	case http.StatusPaymentRequired:
		return &analysis.Error{Kind: analysis.KindPaymentRequired, Status: status, Message: analysis.ErrPaymentRequired.Message, Err: err}
	default:
		return analysis.GatewayError(status, err)
	}
}

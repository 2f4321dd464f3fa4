package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/invopop/jsonschema"
	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/time/rate"

	"github.com/Loofy147/Prompt-dashboard/config"
	"github.com/Loofy147/Prompt-dashboard/pes"
	"github.com/Loofy147/Prompt-dashboard/utils"
)

const tokenEncoding = "cl100k_base"

// HTTPRewriter talks to a JSON rewrite endpoint. Every call is paced by a
// rate limiter and bounded by the configured timeout. The client performs a
// single attempt per call; retry policy belongs to the caller.
type HTTPRewriter struct {
	endpoint        string
	apiKey          string
	model           string
	temperature     float64
	maxTokens       int
	costPer1KInput  float64
	costPer1KOutput float64

	client  *http.Client
	limiter *rate.Limiter
	logger  utils.Logger
	encoder *tiktoken.Tiktoken
	schema  json.RawMessage
}

// wireRequest is the payload sent to the rewrite service. ResponseSchema
// lets schema-aware services constrain their output shape.
type wireRequest struct {
	Model          string          `json:"model"`
	Instruction    string          `json:"instruction"`
	Dimension      pes.Dimension   `json:"dimension,omitempty"`
	Text           string          `json:"text"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseSchema json.RawMessage `json:"response_schema,omitempty"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type wireResponse struct {
	Text    string    `json:"text" jsonschema:"required" validate:"required"`
	Usage   wireUsage `json:"usage,omitempty"`
	CostUSD float64   `json:"cost_usd,omitempty"`
}

// NewHTTPRewriter builds a client from configuration. It fails if the token
// encoder cannot be initialized; the encoder backs usage accounting when the
// service omits it.
func NewHTTPRewriter(cfg *config.Config, logger utils.Logger) (*HTTPRewriter, error) {
	encoder, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", tokenEncoding, err)
	}

	schema, err := json.Marshal(jsonschema.Reflect(&wireResponse{}))
	if err != nil {
		return nil, fmt.Errorf("failed to build response schema: %w", err)
	}

	return &HTTPRewriter{
		endpoint:        cfg.RewriterEndpoint,
		apiKey:          cfg.RewriterAPIKey,
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxTokens:       cfg.MaxTokens,
		costPer1KInput:  cfg.CostPer1KInput,
		costPer1KOutput: cfg.CostPer1KOutput,
		client:          &http.Client{Timeout: cfg.Timeout},
		limiter:         rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimitBurst),
		logger:          logger,
		encoder:         encoder,
		schema:          schema,
	}, nil
}

// SetRateLimit replaces the outbound pacing policy.
func (h *HTTPRewriter) SetRateLimit(r rate.Limit, burst int) {
	h.limiter = rate.NewLimiter(r, burst)
}

func (h *HTTPRewriter) Rewrite(ctx context.Context, req Request) (*Result, error) {
	if err := pes.Validate(&req); err != nil {
		return nil, NewError(ErrorTypeRequest, "invalid rewrite request", err)
	}

	if err := h.limiter.Wait(ctx); err != nil {
		return nil, NewError(ErrorTypeTransient, "rate limiter wait aborted", err)
	}

	temperature := h.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	maxTokens := h.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	body, err := json.Marshal(wireRequest{
		Model:          h.model,
		Instruction:    req.Instruction,
		Dimension:      req.Dimension,
		Text:           req.Text,
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		ResponseSchema: h.schema,
	})
	if err != nil {
		return nil, NewError(ErrorTypeRequest, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewError(ErrorTypeRequest, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	h.logger.Debug("Calling rewrite service", "dimension", req.Dimension, "endpoint", h.endpoint)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, NewError(ErrorTypeTransient, "rewrite request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(ErrorTypeTransient, "failed to read response body", err)
	}

	if typ, ok := statusErrorType(resp.StatusCode); ok {
		return nil, NewError(typ, fmt.Sprintf("rewrite service returned status %d", resp.StatusCode), nil)
	}

	var wire wireResponse
	if err := json.Unmarshal([]byte(cleanJSONResponse(string(raw))), &wire); err != nil {
		return nil, NewError(ErrorTypeResponse, "failed to parse response", err)
	}
	if err := pes.Validate(&wire); err != nil {
		return nil, NewError(ErrorTypeResponse, "response missing rewritten text", err)
	}

	result := &Result{
		Text:       wire.Text,
		TokensUsed: wire.Usage.InputTokens + wire.Usage.OutputTokens,
		CostUSD:    wire.CostUSD,
	}
	if result.TokensUsed == 0 {
		// Service omitted usage, count locally.
		input := len(h.encoder.Encode(req.Instruction+"\n"+req.Text, nil, nil))
		output := len(h.encoder.Encode(wire.Text, nil, nil))
		result.TokensUsed = input + output
		if result.CostUSD == 0 {
			result.CostUSD = float64(input)/1000*h.costPer1KInput + float64(output)/1000*h.costPer1KOutput
		}
	}

	h.logger.Debug("Rewrite complete", "tokens", result.TokensUsed, "cost_usd", result.CostUSD)
	return result, nil
}

func statusErrorType(code int) (ErrorType, bool) {
	switch {
	case code >= 200 && code < 300:
		return 0, false
	case code == http.StatusTooManyRequests:
		return ErrorTypeRateLimit, true
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrorTypeAuthentication, true
	case code >= 500:
		return ErrorTypeTransient, true
	default:
		return ErrorTypeRequest, true
	}
}

// Package vision is the drop-in alternative to the regex engine: it asks a
// multimodal model for the six fields directly and normalizes the reply
// onto the same result contract. A reply that is not valid structured data
// is treated as an empty object, so the caller always gets a full
// (all-low-confidence) result rather than a parse failure.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/docsorter/docsorter/internal/analysis"
)

// Config for the vision extractor.
type Config struct {
	APIKey      string
	BaseURL     string // default https://api.openai.com/v1
	Model       string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  uint // transient HTTP failures only
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		now:    time.Now,
	}
}

// ExtractFields implements extract.FieldExtractor. The only hard failure
// is the transport: once a 2xx reply is in hand, every malformed-content
// path degrades to the empty-object fallback.
func (c *Client) ExtractFields(ctx context.Context, rawText string) (analysis.Result, error) {
	start := time.Now()
	schema := BuildDocumentJSONSchema()

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPrompt()},
			{"role": "user", "content": buildUserPrompt(rawText)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var raw []byte
	err := retry.Do(
		func() error {
			var rerr error
			raw, _, rerr = sendJSON(ctx, c.http, endpoint, body, headers, c.logger)
			return rerr
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxRetries+1),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		c.logger.Error("vision.extract.http_error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return analysis.Result{}, fmt.Errorf("vision extract: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	content := ""
	if derr := json.Unmarshal(raw, &cc); derr == nil && len(cc.Choices) > 0 {
		content = strings.TrimSpace(cc.Choices[0].Message.Content)
	} else {
		c.logger.Warn("vision.extract.decode_degraded", "raw_bytes", len(raw))
	}

	res := c.normalizeContent(content, rawText)
	c.logger.Info("vision.extract.ok",
		"vendor", res.Vendor.Value,
		"doc_type", res.DocType.Value,
		"date", res.Date.Value,
		"needs_review", res.NeedsReview(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// normalizeContent validates model content against the schema, then maps
// it onto the result contract. Invalid or unparsable content collapses to
// the empty object and every downstream rule applies its own fallback.
func (c *Client) normalizeContent(content, rawText string) analysis.Result {
	payload := []byte(content)

	if content == "" {
		c.logger.Warn("vision.extract.empty_content")
		return toResult(documentFields{}, rawText, c.now)
	}
	if err := ValidateJSONAgainstSchema(BuildDocumentJSONSchema(), payload); err != nil {
		c.logger.Warn("vision.extract.schema_mismatch", "error", err)
		// sanitize once: drop unknown keys and non-string values, re-check
		if cleaned, serr := sanitizeFields(payload); serr == nil {
			if verr := ValidateJSONAgainstSchema(BuildDocumentJSONSchema(), cleaned); verr == nil {
				payload = cleaned
			} else {
				return toResult(documentFields{}, rawText, c.now)
			}
		} else {
			return toResult(documentFields{}, rawText, c.now)
		}
	}

	f, ok := decodeFields(payload)
	if !ok {
		return toResult(documentFields{}, rawText, c.now)
	}
	return toResult(f, rawText, c.now)
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

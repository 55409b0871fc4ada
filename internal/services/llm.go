package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/config"
	"tmc/cv-tailor/internal/models"
)

// Claude Sonnet pricing, USD per million tokens.
const (
	inputCostPerMTok  = 3.0
	outputCostPerMTok = 15.0
)

type LLMService interface {
	Complete(ctx context.Context, prompt string) (string, models.TokenUsage, error)
	CompleteJSON(ctx context.Context, prompt string, out any) (models.TokenUsage, error)
}

type llmService struct {
	client         anthropic.Client
	model          string
	maxTokens      int64
	temperature    float64
	requestTimeout time.Duration
	repairTimeout  time.Duration
	maxAttempts    int
	log            *logrus.Logger
}

func NewLLMService(cfg config.AnthropicConfig, log *logrus.Logger) LLMService {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
	)

	return &llmService{
		client:         client,
		model:          cfg.Model,
		maxTokens:      cfg.MaxTokens,
		temperature:    cfg.Temperature,
		requestTimeout: cfg.RequestTimeout,
		repairTimeout:  cfg.RepairTimeout,
		maxAttempts:    cfg.MaxAttempts,
		log:            log,
	}
}

// Complete implements LLMService. Each attempt runs under its own deadline;
// a timed-out attempt is retried before giving up with a ModelTimeout error.
func (l *llmService) Complete(ctx context.Context, prompt string) (string, models.TokenUsage, error) {
	return l.complete(ctx, prompt, l.requestTimeout, l.maxAttempts)
}

func (l *llmService) complete(ctx context.Context, prompt string, timeout time.Duration, attempts int) (string, models.TokenUsage, error) {
	var usage models.TokenUsage
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		text, attemptUsage, err := l.callOnce(ctx, prompt, timeout)
		usage.Add(attemptUsage)
		if err == nil {
			return text, usage, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			l.log.WithFields(logrus.Fields{
				"attempt": attempt,
				"error":   err.Error(),
			}).Warn("⚠️ Model call failed, retrying")
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return "", usage, models.NewPipelineError(models.ErrModelTimeout,
			fmt.Sprintf("model did not answer within %s after %d attempts", timeout, attempts), lastErr)
	}
	return "", usage, fmt.Errorf("model call failed after %d attempts: %w", attempts, lastErr)
}

func (l *llmService) callOnce(ctx context.Context, prompt string, timeout time.Duration) (string, models.TokenUsage, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := l.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:       anthropic.Model(l.model),
		MaxTokens:   l.maxTokens,
		Temperature: anthropic.Float(l.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", models.TokenUsage{}, fmt.Errorf("anthropic request failed: %w", err)
	}

	usage := models.TokenUsage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	usage.EstimatedCostUSD = costUSD(usage)

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()
	if text == "" {
		return "", usage, fmt.Errorf("no text content in model response")
	}

	l.log.WithFields(logrus.Fields{
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
	}).Debug("📊 Model response received")

	return text, usage, nil
}

// CompleteJSON implements LLMService. When the first answer does not decode,
// the raw text is sent back with the decode error for a single repair round
// before the call fails with a MalformedModelOutput error.
func (l *llmService) CompleteJSON(ctx context.Context, prompt string, out any) (models.TokenUsage, error) {
	raw, usage, err := l.Complete(ctx, prompt)
	if err != nil {
		return usage, err
	}

	cleaned := extractJSON(raw)
	firstErr := json.Unmarshal([]byte(cleaned), out)
	if firstErr == nil {
		return usage, nil
	}

	l.log.WithField("error", firstErr.Error()).Warn("⚠️ Model returned malformed JSON, attempting repair")

	repaired, repairUsage, err := l.complete(ctx, repairPrompt(raw, firstErr), l.repairTimeout, l.maxAttempts)
	usage.Add(repairUsage)
	if err != nil {
		return usage, err
	}

	if err := json.Unmarshal([]byte(extractJSON(repaired)), out); err != nil {
		return usage, models.NewPipelineError(models.ErrMalformedOutput,
			"model output could not be decoded even after a repair round", err)
	}
	return usage, nil
}

func costUSD(u models.TokenUsage) float64 {
	return float64(u.InputTokens)/1e6*inputCostPerMTok +
		float64(u.OutputTokens)/1e6*outputCostPerMTok
}

// extractJSON strips markdown code fences and any prose surrounding the
// outermost JSON object or array.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end > start {
		return s[start : end+1]
	}
	return s
}

func repairPrompt(raw string, decodeErr error) string {
	return fmt.Sprintf(`The following text was supposed to be a single valid JSON document but failed to parse.

Parse error: %s

Text:
%s

Return ONLY the corrected JSON document. Keep every field and value intact, fix only the syntax. No markdown fences, no commentary.`, decodeErr, raw)
}

// Package narrator turns settled battles into one-line commentary using the
// Anthropic Messages API.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/battle"
	"github.com/cory-johannsen/mealmax/internal/config"
)

const systemPrompt = "You are the announcer of a cooking tournament. " +
	"Given the result of one battle between two meals, reply with a single lively sentence " +
	"naming the winner. Do not invent numbers that are not in the result."

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("narrator returned no text")

// Narrator is a battle.Announcer backed by a Claude model.
type Narrator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Narrator from cfg. Extra request options are appended after
// the API key, so tests can redirect the base URL.
//
// Precondition: cfg must have passed config validation with Enabled set.
// Postcondition: Returns a non-nil Narrator; no request is made.
func New(cfg config.NarratorConfig, logger *zap.Logger, opts ...option.RequestOption) *Narrator {
	reqOpts := append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &Narrator{
		client:    anthropic.NewClient(reqOpts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Announce implements battle.Announcer.
//
// Postcondition: Returns the concatenated text blocks of the reply, trimmed,
// or an error. The call is bounded by the configured timeout when positive.
func (n *Narrator) Announce(ctx context.Context, r battle.Result) (string, error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(r))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrating battle %s: %w", r.ID, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("narrating battle %s: %w", r.ID, ErrEmptyResponse)
	}

	n.logger.Debug("battle narrated",
		zap.String("battle_id", r.ID.String()),
		zap.String("model", string(n.model)),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}

// Prompt renders the user message describing r.
//
// Postcondition: Pure; the output names both meals, their cuisines, both
// scores, the delta and the draw.
func Prompt(r battle.Result) string {
	return fmt.Sprintf(
		"Winner: %s (%s cuisine, %s difficulty, $%.2f), score %.2f.\n"+
			"Loser: %s (%s cuisine, %s difficulty, $%.2f), score %.2f.\n"+
			"Win threshold %.3f against random draw %.3f.",
		r.Winner.Name, r.Winner.Cuisine, r.Winner.Difficulty, r.Winner.Price, r.WinnerScore,
		r.Loser.Name, r.Loser.Cuisine, r.Loser.Difficulty, r.Loser.Price, r.LoserScore,
		r.Delta, r.Draw,
	)
}

var _ battle.Announcer = (*Narrator)(nil)

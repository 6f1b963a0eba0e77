// Package questions obtains the technical question set for a candidate.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/completion"
	"github.com/dmitrijs2005/talentscout/internal/logging"
	"github.com/dmitrijs2005/talentscout/internal/prompts"
)

const (
	MinQuestions = 3
	MaxQuestions = 5

	Temperature float32 = 0.5
	MaxTokens           = 400
)

// Generator asks the completion service for questions and enforces the
// reply contract. It never retries.
type Generator struct {
	completer completion.Completer
	logger    logging.Logger
}

func NewGenerator(c completion.Completer, l logging.Logger) *Generator {
	return &Generator{completer: c, logger: l.With("module", "questions")}
}

// Generate returns 3 to 5 non-empty questions, or a *common.GenerationError.
func (g *Generator) Generate(ctx context.Context, techStack string, years int) ([]string, error) {
	reply, err := g.completer.Complete(ctx, completion.Request{
		Instruction: prompts.QuestionGeneration(techStack, years),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return nil, &common.GenerationError{Reason: "completion failed", Err: err}
	}

	qs, err := Parse(reply)
	if err != nil {
		g.logger.Warn(ctx, "unusable question reply", "error", err, "reply_len", len(reply))
		return nil, err
	}
	return qs, nil
}

// Parse decodes a JSON array of question strings, optionally wrapped in a
// Markdown code fence.
func Parse(reply string) ([]string, error) {
	body := stripFence(reply)

	var qs []string
	if err := json.Unmarshal([]byte(body), &qs); err != nil {
		return nil, &common.GenerationError{Reason: "reply is not a JSON array of strings", Err: err}
	}
	if len(qs) < MinQuestions || len(qs) > MaxQuestions {
		return nil, &common.GenerationError{Reason: fmt.Sprintf("got %d questions, want %d-%d", len(qs), MinQuestions, MaxQuestions)}
	}
	for i, q := range qs {
		q = strings.TrimSpace(q)
		if q == "" {
			return nil, &common.GenerationError{Reason: fmt.Sprintf("question %d is empty", i)}
		}
		qs[i] = q
	}
	return qs, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string, e.g. "json"
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

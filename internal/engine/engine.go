// Package engine runs one candidate interview as a state machine: it
// greets the candidate, collects the profile field by field, asks the
// generated technical questions and hands the result to the record store
// whenever the session terminates.
package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/talentscout/internal/completion"
	"github.com/dmitrijs2005/talentscout/internal/logging"
	"github.com/dmitrijs2005/talentscout/internal/models"
	"github.com/dmitrijs2005/talentscout/internal/prompts"
)

// Apology replaces any conversational completion that failed.
const Apology = "I apologize, I'm having trouble responding right now. Please try again."

const (
	chatTemperature float32 = 0.25
	chatMaxTokens           = 300
)

const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

var ErrAlreadyStarted = errors.New("session already started")

// Validator checks one field value and returns what should be stored.
type Validator interface {
	Validate(ctx context.Context, field models.Field, raw string) (string, error)
}

// QuestionGenerator produces the technical question set.
type QuestionGenerator interface {
	Generate(ctx context.Context, techStack string, years int) ([]string, error)
}

// Saver persists a session snapshot.
type Saver interface {
	Save(ctx context.Context, s models.Submission) error
}

// Reply is the engine's answer to one turn.
type Reply struct {
	Text     string
	Finished bool
	State    State
}

// Turn is one transcript line.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type Deps struct {
	Validator Validator
	Completer completion.Completer
	Generator QuestionGenerator
	Saver     Saver
	Logger    logging.Logger
}

// Engine holds one session. All methods are safe for concurrent use; turns
// are processed one at a time.
type Engine struct {
	mu sync.Mutex

	id        string
	validator Validator
	completer completion.Completer
	generator QuestionGenerator
	saver     Saver
	logger    logging.Logger
	now       func() time.Time

	// lastActive is unix nanoseconds, readable without mu so that a turn
	// blocked on the completion service does not stall idle sweeps.
	lastActive atomic.Int64

	phase      phase
	profile    models.Profile
	qa         []models.QAEntry
	transcript []Turn
	rejected   int
	saves      int
}

func New(id string, d Deps) *Engine {
	e := &Engine{
		id:        id,
		validator: d.Validator,
		completer: d.Completer,
		generator: d.Generator,
		saver:     d.Saver,
		logger:    d.Logger.With("module", "engine", "session_id", id),
		now:       time.Now,
		phase:     greeting{},
	}
	e.touch()
	return e
}

func (e *Engine) ID() string { return e.id }

// Start runs the greeting for hosts that speak first.
func (e *Engine) Start(ctx context.Context) (Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.phase.(greeting); !ok {
		return Reply{}, ErrAlreadyStarted
	}
	e.touch()
	return e.emit(e.greet(ctx)), nil
}

// Process handles one respondent utterance.
func (e *Engine) Process(ctx context.Context, utterance string) Reply {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.touch()
	e.transcript = append(e.transcript, Turn{Role: RoleUser, Text: utterance})
	u := strings.TrimSpace(utterance)

	if IsExit(u) {
		return e.emit(e.exit(ctx))
	}
	if _, ok := e.phase.(closed); ok {
		return e.emit(e.say(ctx, prompts.Fallback(u, "continue our conversation"), prompts.Static(prompts.StageGracefulExit)), true)
	}
	if u == "" || IsRevealRequest(u) {
		e.logger.Info(ctx, "redirecting turn", "state", string(e.phase.state()), "stage", string(prompts.StageFallback))
		return e.emit(e.say(ctx, prompts.Fallback(u, e.task()), e.pending()), false)
	}

	switch p := e.phase.(type) {
	case greeting:
		return e.emit(e.greet(ctx))
	case collecting:
		return e.emit(e.collect(ctx, p, u))
	case transition:
		return e.emit(e.startQuestions(ctx, ""))
	case questioning:
		return e.emit(e.answer(ctx, p, u))
	case ended:
		return e.emit(e.say(ctx, prompts.End(), prompts.Static(prompts.StageEnd)), false)
	}
	return e.emit(e.say(ctx, prompts.Fallback(u, e.task()), e.pending()), false)
}

// Close terminates an abandoned session, persisting what it holds. It is
// a no-op for a closed session.
func (e *Engine) Close(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.phase.(closed); ok {
		return
	}
	e.logger.Info(ctx, "closing idle session", "state", string(e.phase.state()))
	e.persist(ctx, "idle")
	e.phase = closed{}
}

func (e *Engine) greet(ctx context.Context) (string, bool) {
	text := e.say(ctx, prompts.Greeting(), prompts.Static(prompts.StageGreeting))
	e.phase = collecting{awaiting: models.Fields[0]}
	return text, false
}

func (e *Engine) collect(ctx context.Context, p collecting, u string) (string, bool) {
	value, err := e.validator.Validate(ctx, p.awaiting, u)
	if err != nil {
		e.rejected++
		e.logger.Info(ctx, "field rejected", "field", string(p.awaiting), "error", err)
		return e.say(ctx, prompts.ValidationError(p.awaiting), prompts.ValidationHint(p.awaiting)), false
	}
	if err := e.profile.Set(p.awaiting, value); err != nil {
		e.logger.Error(ctx, "profile update failed", "field", string(p.awaiting), "error", err)
		return e.say(ctx, prompts.Fallback(u, e.task()), e.pending()), false
	}

	ack := e.aside(ctx, prompts.Acknowledgement(ackSubject(p.awaiting, value), string(p.awaiting)))

	next, ok := p.awaiting.Next()
	if !ok {
		e.phase = transition{}
		return e.startQuestions(ctx, ack)
	}
	e.phase = collecting{awaiting: next}
	return join(ack, e.say(ctx, prompts.InfoGathering(next), prompts.FieldExample(next))), false
}

// startQuestions runs the tech transition. lead is prepended to the reply.
func (e *Engine) startQuestions(ctx context.Context, lead string) (string, bool) {
	stack := e.profile.TechStack
	years := prompts.Years(e.profile.ExperienceYears)

	qs, err := e.generator.Generate(ctx, stack, years)
	if err != nil || len(qs) == 0 {
		e.logger.Warn(ctx, "no technical questions, ending session", "error", err)
		e.phase = ended{}
		e.persist(ctx, "ended")
		return join(lead, e.say(ctx, prompts.End(), prompts.Static(prompts.StageEnd))), false
	}

	q := questioning{questions: qs}
	e.phase = q
	e.logger.Info(ctx, "technical questions ready", "count", len(qs), "bracket", prompts.Bracket(years))
	return join(lead, e.say(ctx, prompts.Transition(stack, years), prompts.Static(prompts.StageTransition)), q.current()), false
}

func (e *Engine) answer(ctx context.Context, p questioning, u string) (string, bool) {
	e.qa = append(e.qa, models.QAEntry{Index: p.index, Question: p.current(), Answer: u})
	ack := e.aside(ctx, prompts.Acknowledgement(u, "technical question"))

	p.index++
	if p.index < len(p.questions) {
		e.phase = p
		return join(ack, p.current()), false
	}

	e.phase = ended{}
	e.persist(ctx, "ended")
	return join(ack, e.say(ctx, prompts.End(), prompts.Static(prompts.StageEnd))), false
}

func (e *Engine) exit(ctx context.Context) (string, bool) {
	e.persist(ctx, "exit")
	e.phase = closed{}
	return e.say(ctx, prompts.GracefulExit(), prompts.Static(prompts.StageGracefulExit)), true
}

// persist attempts one save of the current snapshot. Failures are logged
// and never reach the respondent.
func (e *Engine) persist(ctx context.Context, reason string) {
	e.saves++
	sub := models.Submission{
		ID:      e.id,
		Profile: e.profile,
		QA:      append([]models.QAEntry(nil), e.qa...),
	}
	if err := e.saver.Save(ctx, sub); err != nil {
		e.logger.Error(ctx, "session save failed", "reason", reason, "error", err)
		return
	}
	e.logger.Info(ctx, "session saved", "reason", reason, "fields", e.profile.Filled(), "answers", len(e.qa))
}

// complete sends a conversational instruction. It returns "" when the
// service failed or answered with nothing.
func (e *Engine) complete(ctx context.Context, instruction string) string {
	text, err := e.completer.Complete(ctx, completion.Request{
		Instruction: instruction,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		e.logger.Warn(ctx, "completion failed", "error", err)
		return ""
	}
	return text
}

// say degrades to fallback, or to Apology when there is none. Turns that
// ask the respondent something pass the static question as fallback so the
// interview stays usable without the completion service.
func (e *Engine) say(ctx context.Context, instruction, fallback string) string {
	if text := e.complete(ctx, instruction); text != "" {
		return text
	}
	if fallback != "" {
		return fallback
	}
	return Apology
}

// aside is for optional text such as acknowledgements. It is dropped when
// the completion fails.
func (e *Engine) aside(ctx context.Context, instruction string) string {
	return e.complete(ctx, instruction)
}

func (e *Engine) emit(text string, finished bool) Reply {
	e.transcript = append(e.transcript, Turn{Role: RoleAssistant, Text: text})
	return Reply{Text: text, Finished: finished, State: e.phase.state()}
}

// pending is the static form of what the current phase waits for.
func (e *Engine) pending() string {
	switch p := e.phase.(type) {
	case greeting:
		return prompts.Static(prompts.StageGreeting)
	case collecting:
		return prompts.FieldExample(p.awaiting)
	case questioning:
		return p.current()
	case ended:
		return prompts.Static(prompts.StageEnd)
	}
	return ""
}

func (e *Engine) task() string {
	switch p := e.phase.(type) {
	case collecting:
		return "collect the candidate's " + p.awaiting.Label()
	case questioning:
		return "answer the current technical question"
	}
	return "continue our conversation"
}

// ackSubject keeps sensitive values out of instructions sent to the
// completion service.
func ackSubject(f models.Field, value string) string {
	if f.Sensitive() {
		return "[" + f.Label() + " received]"
	}
	return value
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

// State returns the current phase label.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase.state()
}

// Finished reports whether the session is closed.
func (e *Engine) Finished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.phase.(closed)
	return ok
}

func (e *Engine) Profile() models.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

func (e *Engine) QA() []models.QAEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.QAEntry(nil), e.qa...)
}

func (e *Engine) Transcript() []Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Turn(nil), e.transcript...)
}

// Rejected counts failed field validations.
func (e *Engine) Rejected() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rejected
}

// Saves counts persistence attempts.
func (e *Engine) Saves() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saves
}

// LastActive never waits for a turn in progress.
func (e *Engine) LastActive() time.Time {
	return time.Unix(0, e.lastActive.Load())
}

func (e *Engine) touch() { e.lastActive.Store(e.now().UnixNano()) }

package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/completion"
	"github.com/dmitrijs2005/talentscout/internal/logging"
	"github.com/dmitrijs2005/talentscout/internal/models"
	"github.com/dmitrijs2005/talentscout/internal/prompts"
	"github.com/dmitrijs2005/talentscout/internal/validation"
)

type allowAll struct{}

func (allowAll) VerifyEmail(context.Context, string) (bool, error)    { return true, nil }
func (allowAll) VerifyPhone(context.Context, string) (bool, error)    { return true, nil }
func (allowAll) VerifyLocation(context.Context, string) (bool, error) { return true, nil }

// scriptedCompleter tags well-known instructions so tests can tell stages
// apart without matching generated prose.
type scriptedCompleter struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (c *scriptedCompleter) Complete(_ context.Context, r completion.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	switch r.Instruction {
	case prompts.Greeting():
		return "GREETING", nil
	case prompts.End():
		return "END", nil
	case prompts.GracefulExit():
		return "GOODBYE", nil
	}
	for _, f := range models.Fields {
		if r.Instruction == prompts.InfoGathering(f) {
			return "ASK " + string(f), nil
		}
		if r.Instruction == prompts.ValidationError(f) {
			return "INVALID " + string(f), nil
		}
	}
	if strings.Contains(r.Instruction, "You need to acknowledge") {
		return "ACK", nil
	}
	if strings.Contains(r.Instruction, "Now transitioning to technical questions") {
		return "TRANSITION", nil
	}
	if strings.Contains(r.Instruction, "redirect them back on track") {
		return "FALLBACK", nil
	}
	return "OTHER", nil
}

type stubGenerator struct {
	questions []string
	err       error
	calls     int
	stack     string
	years     int
}

func (g *stubGenerator) Generate(_ context.Context, stack string, years int) ([]string, error) {
	g.calls++
	g.stack, g.years = stack, years
	return g.questions, g.err
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []models.Submission
	err   error
}

func (s *recordingSaver) Save(_ context.Context, sub models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, sub)
	return s.err
}

func (s *recordingSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *recordingSaver) last() models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[len(s.saved)-1]
}

type fixture struct {
	engine    *Engine
	completer *scriptedCompleter
	generator *stubGenerator
	saver     *recordingSaver
}

var testQuestions = []string{
	"How do PostgreSQL indexes work?",
	"Explain Python generators.",
	"How would you design a REST API for bookings?",
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		completer: &scriptedCompleter{},
		generator: &stubGenerator{questions: testQuestions},
		saver:     &recordingSaver{},
	}
	f.engine = New("session-1", Deps{
		Validator: validation.NewPipeline(allowAll{}, allowAll{}, allowAll{}, logging.Nop{}),
		Completer: f.completer,
		Generator: f.generator,
		Saver:     f.saver,
		Logger:    logging.Nop{},
	})
	return f
}

var profileAnswers = []string{
	"Jane Doe",
	"jane@example.com",
	"+14155552671",
	"Austin, USA",
	"3",
	"Backend Engineer",
	"Python, PostgreSQL",
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	_, err := f.engine.Start(context.Background())
	require.NoError(t, err)
}

func (f *fixture) fillProfile(t *testing.T, n int) {
	t.Helper()
	for _, a := range profileAnswers[:n] {
		r := f.engine.Process(context.Background(), a)
		require.False(t, r.Finished)
	}
}

func TestEndToEnd_ProfileIntoTechnicalQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.engine.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GREETING", r.Text)
	assert.Equal(t, StateCollectingInfo, r.State)

	for i, a := range profileAnswers[:6] {
		r = f.engine.Process(ctx, a)
		assert.Equal(t, StateCollectingInfo, r.State, "after %q", a)
		assert.Equal(t, "ACK\n\nASK "+string(models.Fields[i+1]), r.Text)
	}

	r = f.engine.Process(ctx, profileAnswers[6])
	assert.False(t, r.Finished)
	assert.Equal(t, StateTechnicalQuestions, r.State)
	assert.Equal(t, "ACK\n\nTRANSITION\n\n"+testQuestions[0], r.Text)

	want := models.Profile{
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		PhoneNumber:      "+14155552671",
		CurrentLocation:  "Austin, USA",
		ExperienceYears:  "3",
		DesiredPositions: "Backend Engineer",
		TechStack:        "Python, PostgreSQL",
	}
	assert.Equal(t, want, f.engine.Profile())
	assert.Zero(t, f.engine.Rejected())
	assert.Zero(t, f.saver.count())

	assert.Equal(t, "Python, PostgreSQL", f.generator.stack)
	assert.Equal(t, 3, f.generator.years)
}

func TestEndToEnd_AnswersThenEndedThenExit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)
	f.fillProfile(t, 7)

	r := f.engine.Process(ctx, "B-tree by default")
	assert.Equal(t, "ACK\n\n"+testQuestions[1], r.Text)
	r = f.engine.Process(ctx, "lazy iterators")
	assert.Equal(t, "ACK\n\n"+testQuestions[2], r.Text)
	r = f.engine.Process(ctx, "resources and verbs")
	assert.Equal(t, "ACK\n\nEND", r.Text)
	assert.Equal(t, StateEnded, r.State)
	assert.False(t, r.Finished)

	require.Equal(t, 1, f.saver.count())
	saved := f.saver.last()
	assert.Equal(t, "session-1", saved.ID)
	assert.Equal(t, []models.QAEntry{
		{Index: 0, Question: testQuestions[0], Answer: "B-tree by default"},
		{Index: 1, Question: testQuestions[1], Answer: "lazy iterators"},
		{Index: 2, Question: testQuestions[2], Answer: "resources and verbs"},
	}, saved.QA)

	r = f.engine.Process(ctx, "anything else?")
	assert.Equal(t, "END", r.Text)
	assert.Equal(t, StateEnded, r.State)
	assert.False(t, r.Finished)
	assert.Equal(t, 1, f.saver.count())

	r = f.engine.Process(ctx, "ok, bye")
	assert.True(t, r.Finished)
	assert.Equal(t, StateClosed, r.State)
	assert.Equal(t, "GOODBYE", r.Text)
	assert.Equal(t, 2, f.saver.count())
	assert.True(t, f.engine.Finished())
}

func TestExitFromEveryState(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, f *fixture)
		wantFilled  int
		wantAnswers int
	}{
		{
			name:  "greeting",
			setup: func(t *testing.T, f *fixture) {},
		},
		{
			name:  "collecting info, empty profile",
			setup: func(t *testing.T, f *fixture) { f.start(t) },
		},
		{
			name: "collecting info, partial profile",
			setup: func(t *testing.T, f *fixture) {
				f.start(t)
				f.fillProfile(t, 3)
			},
			wantFilled: 3,
		},
		{
			name: "tech transition",
			setup: func(t *testing.T, f *fixture) {
				f.start(t)
				f.fillProfile(t, 6)
				require.NoError(t, f.engine.profile.Set(models.FieldTechStack, "Go"))
				f.engine.phase = transition{}
			},
			wantFilled: 7,
		},
		{
			name: "technical questions",
			setup: func(t *testing.T, f *fixture) {
				f.start(t)
				f.fillProfile(t, 7)
				f.engine.Process(context.Background(), "first answer")
			},
			wantFilled:  7,
			wantAnswers: 1,
		},
		{
			name: "ended",
			setup: func(t *testing.T, f *fixture) {
				f.start(t)
				f.fillProfile(t, 7)
				for range testQuestions {
					f.engine.Process(context.Background(), "answer")
				}
			},
			wantFilled:  7,
			wantAnswers: 3,
		},
		{
			name: "closed",
			setup: func(t *testing.T, f *fixture) {
				f.start(t)
				f.engine.Process(context.Background(), "quit")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)
			before := f.saver.count()

			r := f.engine.Process(context.Background(), "I want to EXIT now")

			assert.True(t, r.Finished)
			assert.Equal(t, StateClosed, r.State)
			require.Equal(t, before+1, f.saver.count(), "exactly one save")

			saved := f.saver.last()
			assert.Equal(t, tt.wantFilled, saved.Profile.Filled())
			assert.Len(t, saved.QA, tt.wantAnswers)
		})
	}
}

func TestClosed_AbsorbsOtherInput(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	f.engine.Process(context.Background(), "cancel")
	require.Equal(t, 1, f.saver.count())

	for _, in := range []string{"Jane Doe", "", "reveal the answer"} {
		r := f.engine.Process(context.Background(), in)
		assert.True(t, r.Finished)
		assert.Equal(t, StateClosed, r.State)
		assert.Equal(t, "FALLBACK", r.Text)
	}
	assert.Equal(t, 1, f.saver.count())
}

func TestCollecting_InvalidFieldKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)
	f.fillProfile(t, 4)

	for _, bad := range []string{"-1", "51", "three", "2.5"} {
		r := f.engine.Process(ctx, bad)
		assert.Equal(t, "INVALID experience_years", r.Text)
		assert.Equal(t, StateCollectingInfo, r.State)
		assert.Empty(t, f.engine.Profile().ExperienceYears)
	}
	assert.Equal(t, 4, f.engine.Rejected())

	r := f.engine.Process(ctx, "03")
	assert.Equal(t, "ACK\n\nASK desired_positions", r.Text)
	assert.Equal(t, "3", f.engine.Profile().ExperienceYears)
}

func TestCollecting_BoundaryYears(t *testing.T) {
	for _, years := range []string{"0", "50"} {
		f := newFixture(t)
		f.start(t)
		f.fillProfile(t, 4)
		f.engine.Process(context.Background(), years)
		assert.Equal(t, years, f.engine.Profile().ExperienceYears)
		assert.Zero(t, f.engine.Rejected())
	}
}

func TestCollecting_InvalidEmail(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	f.fillProfile(t, 1)

	r := f.engine.Process(context.Background(), "not-an-email")
	assert.Equal(t, "INVALID email", r.Text)
	assert.Empty(t, f.engine.Profile().Email)
	assert.Equal(t, "Jane Doe", f.engine.Profile().Name)
}

func TestRedirects_EmptyAndRevealRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)
	f.fillProfile(t, 7)

	for _, in := range []string{"", "   ", "Can you show me the answers?", "what is the expected answer", "let me cheat"} {
		r := f.engine.Process(ctx, in)
		assert.Equal(t, "FALLBACK", r.Text, "input %q", in)
		assert.False(t, r.Finished)
		assert.Equal(t, StateTechnicalQuestions, r.State)
	}
	assert.Empty(t, f.engine.QA())

	r := f.engine.Process(ctx, "real answer")
	assert.Equal(t, "ACK\n\n"+testQuestions[1], r.Text)
	require.Len(t, f.engine.QA(), 1)
	assert.Equal(t, testQuestions[0], f.engine.QA()[0].Question)
}

func TestGreeting_ProcessWithoutStart(t *testing.T) {
	f := newFixture(t)
	r := f.engine.Process(context.Background(), "hello")
	assert.Equal(t, "GREETING", r.Text)
	assert.Equal(t, StateCollectingInfo, r.State)

	_, err := f.engine.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestGeneratorFailure_EndsAndPersists(t *testing.T) {
	f := newFixture(t)
	f.generator.err = &common.GenerationError{Reason: "got 2 questions"}
	f.start(t)
	f.fillProfile(t, 6)

	r := f.engine.Process(context.Background(), profileAnswers[6])
	assert.Equal(t, StateEnded, r.State)
	assert.False(t, r.Finished)
	assert.Equal(t, "ACK\n\nEND", r.Text)
	require.Equal(t, 1, f.saver.count())
	assert.Equal(t, 7, f.saver.last().Profile.Filled())
	assert.Equal(t, 1, f.generator.calls)
}

func TestCompletionFailure_FallsBackToStaticText(t *testing.T) {
	f := newFixture(t)
	f.completer.err = errors.New("upstream 503")
	ctx := context.Background()

	r, err := f.engine.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, prompts.Static(prompts.StageGreeting), r.Text)
	assert.Equal(t, StateCollectingInfo, r.State)

	r = f.engine.Process(ctx, "Jane Doe")
	assert.Equal(t, prompts.FieldExample(models.FieldEmail), r.Text)
	assert.Equal(t, "Jane Doe", f.engine.Profile().Name)

	r = f.engine.Process(ctx, "not-an-email")
	assert.Equal(t, prompts.ValidationHint(models.FieldEmail), r.Text)

	r = f.engine.Process(ctx, "")
	assert.Equal(t, prompts.FieldExample(models.FieldEmail), r.Text)

	for _, a := range profileAnswers[1:6] {
		r = f.engine.Process(ctx, a)
	}
	assert.Equal(t, prompts.FieldExample(models.FieldTechStack), r.Text)

	r = f.engine.Process(ctx, profileAnswers[6])
	assert.Equal(t, StateTechnicalQuestions, r.State)
	assert.Equal(t, prompts.Static(prompts.StageTransition)+"\n\n"+testQuestions[0], r.Text)

	r = f.engine.Process(ctx, "B-tree by default")
	assert.Equal(t, testQuestions[1], r.Text)
	assert.NotContains(t, r.Text, Apology)
	assert.Equal(t, 7, f.engine.Profile().Filled())

	r = f.engine.Process(ctx, "exit")
	assert.Equal(t, prompts.Static(prompts.StageGracefulExit), r.Text)
}

type emptyCompleter struct{}

func (emptyCompleter) Complete(context.Context, completion.Request) (string, error) {
	return "", nil
}

func TestSay_EmptyReply(t *testing.T) {
	e := New("s", Deps{
		Validator: validation.NewPipeline(allowAll{}, allowAll{}, allowAll{}, logging.Nop{}),
		Completer: emptyCompleter{},
		Generator: &stubGenerator{questions: testQuestions},
		Saver:     &recordingSaver{},
		Logger:    logging.Nop{},
	})
	ctx := context.Background()

	assert.Equal(t, "static", e.say(ctx, "instruction", "static"))
	assert.Equal(t, Apology, e.say(ctx, "instruction", ""))
	assert.Empty(t, e.aside(ctx, "instruction"))
}

func TestSaveFailure_StillCloses(t *testing.T) {
	f := newFixture(t)
	f.saver.err = &common.PersistenceError{RecordID: "session-1", Err: errors.New("disk full")}
	f.start(t)
	f.fillProfile(t, 2)

	r := f.engine.Process(context.Background(), "goodbye")
	assert.True(t, r.Finished)
	assert.Equal(t, "GOODBYE", r.Text)
	assert.NotContains(t, r.Text, "disk full")
	assert.Equal(t, 2, f.saver.last().Profile.Filled())
}

func TestClose_PersistsOnce(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	f.fillProfile(t, 2)

	f.engine.Close(context.Background())
	f.engine.Close(context.Background())

	assert.Equal(t, 1, f.saver.count())
	assert.Equal(t, StateClosed, f.engine.State())
	assert.Equal(t, 1, f.engine.Saves())
}

func TestTranscript(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	f.engine.Process(context.Background(), "Jane Doe")

	assert.Equal(t, []Turn{
		{Role: RoleAssistant, Text: "GREETING"},
		{Role: RoleUser, Text: "Jane Doe"},
		{Role: RoleAssistant, Text: "ACK\n\nASK email"},
	}, f.engine.Transcript())
}

func TestSensitiveValuesStayOutOfInstructions(t *testing.T) {
	var seen []string
	rec := completerFunc(func(r completion.Request) { seen = append(seen, r.Instruction) })

	e := New("s", Deps{
		Validator: validation.NewPipeline(allowAll{}, allowAll{}, allowAll{}, logging.Nop{}),
		Completer: rec,
		Generator: &stubGenerator{questions: testQuestions},
		Saver:     &recordingSaver{},
		Logger:    logging.Nop{},
	})
	_, err := e.Start(context.Background())
	require.NoError(t, err)
	for _, a := range profileAnswers[:4] {
		e.Process(context.Background(), a)
	}

	for _, instr := range seen {
		assert.NotContains(t, instr, "jane@example.com")
		assert.NotContains(t, instr, "+14155552671")
		assert.NotContains(t, instr, "Austin, USA")
	}
}

type completerFunc func(r completion.Request)

func (f completerFunc) Complete(_ context.Context, r completion.Request) (string, error) {
	f(r)
	return "ok", nil
}

func TestProcess_ConcurrentCallsAreSerialized(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.engine.Process(context.Background(), "Backend Engineer")
		}()
	}
	wg.Wait()

	// 20 user turns plus 20 replies after the greeting.
	assert.Len(t, f.engine.Transcript(), 41)
	assert.Equal(t, "Backend Engineer", f.engine.Profile().Name)
}

func TestLexicon(t *testing.T) {
	for _, s := range []string{"exit", "QUIT", "Bye!", "goodbye", "I'd like to cancel"} {
		assert.True(t, IsExit(s), s)
	}
	for _, s := range []string{"Backend Engineer", "stop-motion", "Jane Doe", "Python, PostgreSQL"} {
		assert.False(t, IsExit(s), s)
	}
	for _, s := range []string{"Reveal the answer please", "what's the ANSWER KEY", "cheat sheet"} {
		assert.True(t, IsRevealRequest(s), s)
	}
	assert.False(t, IsRevealRequest("I use hash maps for lookups"))
	assert.False(t, IsRevealRequest("The correct answer depends on the read/write ratio"))
	assert.False(t, IsRevealRequest("Caching is a cheat code for latency"))
}

func TestAnswerMentioningCorrectAnswerIsRecorded(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	f.fillProfile(t, 7)

	answer := "There is no single correct answer; it depends on the workload"
	r := f.engine.Process(context.Background(), answer)
	assert.Equal(t, "ACK\n\n"+testQuestions[1], r.Text)
	require.Len(t, f.engine.QA(), 1)
	assert.Equal(t, answer, f.engine.QA()[0].Answer)
}

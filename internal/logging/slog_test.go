package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("session_id", "s-1").Info(context.Background(), "turn", "state", "collecting_info")

	out := buf.String()
	for _, want := range []string{"msg=turn", "session_id=s-1", "state=collecting_info"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestSlogLogger_RedactsSensitiveKeys(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("email", "jane@example.com").Info(context.Background(), "saved",
		"phone_number", "+14155552671", "session_id", "s-1", slog.String("current_location", "Berlin"))

	out := buf.String()
	for _, leaked := range []string{"jane@example.com", "+14155552671", "Berlin"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("sensitive value %q leaked:\n%s", leaked, out)
		}
	}
	if !strings.Contains(out, "session_id=s-1") {
		t.Fatalf("expected session_id in output:\n%s", out)
	}
	if strings.Count(out, Redacted) != 3 {
		t.Fatalf("expected three redactions:\n%s", out)
	}
}

func TestScrub_LeavesInputAlone(t *testing.T) {
	args := []any{"email", "a@b.c", "n", 1}
	out := Scrub(args)
	if args[1] != "a@b.c" {
		t.Fatalf("input modified: %v", args)
	}
	if out[1] != Redacted || out[3] != 1 {
		t.Fatalf("unexpected output: %v", out)
	}

	clean := []any{"n", 1}
	if got := Scrub(clean); &got[0] != &clean[0] {
		t.Fatalf("expected the same slice back")
	}
}

package router

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeClassifier struct {
	cls   Classification
	err   error
	calls int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	f.calls++
	return f.cls, f.err
}

type recordingHandler struct {
	action string
	params map[string]any
	result string
	err    error
	panics bool
}

func (h *recordingHandler) Execute(action string, params map[string]any) (string, error) {
	if h.panics {
		panic("handler exploded")
	}
	h.action = action
	h.params = params
	return h.result, h.err
}

func TestStage1SkipsCollaborator(t *testing.T) {
	clf := &fakeClassifier{}
	handler := &recordingHandler{result: "It's 3 45 PM."}

	r := New(clf)
	r.Register("system_info", handler)

	out, err := r.Route(context.Background(), "what time is it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "It's 3 45 PM." {
		t.Errorf("unexpected result: %q", out)
	}
	if handler.action != "time" {
		t.Errorf("expected action time, got %q", handler.action)
	}
	if clf.calls != 0 {
		t.Errorf("stage 2 invoked %d times despite stage-1 match", clf.calls)
	}
}

func TestStage2FallbackOrder(t *testing.T) {
	clf := &fakeClassifier{cls: Classification{Tool: "none"}}
	r := New(clf)

	_, err := r.Route(context.Background(), "tell me a joke")
	if !errors.Is(err, ErrNoTool) {
		t.Fatalf("expected ErrNoTool, got %v", err)
	}
	if clf.calls != 1 {
		t.Errorf("expected exactly one stage-2 call, got %d", clf.calls)
	}
}

func TestStage2FailureDegradesToChat(t *testing.T) {
	clf := &fakeClassifier{err: fmt.Errorf("connection refused")}
	r := New(clf)

	_, err := r.Route(context.Background(), "please do the thing")
	if !errors.Is(err, ErrNoTool) {
		t.Fatalf("expected ErrNoTool on collaborator failure, got %v", err)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	clf := &fakeClassifier{cls: Classification{Tool: "teleporter", Action: "engage"}}
	r := New(clf)

	out, err := r.Route(context.Background(), "beam me up")
	if err != nil {
		t.Fatalf("unknown tool must not error, got %v", err)
	}
	if out != "I don't have the teleporter tool available yet." {
		t.Errorf("unexpected message: %q", out)
	}
}

func TestDispatchContainsHandlerError(t *testing.T) {
	handler := &recordingHandler{err: fmt.Errorf("boom")}
	r := New(nil)
	r.Register("system_info", handler)

	out, err := r.Route(context.Background(), "what time is it")
	if err != nil {
		t.Fatalf("handler error must not propagate, got %v", err)
	}
	if out != "Sorry, something went wrong while running that command." {
		t.Errorf("unexpected apology: %q", out)
	}
}

func TestDispatchContainsHandlerPanic(t *testing.T) {
	handler := &recordingHandler{panics: true}
	r := New(nil)
	r.Register("system_info", handler)

	out, err := r.Route(context.Background(), "what time is it")
	if err != nil {
		t.Fatalf("handler panic must not propagate, got %v", err)
	}
	if out != "Sorry, something went wrong while running that command." {
		t.Errorf("unexpected apology: %q", out)
	}
}

func TestRouteWithoutClassifier(t *testing.T) {
	r := New(nil)
	_, err := r.Route(context.Background(), "some unmatched ramble")
	if !errors.Is(err, ErrNoTool) {
		t.Fatalf("expected ErrNoTool without a classifier, got %v", err)
	}
}

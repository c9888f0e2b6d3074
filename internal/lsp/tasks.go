package lsp

import (
	"sync"
	"sync/atomic"
)

// taskKind names the cancellation slot a long-running request draws from.
// Each document carries one generation counter per kind, so a completion
// request only ever cancels the previous completion, never a hover.
type taskKind uint8

const (
	taskCompletion taskKind = iota
	taskHover
	taskAnalysis
	taskKindCount
)

func (k taskKind) String() string {
	switch k {
	case taskCompletion:
		return "completion"
	case taskHover:
		return "hover"
	case taskAnalysis:
		return "analysis"
	}
	return "unknown"
}

// TaskCancelledError reports that a newer request of the same kind arrived
// for the same document while this one was still running.
type TaskCancelledError struct {
	Kind taskKind
}

func (e *TaskCancelledError) Error() string {
	return e.Kind.String() + " task cancelled"
}

// documentTasks holds the per-kind generation counters for one document.
type documentTasks struct {
	generations [taskKindCount]atomic.Uint64
}

// TaskToken captures one generation of a per-document counter. The token is
// cancelled as soon as any later request bumps the same counter; the holder
// polls IsCancelled at its own checkpoints, nothing is interrupted for it.
type TaskToken struct {
	slot     *atomic.Uint64
	captured uint64
	kind     taskKind
}

// IsCancelled reports whether a newer task of the same kind has started.
func (t *TaskToken) IsCancelled() bool {
	if t == nil || t.slot == nil {
		return false
	}
	return t.slot.Load() != t.captured
}

// Err returns the cancellation error for this token's kind.
func (t *TaskToken) Err() error {
	if t == nil {
		return &TaskCancelledError{}
	}
	return &TaskCancelledError{Kind: t.kind}
}

// taskTracker owns the generation counters for every open document. The
// mutex guards the map only; the counters themselves are atomic so tokens
// can be checked without taking it.
type taskTracker struct {
	mu   sync.Mutex
	docs map[string]*documentTasks
}

func newTaskTracker() *taskTracker {
	return &taskTracker{docs: make(map[string]*documentTasks)}
}

// Start bumps the generation for (uri, kind) and returns a token pinned to
// the new value. Every previously issued token of that kind is cancelled by
// the bump.
func (t *taskTracker) Start(uri string, kind taskKind) *TaskToken {
	t.mu.Lock()
	doc, ok := t.docs[uri]
	if !ok {
		doc = &documentTasks{}
		t.docs[uri] = doc
	}
	t.mu.Unlock()
	slot := &doc.generations[kind]
	return &TaskToken{slot: slot, captured: slot.Add(1), kind: kind}
}

// Drop forgets the counters of a closed document. Outstanding tokens keep
// their captured slot and simply never observe another bump.
func (t *taskTracker) Drop(uri string) {
	t.mu.Lock()
	delete(t.docs, uri)
	t.mu.Unlock()
}

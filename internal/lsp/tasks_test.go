package lsp

import (
	"errors"
	"testing"
)

func TestTaskTrackerSecondStartCancelsFirst(t *testing.T) {
	tracker := newTaskTracker()
	first := tracker.Start(testURI, taskCompletion)
	if first.IsCancelled() {
		t.Fatal("fresh token already cancelled")
	}
	second := tracker.Start(testURI, taskCompletion)
	if !first.IsCancelled() {
		t.Fatal("first token survived a second start")
	}
	if second.IsCancelled() {
		t.Fatal("second token cancelled")
	}
}

func TestTaskTrackerKindsAreIndependent(t *testing.T) {
	tracker := newTaskTracker()
	completion := tracker.Start(testURI, taskCompletion)
	hover := tracker.Start(testURI, taskHover)
	tracker.Start(testURI, taskHover)

	if completion.IsCancelled() {
		t.Fatal("hover start cancelled a completion token")
	}
	if !hover.IsCancelled() {
		t.Fatal("hover token survived a second hover start")
	}
}

func TestTaskTrackerDocumentsAreIndependent(t *testing.T) {
	tracker := newTaskTracker()
	a := tracker.Start("file:///a.did", taskCompletion)
	tracker.Start("file:///b.did", taskCompletion)
	if a.IsCancelled() {
		t.Fatal("start on another document cancelled this one")
	}
}

func TestTaskTokenErr(t *testing.T) {
	tracker := newTaskTracker()
	token := tracker.Start(testURI, taskCompletion)

	err := token.Err()
	var cancelled *TaskCancelledError
	if !errors.As(err, &cancelled) {
		t.Fatalf("got %T", err)
	}
	if cancelled.Kind != taskCompletion {
		t.Fatalf("kind %v", cancelled.Kind)
	}
	if got := err.Error(); got != "completion task cancelled" {
		t.Fatalf("got %q", got)
	}
	if got := tracker.Start(testURI, taskHover).Err().Error(); got != "hover task cancelled" {
		t.Fatalf("got %q", got)
	}
}

func TestTaskTrackerDropLeavesTokensUncancelled(t *testing.T) {
	tracker := newTaskTracker()
	token := tracker.Start(testURI, taskCompletion)
	tracker.Drop(testURI)
	if token.IsCancelled() {
		t.Fatal("drop cancelled an outstanding token")
	}

	// A fresh start after the drop begins a new counter; the old token's
	// slot is never bumped again.
	fresh := tracker.Start(testURI, taskCompletion)
	if token.IsCancelled() {
		t.Fatal("restart after drop reached the old slot")
	}
	if fresh.IsCancelled() {
		t.Fatal("fresh token cancelled")
	}
}

func TestNilTaskTokenIsSafe(t *testing.T) {
	var token *TaskToken
	if token.IsCancelled() {
		t.Fatal("nil token cancelled")
	}
	if token.Err() == nil {
		t.Fatal("nil token has no error")
	}
}

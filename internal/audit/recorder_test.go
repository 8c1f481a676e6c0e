package audit

import (
	"os"
	"path/filepath"
	"testing"

	"purgeall/internal/model"
)

var shopOrder = model.Identifier{Namespace: "shop", Name: "order"}

func TestRecorderWritesBothEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	r := NewRecorder(path, true, nil)
	r.Attempt(shopOrder, 5, "cli")
	r.Success(shopOrder, 5, "cli")
	r.Close()

	entries, err := ReadEntries(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Event != EventAttempt || entries[1].Event != EventSuccess {
		t.Errorf("unexpected events: %s, %s", entries[0].Event, entries[1].Event)
	}
	if entries[0].Namespace != "shop" || entries[0].Model != "order" || entries[0].Actor != "cli" {
		t.Errorf("unexpected attempt entry: %+v", entries[0])
	}
}

func TestRecorderDisabledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	r := NewRecorder(path, false, nil)
	r.Attempt(shopOrder, 5, "cli")
	r.Success(shopOrder, 5, "cli")
	r.Close()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled recorder should not create the log file")
	}
}

func TestRecorderUnopenableLogNeverFails(t *testing.T) {
	// A directory path cannot be opened as a log file.
	dir := t.TempDir()
	r := NewRecorder(dir, true, nil)

	// Must not panic or error; auditing never blocks a deletion.
	r.Attempt(shopOrder, 5, "cli")
	r.Success(shopOrder, 5, "cli")
	if err := r.Close(); err != nil {
		t.Errorf("close on degraded recorder: %v", err)
	}
}

func TestRecorderEmptyPathDegrades(t *testing.T) {
	r := NewRecorder("", true, nil)
	r.Attempt(shopOrder, 1, "cli")
	r.Close()
}

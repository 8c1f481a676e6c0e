package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func record(t *testing.T, l *Log, e Entry) {
	t.Helper()
	if err := l.Record(e); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestChainStartsAtGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	record(t, l, Entry{Event: EventAttempt, Namespace: "shop", Model: "order", Count: 3, Actor: "cli"})
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var e Entry
	if err := json.Unmarshal(data[:len(data)-1], &e); err != nil {
		t.Fatal(err)
	}
	if e.PrevHash != GenesisHash {
		t.Errorf("first entry prev_hash: expected genesis, got %s", e.PrevHash)
	}
	if e.Timestamp == "" {
		t.Error("timestamp should be set")
	}
}

func TestChainLinksEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	record(t, l, Entry{Event: EventAttempt, Namespace: "shop", Model: "order", Count: 3, Actor: "cli"})
	record(t, l, Entry{Event: EventSuccess, Namespace: "shop", Model: "order", Count: 3, Actor: "cli"})
	l.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines [][]byte
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var second Entry
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatal(err)
	}
	if second.PrevHash != HashLine(lines[0]) {
		t.Errorf("second entry prev_hash does not match hash of first line")
	}
}

func TestReopenContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	record(t, l, Entry{Event: EventAttempt, Namespace: "shop", Model: "order", Count: 1, Actor: "cli"})
	l.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	record(t, l2, Entry{Event: EventSuccess, Namespace: "shop", Model: "order", Count: 1, Actor: "cli"})
	l2.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("chain should verify after reopen: %s (line %d)", result.Error, result.ErrorLine)
	}
	if result.Lines != 2 {
		t.Errorf("expected 2 verified lines, got %d", result.Lines)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		record(t, l, Entry{Event: EventAttempt, Namespace: "shop", Model: "order", Count: int64(i), Actor: "cli"})
	}
	l.Close()

	// Flip the count in the middle entry.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := []byte{}
	lineNum := 0
	for _, line := range splitLines(data) {
		lineNum++
		if lineNum == 2 {
			var e Entry
			if err := json.Unmarshal(line, &e); err != nil {
				t.Fatal(err)
			}
			e.Count = 9999
			line, _ = json.Marshal(e)
		}
		tampered = append(tampered, line...)
		tampered = append(tampered, '\n')
	}
	if err := os.WriteFile(path, tampered, 0600); err != nil {
		t.Fatal(err)
	}

	result := Verify(path)
	if result.Valid {
		t.Fatal("verification should fail on a tampered log")
	}
	if result.ErrorLine != 3 {
		t.Errorf("expected break detected at line 3, got %d", result.ErrorLine)
	}
}

func TestVerifyRejectsBadGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	e := Entry{Event: EventAttempt, Namespace: "shop", Model: "order", PrevHash: "sha256:bogus"}
	line, _ := json.Marshal(e)
	if err := os.WriteFile(path, append(line, '\n'), 0600); err != nil {
		t.Fatal(err)
	}

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected failure for bad genesis")
	}
	if result.ErrorLine != 1 {
		t.Errorf("expected error at line 1, got %d", result.ErrorLine)
	}
}

func TestVerifyEmptyLogIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	result := Verify(path)
	if !result.Valid {
		t.Errorf("empty log should verify: %s", result.Error)
	}
	if result.Lines != 0 {
		t.Errorf("expected 0 lines, got %d", result.Lines)
	}
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}

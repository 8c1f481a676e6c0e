package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const separator = "──────────────────────────────────────────────────────────────────"

// ReadEntries reads up to limit entries from the tail of a JSONL audit
// log. A limit of 0 reads everything.
func ReadEntries(path string, limit int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: open: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("audit: parse line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: scan: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// FormatEntries renders entries as a human-readable text table.
func FormatEntries(entries []Entry) string {
	if len(entries) == 0 {
		return "No audit entries found.\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-20s %-8s %-28s %8s  %s\n", "TIME", "EVENT", "MODEL", "COUNT", "ACTOR"))
	b.WriteString(separator + "\n")

	attempts, successes := 0, 0
	for _, e := range entries {
		target := e.Namespace
		if e.Model != "" && e.Model != e.Namespace {
			target = e.Namespace + "." + e.Model
		}
		b.WriteString(fmt.Sprintf("%-20s %-8s %-28s %8d  %s\n",
			formatTimestamp(e.Timestamp), e.Event, truncate(target, 28), e.Count, e.Actor))
		switch e.Event {
		case EventAttempt:
			attempts++
		case EventSuccess:
			successes++
		}
	}

	b.WriteString(separator + "\n")
	b.WriteString(fmt.Sprintf("Summary: %d attempts, %d completed\n", attempts, successes))
	return b.String()
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

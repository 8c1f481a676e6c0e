package model

import "time"

// Identifier names a deletable collection of records: the logical
// namespace (application) it belongs to and the model name within it.
// Immutable, supplied by the caller.
type Identifier struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

func (id Identifier) String() string {
	if id.Name == "" || id.Name == id.Namespace {
		return id.Namespace
	}
	return id.Namespace + "." + id.Name
}

// OutcomeKind classifies how a deletion attempt terminated.
type OutcomeKind string

const (
	KindBlocked   OutcomeKind = "blocked"
	KindCancelled OutcomeKind = "cancelled"
	KindDryRun    OutcomeKind = "dry_run"
	KindSucceeded OutcomeKind = "succeeded"
	KindFailed    OutcomeKind = "failed"
)

// Outcome is the write-once result of a single deletion attempt.
// A KindSucceeded outcome is only ever constructed after the safety
// policy allowed the same (identifier, count) pair; the invoker's
// construction order enforces this.
type Outcome struct {
	ID             string           `json:"id"`
	Identifier     Identifier       `json:"identifier"`
	RequestedCount int64            `json:"requested_count"`
	DeletedCount   int64            `json:"deleted_count"`
	Breakdown      map[string]int64 `json:"breakdown,omitempty"`
	Actor          string           `json:"actor"`
	Timestamp      time.Time        `json:"ts"`
	Kind           OutcomeKind      `json:"kind"`
	Reason         string           `json:"reason,omitempty"`
}

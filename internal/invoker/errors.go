package invoker

import (
	"fmt"

	"purgeall/internal/model"
)

// BlockedError is returned when the safety policy rejects a deletion.
// Recoverable: front-ends surface the reason as a user-facing message.
type BlockedError struct {
	Identifier model.Identifier
	Count      int64
	Reason     string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("deletion of %s blocked: %s", e.Identifier, e.Reason)
}

// DeleteError wraps a failure from the host datastore. The datastore's
// transaction has already rolled back; no partial state remains.
type DeleteError struct {
	Identifier model.Identifier
	Err        error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s: %v", e.Identifier, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

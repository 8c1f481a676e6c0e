package audit

// TimestampFormat is the wire format for entry timestamps (UTC).
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Event kinds recorded for deletion operations.
const (
	EventAttempt = "attempt"
	EventSuccess = "success"
)

// Entry is one line in the hash-chained JSONL audit log.
// All fields are scalar to guarantee deterministic json.Marshal field
// order for reproducible hashing.
type Entry struct {
	Timestamp string `json:"ts"`
	Event     string `json:"event"`
	Namespace string `json:"namespace"`
	Model     string `json:"model"`
	Count     int64  `json:"count"`
	Actor     string `json:"actor"`
	PrevHash  string `json:"prev_hash"`
}

package checkout

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusValidating Status = "VALIDATING"
	StatusRejected   Status = "REJECTED"
	StatusCommitting Status = "COMMITTING"
	StatusCommitted  Status = "COMMITTED"
)

func (s Status) IsTerminal() bool {
	return s == StatusCommitted || s == StatusRejected
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

// validNext encodes the per-attempt state machine:
// Idle -> Validating -> (Rejected | Committing) -> Committed.
// Terminal states return to Idle for the next attempt.
func (s Status) validNext(next Status) bool {
	switch s {
	case StatusIdle:
		return next == StatusValidating
	case StatusValidating:
		return next == StatusRejected || next == StatusCommitting
	case StatusCommitting:
		return next == StatusCommitted
	case StatusRejected, StatusCommitted:
		return next == StatusIdle
	}
	return false
}

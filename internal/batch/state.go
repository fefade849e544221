package batch

import "fmt"

// ItemState is where a worklist item is in its lifecycle:
//
//	PENDING -> REQUESTED -> (EXTRACTED | SESSION_EXPIRED | NOT_FOUND | ERROR) -> (RECORDED | SKIPPED)
//
// SESSION_EXPIRED leads back to REQUESTED once.
type ItemState int

const (
	PENDING ItemState = iota
	REQUESTED
	EXTRACTED
	SESSION_EXPIRED
	NOT_FOUND
	ERROR
	RECORDED
	SKIPPED
)

func (s ItemState) String() string {
	switch s {
	case PENDING:
		return "PENDING"
	case REQUESTED:
		return "REQUESTED"
	case EXTRACTED:
		return "EXTRACTED"
	case SESSION_EXPIRED:
		return "SESSION_EXPIRED"
	case NOT_FOUND:
		return "NOT_FOUND"
	case ERROR:
		return "ERROR"
	case RECORDED:
		return "RECORDED"
	case SKIPPED:
		return "SKIPPED"
	}
	return fmt.Sprintf("ItemState(%d)", int(s))
}

// Terminal is the state an item settles in after being classified.
func (s ItemState) Terminal() ItemState {
	if s == EXTRACTED {
		return RECORDED
	}
	return SKIPPED
}

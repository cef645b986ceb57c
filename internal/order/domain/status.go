package domain

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPacked    Status = "packed"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// progression lists the forward path; cancelled sits outside it.
var progression = map[Status]int{
	StatusPending:   0,
	StatusPacked:    1,
	StatusReady:     2,
	StatusCompleted: 3,
}

// ParseStatus validates a wire value.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	if _, ok := progression[st]; ok || st == StatusCancelled {
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to a
// different one. Orders only move forward (steps may be skipped) or get
// cancelled before completion. Same-status requests are handled by callers
// as no-ops and are not transitions.
func CanTransition(from, to Status) bool {
	if from == to || from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, okFrom := progression[from]
	toRank, okTo := progression[to]
	return okFrom && okTo && toRank > fromRank
}

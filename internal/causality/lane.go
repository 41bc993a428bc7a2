package causality

import "github.com/kolkov/tracechain/internal/trace/marker"

// NoLane is the implicit lane used before the first IMPL_THREAD record.
const NoLane int64 = -1

// scope is one open dynamic scope.
type scope struct {
	id     int64
	marker marker.Name
}

// Lane holds the execution state of a single implementation thread.
//
// Each lane tracks which activity it is currently running and the stack of
// dynamic scopes (turns, monitors, transactions) open on it.
//
// Invariant: scopes nest; an end always closes the most recently opened
// scope on the same lane.
type Lane struct {
	// ID is the implementation thread id (NoLane for the implicit lane).
	ID int64

	// Activity is the activity currently running on the lane, or None.
	Activity int64

	scopes []scope
}

func newLane(id int64) *Lane {
	return &Lane{ID: id, Activity: None}
}

// Depth returns the number of open scopes.
func (l *Lane) Depth() int {
	return len(l.scopes)
}

// CurrentTurn returns the id of the innermost open turn, or None.
// Monitor and transaction scopes are skipped.
func (l *Lane) CurrentTurn() int64 {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if l.scopes[i].marker.IsTurn() {
			return l.scopes[i].id
		}
	}
	return None
}

func (l *Lane) push(id int64, m marker.Name) {
	l.scopes = append(l.scopes, scope{id: id, marker: m})
}

// pop closes the innermost scope. It reports false on an empty stack.
func (l *Lane) pop() (scope, bool) {
	n := len(l.scopes)
	if n == 0 {
		return scope{}, false
	}
	s := l.scopes[n-1]
	l.scopes = l.scopes[:n-1]
	return s, true
}

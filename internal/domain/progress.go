package domain

// Defaults for progress state when nothing is cached yet.
const (
	DefaultGoalMinutes = 60

	// MinLoggableSeconds is the threshold below which a watch session is
	// discarded rather than logged. Filters out accidental opens.
	MinLoggableSeconds = 30
)

// ProgressState is the canonical in-process representation of today's
// watch-time progress against the daily goal.
type ProgressState struct {
	GoalMinutes    int    `json:"goal_minutes"`
	CurrentMinutes int    `json:"current_minutes"`
	GoalReached    bool   `json:"goal_reached"`
	DateString     string `json:"date_string"`

	// Transient request status, never persisted.
	Loading bool    `json:"loading"`
	Error   *string `json:"error,omitempty"`
}

// NewProgressState creates a zero-progress state for the given day with the
// default daily goal.
func NewProgressState(dateString string) ProgressState {
	return ProgressState{
		GoalMinutes:    DefaultGoalMinutes,
		CurrentMinutes: 0,
		GoalReached:    false,
		DateString:     dateString,
	}
}

// RecomputeGoalReached re-derives the goal flag from the current counters.
// Applied after local optimistic updates; reconciliation instead adopts the
// server's flag verbatim.
func (p *ProgressState) RecomputeGoalReached() {
	p.GoalReached = p.CurrentMinutes >= p.GoalMinutes
}

// SecondsToMinutes converts watched seconds to whole minutes, flooring.
func SecondsToMinutes(seconds int) int {
	return seconds / 60
}

// ExternalTimeEntry is one watch-time log entry submitted to the remote API.
// The id is client-generated; the server does not deduplicate, so a retried
// submission double-counts.
type ExternalTimeEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	ID          string `json:"id"`
	TimeSeconds int    `json:"timeSeconds"`
	Type        string `json:"type"`
}

// EntryTypeWatching is the only entry type this client submits.
const EntryTypeWatching = "watching"

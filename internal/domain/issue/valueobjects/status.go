package valueobjects

// IssueStatus is the triage state of a reported issue.
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
)

func (s IssueStatus) String() string {
	return string(s)
}

func (s IssueStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

func (s IssueStatus) IsPending() bool {
	return s == StatusPending
}

func (s IssueStatus) IsInProgress() bool {
	return s == StatusInProgress
}

func (s IssueStatus) IsResolved() bool {
	return s == StatusResolved
}

// CanTransitionTo reports whether a transition to target is allowed. The
// workflow graph is fully connected: engineers may move an issue between any
// two distinct states, including re-opening a resolved issue back to pending.
// This is the single gate to tighten if transitions ever need restricting.
func (s IssueStatus) CanTransitionTo(target IssueStatus) bool {
	return s.IsValid() && target.IsValid() && s != target
}

// ParseStatus validates and converts a raw string.
func ParseStatus(raw string) (IssueStatus, bool) {
	s := IssueStatus(raw)
	return s, s.IsValid()
}

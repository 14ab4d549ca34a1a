package valueobjects

import "testing"

func TestStatusIsValid(t *testing.T) {
	tests := []struct {
		status IssueStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusInProgress, true},
		{StatusResolved, true},
		{IssueStatus("closed"), false},
		{IssueStatus(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusCanTransitionTo(t *testing.T) {
	all := []IssueStatus{StatusPending, StatusInProgress, StatusResolved}

	// The graph is fully connected: every distinct pair is reachable.
	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			want := from != to
			if got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}

	if StatusPending.CanTransitionTo(IssueStatus("archived")) {
		t.Error("transition to invalid status must be rejected")
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus("in_progress"); !ok || s != StatusInProgress {
		t.Errorf("ParseStatus(in_progress) = %v, %v", s, ok)
	}
	if _, ok := ParseStatus("unknown"); ok {
		t.Error("ParseStatus(unknown) should fail")
	}
}

func TestParseUserType(t *testing.T) {
	if u, ok := ParseUserType("engineer"); !ok || !u.IsEngineer() {
		t.Errorf("ParseUserType(engineer) = %v, %v", u, ok)
	}
	if _, ok := ParseUserType("admin"); ok {
		t.Error("ParseUserType(admin) should fail")
	}
}

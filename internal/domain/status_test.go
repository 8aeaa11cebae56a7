package domain

import "testing"

func TestJobStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
	}{
		{StatusQueued, false},
		{StatusRunning, false},
		{StatusFinished, true},
		{StatusFailed, true},
		{StatusCanceled, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestJobStatus_Rank_Monotonic(t *testing.T) {
	if StatusQueued.Rank() >= StatusRunning.Rank() {
		t.Error("QUEUED must rank below RUNNING")
	}
	for _, s := range []JobStatus{StatusFinished, StatusFailed, StatusCanceled} {
		if StatusRunning.Rank() >= s.Rank() {
			t.Errorf("RUNNING must rank below terminal %s", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"QUEUED", "RUNNING", "FINISHED", "FAILED", "CANCELED"} {
		status, err := ParseStatus(s)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", s, err)
		}
		if string(status) != s {
			t.Errorf("ParseStatus(%q) = %s", s, status)
		}
	}

	if _, err := ParseStatus("EXPLODED"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestJobHandle_IsZero(t *testing.T) {
	var h JobHandle
	if !h.IsZero() {
		t.Error("empty handle should be zero")
	}

	h = JobHandle{ProjectID: "p", SimulationID: "s"}
	if !h.IsZero() {
		t.Error("handle without run ID should still be zero")
	}

	h.RunID = "r"
	if h.IsZero() {
		t.Error("fully populated handle should not be zero")
	}
}

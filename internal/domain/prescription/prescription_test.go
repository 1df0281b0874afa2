package prescription

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusDispensed, false},
		{StatusProcessing, StatusReady, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusDispensed, false},
		{StatusReady, StatusDispensed, true},
		{StatusReady, StatusCancelled, true},
		{StatusReady, StatusReady, false},
		{StatusReady, StatusProcessing, false},
		{StatusDispensed, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"processing", StatusProcessing, false},
		{"ready", StatusReady, false},
		{"dispensed", StatusDispensed, false},
		{"cancelled", StatusCancelled, false},
		// Legacy vocabulary from older clients.
		{"processed", StatusReady, false},
		{"paid", StatusDispensed, false},
		{"unknown", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStatus(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusPending:    false,
		StatusProcessing: false,
		StatusReady:      false,
		StatusDispensed:  true,
		StatusCancelled:  true,
	}
	for s, want := range terminal {
		if got := s.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, want)
		}
	}
}

package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  Team Sync  ", "Team Sync"},
		{"internal runs collapsed", "Team   \t Sync", "Team Sync"},
		{"newlines collapsed", "line1\nline2", "line1 line2"},
		{"control characters dropped", "bad\x00title", "badtitle"},
		{"unicode preserved", "café  meeting", "café meeting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice", "alice"},
		{"  RUTVIK  ", "rutvik"},
		{"bob_99", "bob_99"},
	}

	for _, tt := range tests {
		if got := NormalizeHandle(tt.input); got != tt.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

package version

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		v1       Info
		v2       Info
		expected bool
	}{
		{name: "both empty", v1: Info{}, v2: Info{}, expected: true},
		{
			name:     "same commit",
			v1:       Info{GitCommit: "abc123"},
			v2:       Info{GitCommit: "abc123"},
			expected: true,
		},
		{
			name:     "different commits",
			v1:       Info{GitCommit: "abc123"},
			v2:       Info{GitCommit: "def456"},
			expected: false,
		},
		{
			name:     "one empty one set",
			v1:       Info{GitCommit: "abc123"},
			v2:       Info{},
			expected: false,
		},
		{
			name:     "same commit different build time",
			v1:       Info{GitCommit: "abc123", BuildTime: "2024-01-01"},
			v2:       Info{GitCommit: "abc123", BuildTime: "2024-01-02"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v1.Equal(tt.v2); got != tt.expected {
				t.Errorf("Equal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := (Info{}).String(); got != "dev" {
		t.Errorf("String() = %q, want %q", got, "dev")
	}
	if got := (Info{GitCommit: "abc123"}).String(); got != "abc123" {
		t.Errorf("String() = %q, want %q", got, "abc123")
	}
}

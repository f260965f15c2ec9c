package main

import "testing"

func TestDefaultStackName(t *testing.T) {
	cases := []struct {
		file string
		want string
	}{
		{"compose.yaml", ""},
		{"/srv/myapp/compose.yaml", "myapp"},
		{"stacks/widgets/compose.yaml", "widgets"},
	}
	for _, tc := range cases {
		got := defaultStackName(tc.file)
		if tc.want == "" {
			if got == "" {
				t.Errorf("defaultStackName(%q) returned empty", tc.file)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("defaultStackName(%q) = %q, want %q", tc.file, got, tc.want)
		}
	}
}

package cli

import "testing"

func TestSplitToolSpec(t *testing.T) {
	tests := []struct {
		spec     string
		wantName string
		wantURL  string
	}{
		{"experimentstash", "experimentstash", ""},
		{"https://github.com/acme/sweeper", "sweeper", "https://github.com/acme/sweeper"},
		{"https://github.com/acme/sweeper.git", "sweeper", "https://github.com/acme/sweeper.git"},
		{"git@github.com:acme/sweeper.git", "sweeper", "git@github.com:acme/sweeper.git"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			name, url := splitToolSpec(tt.spec)
			if name != tt.wantName || url != tt.wantURL {
				t.Errorf("splitToolSpec(%q) = (%q, %q), want (%q, %q)",
					tt.spec, name, url, tt.wantName, tt.wantURL)
			}
		})
	}
}

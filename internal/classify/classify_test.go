package classify

import "testing"

func TestSimple(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{"economy keyword in title", "Fed raises rates again", "", Economy},
		{"economy keyword in description", "Big news today", "Inflation hit a new high", Economy},
		{"health keyword", "Hospital expands vaccine program", "", Health},
		{"defense keyword", "Pentagon orders more troops abroad", "", Defense},
		{"case insensitive", "WALL STREET rallies", "", Economy},
		{"no match falls back to general", "Local dog wins surfing contest", "Fun day at the beach", General},
		{"empty input", "", "", General},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Simple(tc.title, tc.description)
			if got != tc.want {
				t.Errorf("Simple(%q, %q) = %q, want %q", tc.title, tc.description, got, tc.want)
			}
		})
	}
}

func TestSimple_EconomyBeatsHealth(t *testing.T) {
	// Both economy and health keywords present: the earlier category wins.
	got := Simple("Markets react as vaccine makers report earnings", "")
	if got != Economy {
		t.Errorf("Simple = %q, want %q when economy and health both match", got, Economy)
	}
}

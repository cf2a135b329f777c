package resolver

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Song B", "Song B"},
		{"parens", "Song (Live)", `Song \(Live\)`},
		{"slash and colon", "AC/DC: Live", `AC\/DC\: Live`},
		{"quote", `Say "Hi"`, `Say \"Hi\"`},
		{"backslash", `a\b`, `a\\b`},
		{"every reserved", `+-&|!(){}[]^"~*?:\/`, `\+\-\&\|\!\(\)\{\}\[\]\^\"\~\*\?\:\\\/`},
		{"unicode kept", "Björk – Jóga?", `Björk – Jóga\?`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.in); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Song B", "Song B"},
		{"parens", "Song (Live)", "Song Live"},
		{"slash", "AC/DC", "ACDC"},
		{"only reserved", `!?*`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	t.Run("Both Fields", func(t *testing.T) {
		got := BuildQuery("Artist A", "Song (B)", Escape)
		want := `artist:"Artist A" AND recording:"Song \(B\)"`
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("Stripped", func(t *testing.T) {
		got := BuildQuery("Artist A", "Song (B)", Strip)
		want := `artist:"Artist A" AND recording:"Song B"`
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("Omits Blank Field", func(t *testing.T) {
		if got := BuildQuery("", "Song B", Escape); got != `recording:"Song B"` {
			t.Errorf("unexpected query %q", got)
		}
		if got := BuildQuery("Artist A", "  ", Escape); got != `artist:"Artist A"` {
			t.Errorf("unexpected query %q", got)
		}
	})

	t.Run("Blank After Stripping", func(t *testing.T) {
		if got := BuildQuery("!!", "??", Strip); got != "" {
			t.Errorf("expected empty query, got %q", got)
		}
	})
}

func TestFreeText(t *testing.T) {
	if got := FreeText("Artist  A", "Song (B)!"); got != "Artist A Song B" {
		t.Errorf("unexpected free text %q", got)
	}
	if got := FreeText("", ""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

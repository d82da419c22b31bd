package parser

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty input", "", ""},
		{"trailer keywords", "Dune: Part Two Official Trailer (2024)", "dune: part two"},
		{"year in parentheses", "The Matrix (1999)", "the matrix"},
		{"year in brackets", "Inception [2010]", "inception"},
		{"resolution indicators", "Avatar 4K HDR", "avatar"},
		{"channel suffix via movieclip", "Interstellar - MovieClip", "interstellar"},
		{"multiple keywords", "Spider-Man No Way Home Final Extended Trailer 4K (2021)", "spider-man no way home final"},
		{"hd keyword", "Breaking Bad HD", "breaking bad"},
		{"4k keyword", "The Last of Us 4K", "the last of us"},
		{"en dash suffix", "Top Gun – Maverick", "top gun"},
		{"tv spot", "Oppenheimer TV Spot", "oppenheimer"},
		{"teaser", "Dune Teaser", "dune"},
		{"official", "Video Official", "video"},
		{"super bowl spot", "Movie Super Bowl Spot", "movie"},
		{"pipe separator", "Dune: Part Two | Official Trailer", "dune: part two"},
		{"ampersand", "Deadpool & Wolverine Official Trailer", "deadpool & wolverine"},
		{"accented characters", "Joker: Folie à Deux Official Trailer", "joker: folie à deux"},
		{"en dash with teaser", "The Batman – DC FanDome Teaser", "the batman"},
		{"multiple pipes", "Stranger Things 5 | Title Reveal | Netflix", "stranger things 5"},
		{"final trailer after pipe", "Gladiator II | Official Final Trailer (2024)", "gladiator ii"},
		{"super bowl trailer", "Twisters | Super Bowl Trailer", "twisters"},
		{"year then dash", "Sonic the Hedgehog 3 (2024) - Official Trailer", "sonic the hedgehog 3"},
		{"comic-con", "Guardians of the Galaxy Vol. 3 | Comic-Con Trailer", "guardians of the galaxy vol. 3"},
		{"sdcc after en dash", "The Lord of the Rings: The Rings of Power – SDCC Trailer", "the lord of the rings: the rings of power"},
		{"big game spot", "Kingdom of the Planet of the Apes | Big Game Spot", "kingdom of the planet of the apes"},
		{"celebration trailer", "Star Wars: The Acolyte | Celebration Trailer", "star wars: the acolyte"},
		{"all caps", "THOR Trailer of 2024", "thor"},
		{"first look teaser", "Superman (2025) | Official First Look Teaser", "superman"},
		{"imax", "James Bond 007: No Time To Die | IMAX Trailer", "james bond 007: no time to die"},
		{"launch trailer", "Mortal Kombat 1 - Official Launch Trailer", "mortal kombat 1"},
		{"red band trailer", "The Boys Season 4 - Official Red Band Trailer", "the boys season 4"},
		{"part after pipe", "The Crown Season 6 | Part 1 Official Trailer", "the crown season 6"},
		{"concept fan-made", "Beyond the Spider-Verse | Concept Trailer Fan-Made", "beyond the spider-verse"},
		{"final season", "The Umbrella Academy | The Final Season | Official Trailer", "the umbrella academy"},
		{"part marker", "Kill Bill Part 2", "kill bill"},
		{"1080p tag", "Heat 1080p", "heat"},
		{"trailing accented letter kept", "Amélie Café", "amélie café"},
		{"whitespace collapse", "  The   Thing  ", "the thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanTitle(tt.input)
			if got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanTitleIdempotent(t *testing.T) {
	samples := []string{
		"Dune: Part Two Official Trailer (2024)",
		"The Matrix (1999)",
		"Spider-Man No Way Home Final Extended Trailer 4K (2021)",
		"Stranger Things 5 | Title Reveal | Netflix",
		"Joker: Folie à Deux Official Trailer",
		"Guardians of the Galaxy Vol. 3 | Comic-Con Trailer",
		"James Bond 007: No Time To Die | IMAX Trailer",
		"Deadpool & Wolverine Official Trailer",
	}

	for _, s := range samples {
		once := CleanTitle(s)
		twice := CleanTitle(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestCleanAny(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"number", 123, ""},
		{"bool", true, ""},
		{"string", "The Matrix (1999)", "the matrix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanAny(tt.input); got != tt.want {
				t.Errorf("CleanAny(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectMediaType(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        MediaType
	}{
		{"season", "Stranger Things Season 1 Trailer", "", MediaTypeTV},
		{"episode", "Episode 5: The Beginning", "", MediaTypeTV},
		{"series", "The Walking Dead Series Premiere", "", MediaTypeTV},
		{"tv show", "This TV Show Review", "", MediaTypeTV},
		{"miniseries", "Chernobyl MiniSeries", "", MediaTypeTV},
		{"episode code", "Game of Thrones S01E01 Winter Is Coming", "", MediaTypeTV},
		{"default movie", "The Dark Knight", "", MediaTypeMovie},
		{"movie trailer", "Inception Official Movie Trailer", "", MediaTypeMovie},
		{"description evidence", "The Crown", "This episode covers season 2", MediaTypeTV},
		{"film keyword", "Dune Film Review", "", MediaTypeMovie},
		{"empty", "", "", MediaTypeMovie},
		{"television", "Documentary about television history", "", MediaTypeTV},
		{"tv series", "New tv series announcement", "", MediaTypeTV},
		{"season with part", "The Crown Season 6 Part 1 Trailer", "", MediaTypeTV},
		{"season teaser", "Severance Season 2 First Look Teaser", "", MediaTypeTV},
		{"season code only", "Andor S2 Trailer", "", MediaTypeTV},
		{"word containing season", "Seasonal Recipes", "", MediaTypeMovie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectMediaType(tt.title, tt.description)
			if got != tt.want {
				t.Errorf("DetectMediaType(%q, %q) = %q, want %q", tt.title, tt.description, got, tt.want)
			}
		})
	}
}

func TestCleanAndClassify(t *testing.T) {
	got := CleanAndClassify("The Boys Season 4 - Official Red Band Trailer", "")
	if got.Cleaned != "the boys season 4" {
		t.Errorf("cleaned = %q", got.Cleaned)
	}
	if got.MediaType != MediaTypeTV {
		t.Errorf("mediaType = %q, want tv", got.MediaType)
	}
}

func TestCleanAndClassifyAny(t *testing.T) {
	got := CleanAndClassifyAny(123, "Season 2 of the hit series")
	if got.Cleaned != "" {
		t.Errorf("cleaned = %q, want empty", got.Cleaned)
	}
	if got.MediaType != MediaTypeTV {
		t.Errorf("mediaType = %q, want tv", got.MediaType)
	}

	got = CleanAndClassifyAny("Dune Official Trailer", "")
	if got.Cleaned != "dune" || got.MediaType != MediaTypeMovie {
		t.Errorf("got %+v", got)
	}
}

func TestCollapsesUnicodeSpaces(t *testing.T) {
	if got := CleanTitle("foo\u00a0\u00a0bar \u2003 baz"); got != "foo bar baz" {
		t.Errorf("CleanTitle = %q, want %q", got, "foo bar baz")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{"short", "Dune", 50, "Dune"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdefghij", 8, "abcde..."},
		{"default length", "0123456789012345678901234567890123456789012345678901234", 0, "01234567890123456789012345678901234567890123456..."},
		{"multibyte", "àààààà", 5, "àà..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.maxLen, got, tt.want)
			}
		})
	}
}

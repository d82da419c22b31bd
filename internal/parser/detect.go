package parser

import (
	"regexp"
	"strings"
)

// tvPatterns signal a TV title. Each is matched as a whole word.
var tvPatterns = compileWordPatterns(
	`season`,
	`episode`,
	`series`,
	`s\d+`,
	`e\d+`,
	`s\d+e\d+`,
	`tv series`,
	`miniseries`,
	`tv show`,
	`television`,
)

func compileWordPatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)\b`+p+`\b`))
	}
	return out
}

// DetectMediaType classifies title plus description. Without any TV
// evidence in either, the result is MediaTypeMovie.
func DetectMediaType(title, description string) MediaType {
	text := strings.ToLower(title + " " + description)

	for _, pattern := range tvPatterns {
		if pattern.MatchString(text) {
			return MediaTypeTV
		}
	}

	return MediaTypeMovie
}

// Result is the cleaned query plus type hint for one scraped page.
type Result struct {
	Cleaned   string    `json:"cleaned"`
	MediaType MediaType `json:"mediaType"`
}

// CleanAndClassify runs CleanTitle and DetectMediaType on the same input.
func CleanAndClassify(title, description string) Result {
	return Result{
		Cleaned:   CleanTitle(title),
		MediaType: DetectMediaType(title, description),
	}
}

// CleanAndClassifyAny is CleanAndClassify for untyped input. A title that is
// not a string cleans to "" and is classified on the description alone.
func CleanAndClassifyAny(title any, description string) Result {
	s, _ := title.(string)
	return Result{
		Cleaned:   CleanAny(title),
		MediaType: DetectMediaType(s, description),
	}
}

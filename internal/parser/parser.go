// Package parser turns a raw video title into a search query and guesses
// whether it refers to a movie or a TV show.
package parser

import (
	"regexp"
	"strings"
)

// MediaType is the classification hint handed to the search flow.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// trailerKeywords are promotional phrases. The title is cut at the earliest
// occurrence of any of them, so order only matters for readability.
var trailerKeywords = []string{
	"official trailer",
	"teaser trailer",
	"trailer",
	"teaser",
	"clip",
	"featurette",
	"behind the scenes",
	"bloopers",
	"exclusive",
	"first look",
	"final trailer",
	"red band trailer",
	"green band trailer",
	"international trailer",
	"extended trailer",
	"movie clip",
	"movieclip",
	"scene",
	"tv spot",
	"super bowl spot",
	"official",
	"hd",
	"4k",
	"ultra hd",
	"title reveal",
	"concept",
	"fan-made",
	"fan made",
	"miniseries",
	"comic-con",
	"sdcc",
	"big game spot",
	"imax",
}

var (
	yearPattern       = regexp.MustCompile(`\(\d{4}\)|\[\d{4}\]|\(\d{4}\s+[^)]+\)`)
	channelPattern    = regexp.MustCompile(`[|–—]\s*[^|–—]+$`)
	resolutionPattern = regexp.MustCompile(`(?i)\b\d{3,4}p\b|\b4k\b|\bhd\b|\buhd\b`)
	partPattern       = regexp.MustCompile(`(?i)\bpart\s*\d+\b`)
	bracketPattern    = regexp.MustCompile(`[()\[\]{}]`)
	trailingPattern   = regexp.MustCompile(`\s*[^\p{L}\p{N}]+$`)
	spacePattern      = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// CleanTitle lower-cases title and strips trailer vocabulary, years,
// resolution tags, channel suffixes and part markers from it.
func CleanTitle(title string) string {
	if title == "" {
		return ""
	}

	cleaned := strings.ToLower(title)

	// Everything after the first pipe is channel/playlist metadata.
	if i := strings.Index(cleaned, "|"); i != -1 {
		cleaned = cleaned[:i]
	}

	if i := earliestKeyword(cleaned); i != -1 {
		cleaned = cleaned[:i]
	}

	// Keyword truncation must run before the channel suffix removal:
	// reversing them changes results for hyphenated titles.
	cleaned = yearPattern.ReplaceAllString(cleaned, "")
	cleaned = channelPattern.ReplaceAllString(cleaned, "")
	cleaned = resolutionPattern.ReplaceAllString(cleaned, "")
	cleaned = partPattern.ReplaceAllString(cleaned, "")
	cleaned = bracketPattern.ReplaceAllString(cleaned, "")
	cleaned = trailingPattern.ReplaceAllString(cleaned, "")
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}

// CleanAny is CleanTitle for untyped input (decoded JSON, message payloads).
// Anything that is not a string yields "".
func CleanAny(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return CleanTitle(s)
}

// earliestKeyword returns the lowest byte index at which any trailer keyword
// starts, or -1 when none is present.
func earliestKeyword(s string) int {
	earliest := -1
	for _, kw := range trailerKeywords {
		i := strings.Index(s, kw)
		if i != -1 && (earliest == -1 || i < earliest) {
			earliest = i
		}
	}
	return earliest
}

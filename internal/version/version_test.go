package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintBanner(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	var buf bytes.Buffer
	PrintBanner(&buf)

	out := buf.String()
	if !strings.Contains(out, "trailerseerr v1.2.3") {
		t.Fatalf("banner missing version line:\n%s", out)
	}
	if !strings.Contains(out, Banner()) {
		t.Fatal("banner art missing")
	}
	if !strings.HasPrefix(String(), "trailerseerr v1.2.3 (") {
		t.Fatalf("unexpected String(): %s", String())
	}
}

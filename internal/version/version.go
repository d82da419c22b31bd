package version

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version holds the current build version. Override with
// -ldflags "-X github.com/trailerseerr/internal/version.Version=v1.2.3".
var Version = "dev"

const (
	separator = "────────────────────────────────────────────────────────────"
	banner    = `
  _             _ _
 | |_ _ __ __ _(_) | ___ _ __ ___  ___  ___ _ __ _ __
 | __| '__/ _' | | |/ _ \ '__/ __|/ _ \/ _ \ '__| '__|
 | |_| | | (_| | | |  __/ |  \__ \  __/  __/ |  | |
  \__|_|  \__,_|_|_|\___|_|  |___/\___|\___|_|  |_|
`
)

// Banner returns the ASCII-art project banner.
func Banner() string {
	return strings.Trim(banner, "\n")
}

// String is the one-line version description.
func String() string {
	return fmt.Sprintf("trailerseerr %s (%s, %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// PrintBanner writes the decorated banner and version info to w (stdout if nil).
func PrintBanner(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, Banner())
	fmt.Fprintf(w, "\n  trailerseerr %s\n", Version)
	fmt.Fprintf(w, "  Trailer to Overseerr Request Service\n")
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w)
}

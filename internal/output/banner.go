package output

import (
	"fmt"
	"io"

	figure "github.com/common-nighthawk/go-figure"
)

// BannerOptions configures the startup banner, mirroring
// sast-engine/output/banner.go's BannerOptions.
type BannerOptions struct {
	ShowBanner  bool
	ShowVersion bool
}

// DefaultBannerOptions is the banner shown on an interactive terminal.
func DefaultBannerOptions() BannerOptions {
	return BannerOptions{ShowBanner: true, ShowVersion: true}
}

// PrintBanner writes the rattr ASCII-art banner to w, or a compact
// text-only line if opts.ShowBanner is false.
func PrintBanner(w io.Writer, version string, opts BannerOptions) {
	if w == nil {
		return
	}

	if !opts.ShowBanner {
		if opts.ShowVersion {
			fmt.Fprintf(w, "rattr v%s\n", version)
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, GetASCIILogo())
	if opts.ShowVersion {
		fmt.Fprintf(w, "rattr v%s\n", version)
	}
	fmt.Fprintln(w)
}

// GetASCIILogo renders the "rattr" wordmark.
func GetASCIILogo() string {
	fig := figure.NewFigure("rattr", "standard", true)
	return fig.String()
}

// GetCompactBanner returns a single-line banner for non-TTY output.
func GetCompactBanner(version string) string {
	return fmt.Sprintf("rattr v%s", version)
}

// ShouldShowBanner reports whether the banner should print: never with
// --no-banner, and only on a real terminal otherwise.
func ShouldShowBanner(isTTY bool, noBannerFlag bool) bool {
	if noBannerFlag {
		return false
	}
	return isTTY
}

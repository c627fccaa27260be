package outwriter

import (
	"os"

	"github.com/huangsam/stylemetrics/internal/contract"
	"golang.org/x/term"
)

// getMaxTableValueWidth calculates the maximum width for values in table output
// based on terminal width.
func getMaxTableValueWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Key column plus borders and padding
	available := termWidth - 35
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}

package fetcher

import (
	"os/exec"

	"github.com/jmylchreest/recipescan/internal/logger"
)

// chromeBinaryNames are looked up in order: PATH names first, then the
// usual install locations.
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// FindChromePath returns the first Chrome/Chromium binary found, or "".
func FindChromePath() string {
	for _, name := range chromeBinaryNames {
		if path, err := exec.LookPath(name); err == nil {
			logger.Debug("found Chrome binary", "path", path)
			return path
		}
	}
	logger.Warn("no Chrome binary found, dynamic fetch mode may not work")
	return ""
}

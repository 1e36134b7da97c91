// internal/engine/dynamic/chrome.go
package dynamic

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

// FindChrome locates a Chrome/Chromium executable. An explicitly configured path
// wins, then CHROME_PATH, then the standard install locations, then PATH.
// It returns "" when nothing is found so chromedp can try its own default.
func FindChrome(configured string) string {
	for _, src := range []struct{ name, path string }{
		{"config", configured},
		{"CHROME_PATH", os.Getenv("CHROME_PATH")},
	} {
		if src.path == "" {
			continue
		}
		if isExecutable(src.path) {
			log.Debug().Str("path", src.path).Str("source", src.name).Msg("Chrome found")
			return src.path
		}
		log.Warn().Str("path", src.path).Str("source", src.name).Msg("Configured Chrome path is not executable")
	}

	for _, path := range candidates(runtime.GOOS, os.Getenv("HOME")) {
		if isExecutable(path) {
			log.Debug().Str("path", path).Str("os", runtime.GOOS).Msg("Chrome found at standard location")
			return path
		}
	}

	if path := findInPath(); path != "" {
		log.Debug().Str("path", path).Msg("Chrome found in PATH")
		return path
	}

	log.Warn().
		Str("os", runtime.GOOS).
		Msg("Chrome not found, will use chromedp default (may fail)")
	return ""
}

// candidates lists the usual install locations per OS. Edge and Brave are
// Chromium builds and speak the same protocol.
func candidates(goos, home string) []string {
	var out []string

	switch goos {
	case "darwin":
		out = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
		if home != "" {
			out = append(out, filepath.Join(home, "Applications/Google Chrome.app/Contents/MacOS/Google Chrome"))
		}

	case "windows":
		for _, base := range []string{os.Getenv("ProgramFiles"), os.Getenv("ProgramFiles(x86)"), os.Getenv("LocalAppData")} {
			if base == "" {
				continue
			}
			out = append(out,
				filepath.Join(base, "Google\\Chrome\\Application\\chrome.exe"),
				filepath.Join(base, "Chromium\\Application\\chrome.exe"),
				filepath.Join(base, "Microsoft\\Edge\\Application\\msedge.exe"),
			)
		}

	case "linux":
		out = []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
			"/usr/bin/microsoft-edge",
			"/usr/bin/brave-browser",
		}
		if home != "" {
			out = append(out, filepath.Join(home, ".local/share/flatpak/exports/bin/com.google.Chrome"))
		}
	}

	return out
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return !info.IsDir()
	}
	return !info.IsDir() && info.Mode()&0111 != 0
}

func findInPath() string {
	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser", "chrome", "msedge"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// ChromeVersion returns the browser's --version output, or "unknown"
func ChromeVersion(chromePath string) string {
	if chromePath == "" || runtime.GOOS == "windows" {
		return "unknown"
	}
	out, err := exec.Command(chromePath, "--version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

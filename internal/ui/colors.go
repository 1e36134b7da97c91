package ui

import "strings"

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Success(s string) string {
	return ColorGreen + s + ColorReset
}

func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}

// Promotion colors a promotion label by how strong the deal is
func Promotion(label string) string {
	switch {
	case label == "":
		return ""
	case strings.HasPrefix(label, "HALF PRICE"), strings.HasSuffix(label, "!"):
		return ColorBold + ColorRed + label + ColorReset
	case strings.HasSuffix(label, "OFF"), label == "SPECIAL":
		return ColorYellow + label + ColorReset
	default:
		return ColorCyan + label + ColorReset
	}
}

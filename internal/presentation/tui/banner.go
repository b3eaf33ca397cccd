// Package tui holds the terminal presentation helpers of the play command.
package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"   ___        _     __ _",
	"  / _ \\ _   _(_)___/ _| | _____      __",
	" | | | | | | | |_  / |_| |/ _ \\ \\ /\\ / /",
	" | |_| | |_| | |/ /|  _| | (_) \\ V  V /",
	"  \\__\\_\\\\__,_|_/___|_| |_|\\___/ \\_/\\_/",
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// PrintBanner writes the quizflow banner and a subtitle to w, colored for the
// terminal's color profile.
func PrintBanner(w io.Writer, subtitle string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i%len(bannerColors)])))
	}
	if subtitle != "" {
		fmt.Fprintln(w, out.String("  "+subtitle).Faint())
	}
	fmt.Fprintln(w)
}

// Package display renders the repeater's per-second status line. Color
// names follow the classic 16-color console palette the original tools
// exposed, mapped onto ANSI colors via lipgloss.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"intention/internal/counter"
)

// SuffixMode selects how magnitudes are rendered.
type SuffixMode int

const (
	// SuffixHZ renders power-of-1000 letter suffixes.
	SuffixHZ SuffixMode = iota
	// SuffixEXP renders scientific notation.
	SuffixEXP
)

// palette maps the console color names to ANSI color codes.
var palette = map[string]lipgloss.Color{
	"BLACK":        lipgloss.Color("0"),
	"RED":          lipgloss.Color("1"),
	"GREEN":        lipgloss.Color("2"),
	"YELLOW":       lipgloss.Color("3"),
	"BLUE":         lipgloss.Color("4"),
	"MAGENTA":      lipgloss.Color("5"),
	"CYAN":         lipgloss.Color("6"),
	"LIGHTGRAY":    lipgloss.Color("7"),
	"DARKGRAY":     lipgloss.Color("8"),
	"LIGHTRED":     lipgloss.Color("9"),
	"LIGHTGREEN":   lipgloss.Color("10"),
	"LIGHTYELLOW":  lipgloss.Color("11"),
	"LIGHTBLUE":    lipgloss.Color("12"),
	"LIGHTMAGENTA": lipgloss.Color("13"),
	"LIGHTCYAN":    lipgloss.Color("14"),
	"WHITE":        lipgloss.Color("15"),
}

// ColorNames returns the accepted color names, sorted.
func ColorNames() []string {
	names := make([]string, 0, len(palette))
	for name := range palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseSuffixMode interprets a --suffix value.
func ParseSuffixMode(s string) (SuffixMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "HZ":
		return SuffixHZ, nil
	case "EXP":
		return SuffixEXP, nil
	default:
		return SuffixHZ, fmt.Errorf("suffix %q: want HZ or EXP", s)
	}
}

// Renderer formats status lines with a fixed color and suffix mode.
type Renderer struct {
	style lipgloss.Style
	mode  SuffixMode
}

// NewRenderer builds a renderer for the given color name. Unknown names
// are an error listing the palette.
func NewRenderer(colorName string, mode SuffixMode) (*Renderer, error) {
	name := strings.ToUpper(strings.TrimSpace(colorName))
	if name == "" {
		name = "WHITE"
	}
	color, ok := palette[name]
	if !ok {
		return nil, fmt.Errorf("color %q: want one of %s", colorName, strings.Join(ColorNames(), ", "))
	}
	return &Renderer{style: lipgloss.NewStyle().Foreground(color), mode: mode}, nil
}

// Values renders the two magnitudes in the renderer's suffix mode, for
// callers that lay out the readouts themselves.
func (r *Renderer) Values(iterations, freq *counter.Tally) (iter, hz string) {
	switch r.mode {
	case SuffixEXP:
		return iterations.Exponential(), freq.Exponential()
	default:
		return iterations.Suffix(counter.ScaleIterations), freq.Suffix(counter.ScaleFrequency)
	}
}

// Status renders one status line, without the trailing carriage return.
func (r *Renderer) Status(seconds int64, iterations, freq *counter.Tally, intent string) string {
	var iter, hz string
	switch r.mode {
	case SuffixEXP:
		iter = iterations.Exponential()
		hz = freq.Exponential()
	default:
		iter = iterations.Suffix(counter.ScaleIterations)
		hz = freq.Suffix(counter.ScaleFrequency)
	}
	line := fmt.Sprintf("[%s] Repeating: (%s / %sHz): %s",
		counter.FormatTime(seconds), iter, hz, intent)
	return r.style.Render(line)
}

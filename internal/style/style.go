// Package style renders the colored command prefixes grab prints before
// script output, such as [PRINT] or [ERROR].
package style

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indices
var (
	colorBlue          = lipgloss.Color("4")
	colorGreen         = lipgloss.Color("2")
	colorYellow        = lipgloss.Color("3")
	colorMagenta       = lipgloss.Color("5")
	colorCyan          = lipgloss.Color("6")
	colorWhite         = lipgloss.Color("7")
	colorBrightBlack   = lipgloss.Color("8")
	colorBrightRed     = lipgloss.Color("9")
	colorBrightGreen   = lipgloss.Color("10")
	colorBrightYellow  = lipgloss.Color("11")
	colorBrightBlue    = lipgloss.Color("12")
	colorBrightMagenta = lipgloss.Color("13")
	colorBrightCyan    = lipgloss.Color("14")
)

// familyColors maps a command label to its color. Labels not listed fall
// back to their first word, then to white.
var familyColors = map[string]lipgloss.Color{
	"DEBUG":        colorBrightBlack,
	"LOAD":         colorBrightBlue,
	"LOAD URL":     colorBlue,
	"SELECT":       colorBrightGreen,
	"SELECT ALL":   colorGreen,
	"SELECT FIRST": colorCyan,
	"SELECT LAST":  colorBrightCyan,
	"SELECT ONCE":  colorMagenta,
	"GET":          colorYellow,
	"GET ATTR":     colorBrightYellow,
	"GET DATE":     colorYellow,
	"EXTRACT":      colorYellow,
	"FILTER":       colorBrightYellow,
	"SAVE":         colorBrightMagenta,
	"USE":          colorBrightMagenta,
	"JSON":         colorBrightMagenta,
	"COUNT":        colorBrightMagenta,
	"WARNING":      colorBrightYellow,
	"ERROR":        colorBrightRed,
	"SUCCESS":      colorBrightGreen,
	"PRINT":        colorWhite,
}

// Palette styles prefixes for one output writer
type Palette struct {
	renderer *lipgloss.Renderer
	noColor  bool
}

// New creates a palette rendering for w. Colors are dropped when noColor
// is set or w is not a color terminal.
func New(w io.Writer, noColor bool) *Palette {
	return &Palette{
		renderer: lipgloss.NewRenderer(w),
		noColor:  noColor,
	}
}

// ColorOf returns the color used for label
func ColorOf(label string) lipgloss.Color {
	label = strings.ToUpper(strings.TrimSpace(label))
	if c, ok := familyColors[label]; ok {
		return c
	}
	if first, _, found := strings.Cut(label, " "); found {
		if c, ok := familyColors[first]; ok {
			return c
		}
	}
	return colorWhite
}

// Prefix renders "[LABEL]" in the color of its command family
func (p *Palette) Prefix(label string) string {
	return p.Paint(label, "["+label+"]")
}

// Paint renders text in the color of label
func (p *Palette) Paint(label, text string) string {
	if p == nil || p.noColor {
		return text
	}
	return p.renderer.NewStyle().Foreground(ColorOf(label)).Render(text)
}

// Line joins a prefix and a message
func (p *Palette) Line(label, message string) string {
	return p.Prefix(label) + " " + message
}

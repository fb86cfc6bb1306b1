package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output selects how Fprint renders an error.
type Output string

const (
	OutputText    Output = "text"    // Multi-line, optionally colored
	OutputCompact Output = "compact" // One line, for logs and scripts
	OutputJSON    Output = "json"    // One JSON object per error
)

// ParseOutput validates an --output flag value.
func ParseOutput(s string) (Output, error) {
	switch o := Output(s); o {
	case OutputText, OutputCompact, OutputJSON:
		return o, nil
	}
	return "", New("M050").WithDetail(fmt.Sprintf("Unknown output format %q", s)).
		WithSuggestion("Use one of: text, compact, json")
}

var colorEnabled = true

// SetColor turns ANSI colors in Format on or off.
func SetColor(on bool) {
	colorEnabled = on
}

// Paint wraps text in the ANSI sequence code when colors are on.
func Paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

const (
	ansiBold   = "1"
	ansiRed    = "31"
	ansiGreen  = "32"
	ansiYellow = "33"
	ansiBlue   = "34"
	ansiCyan   = "36"
	ansiGray   = "90"
)

// Green and Yellow paint CLI status marks.
func Green(text string) string  { return Paint(ansiGreen, text) }
func Yellow(text string) string { return Paint(ansiYellow, text) }

// Format returns the error formatted for terminal display.
func (e *MemoError) Format() string {
	var b strings.Builder

	head := "ERROR"
	if e.Code != "" {
		head += " " + e.Code
	}
	fmt.Fprintf(&b, "\n%s %s\n\n", Paint(ansiBold+";"+ansiRed, head+":"), Paint(ansiBold, e.Message))

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", Paint(ansiCyan, e.Location.String()))
		if len(e.Context) > 0 {
			e.writeContext(&b)
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s %s\n\n", Paint(ansiYellow, "Cause:"), e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", Paint(ansiCyan, "Hint:"), e.Suggestion)
	}
	if e.Example != "" {
		fmt.Fprintf(&b, "  %s\n", Paint(ansiCyan, "Example:"))
		for _, line := range strings.Split(e.Example, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", Paint(ansiGray, "Learn more:"), Paint(ansiBlue, e.DocURL))
	}
	return b.String()
}

// writeContext prints the lines around Location, marking the failing line
// and, when known, the column.
func (e *MemoError) writeContext(b *strings.Builder) {
	first := max(1, e.Location.Line-contextRadius)
	bar := Paint(ansiGray, " │ ")
	for i, line := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, bar, line)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", Paint(ansiRed, "→ "), n, bar, line)
		if e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", Paint(ansiGray, "│ "),
				strings.Repeat(" ", e.Location.Column-1), Paint(ansiRed, "^"))
		}
	}
}

// FormatCompact returns the error on one line, prefixed by its location.
func (e *MemoError) FormatCompact() string {
	s := e.Error()
	if e.Location != nil {
		s = e.Location.String() + ": " + s
	}
	return s
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category,omitempty"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Cause      string        `json:"cause,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	DocURL     string        `json:"docUrl,omitempty"`
}

// FormatJSON returns the error as a single-line JSON object.
func (e *MemoError) FormatJSON() string {
	je := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Location != nil {
		je.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	if e.Wrapped != nil {
		je.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(je)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// Fprint writes err to w in the given output format. Errors that are not a
// MemoError are printed with their message only.
func Fprint(w io.Writer, err error, out Output) {
	me, ok := err.(*MemoError)
	if !ok {
		me = &MemoError{Message: err.Error()}
	}
	switch out {
	case OutputJSON:
		fmt.Fprintln(w, me.FormatJSON())
	case OutputCompact:
		fmt.Fprintln(w, me.FormatCompact())
	default:
		fmt.Fprint(w, me.Format())
	}
}

// wrapText wraps text at word boundaries to lines of at most width bytes,
// unless a single word is longer.
func wrapText(text string, width int) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

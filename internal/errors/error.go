package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryDriver   Category = "driver"
	CategorySurface  Category = "surface"
	CategoryProtocol Category = "protocol"
	CategoryJournal  Category = "journal"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Location points into a file, usually a config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// MemoError is a structured error with a code, an optional file location and
// a fix suggestion.
type MemoError struct {
	// Code is a unique error identifier (e.g., "M001").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	Location *Location

	// Context contains the lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct approach.
	Example string

	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *MemoError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *MemoError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a MemoError with the same code.
func (e *MemoError) Is(target error) bool {
	t, ok := target.(*MemoError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithLocation adds a file location to the error and reads the lines
// around it.
func (e *MemoError) WithLocation(file string, line, column int) *MemoError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *MemoError) WithSuggestion(s string) *MemoError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *MemoError) WithExample(ex string) *MemoError {
	e.Example = ex
	return e
}

// WithDetail replaces the registered explanation.
func (e *MemoError) WithDetail(d string) *MemoError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *MemoError) Wrap(err error) *MemoError {
	e.Wrapped = err
	return e
}

// contextRadius is the number of lines shown on each side of a location.
const contextRadius = 2

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := max(1, targetLine-contextRadius)
	endLine := targetLine + contextRadius

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	return lines
}

// New creates a MemoError from a registered error code.
func New(code string) *MemoError {
	template, ok := registry[code]
	if !ok {
		return &MemoError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &MemoError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new MemoError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *MemoError {
	return &MemoError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a MemoError.
func FromError(err error, code string) *MemoError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MemoError); ok {
		return me
	}
	return New(code).Wrap(err)
}

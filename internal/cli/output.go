package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the action was refused, e.g. wake without a bed time
	ExitCommandError = 2 // bad arguments or storage could not be opened
)

type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns ExitFailure for errors that carry no code.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes data as JSON or YAML, or hands the text form to a
// lipgloss renderer bound to the output.
type OutputFormatter struct {
	Format string
	Writer io.Writer

	heading lipgloss.Style
	muted   lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
}

func newOutputFormatter(format string, w io.Writer) *OutputFormatter {
	r := lipgloss.NewRenderer(w)
	return &OutputFormatter{
		Format:  format,
		Writer:  w,
		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Faint(true),
		good:    r.NewStyle().Foreground(lipgloss.Color("42")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
		bad:     r.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

// Print writes data in the structured formats and calls text otherwise.
func (f *OutputFormatter) Print(data interface{}, text func(f *OutputFormatter)) error {
	switch f.Format {
	case "json":
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(f)
		return nil
	}
}

func (f *OutputFormatter) Line(format string, args ...interface{}) {
	fmt.Fprintf(f.Writer, format+"\n", args...)
}

func (f *OutputFormatter) Heading(s string) string { return f.heading.Render(s) }
func (f *OutputFormatter) Muted(s string) string   { return f.muted.Render(s) }

// Rest colours a rest label by how good the night was.
func (f *OutputFormatter) Rest(label string) string {
	switch label {
	case "Well rested":
		return f.good.Render(label)
	case "Okay night":
		return f.warn.Render(label)
	case "Short sleep", "Running on fumes":
		return f.bad.Render(label)
	}
	return f.muted.Render(label)
}

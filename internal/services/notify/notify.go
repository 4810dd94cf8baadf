// Package notify reports command outcomes and progress to the user.
package notify

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

const (
	logFieldMessage = "message"
	logInfo         = "info notification"
	logWarning      = "warning notification"
	logError        = "error notification"
)

// Notifier displays informational, warning and error messages.
type Notifier interface {
	Info(message string)
	Warn(message string)
	Error(message string)
}

// Console prints messages to a writer, colored only when the writer is a terminal.
// Every message is also recorded through the logger.
type Console struct {
	writer       io.Writer
	logger       *zap.Logger
	infoColor    *color.Color
	warningColor *color.Color
	errorColor   *color.Color
}

// NewConsole constructs a Console. A nil logger discards log records.
func NewConsole(writer io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	console := &Console{
		writer:       writer,
		logger:       logger,
		infoColor:    color.New(color.FgGreen),
		warningColor: color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed),
	}
	interactive := IsTerminal(writer)
	for _, printer := range []*color.Color{console.infoColor, console.warningColor, console.errorColor} {
		if interactive {
			printer.EnableColor()
		} else {
			printer.DisableColor()
		}
	}
	return console
}

// Info prints a success or status message.
func (console *Console) Info(message string) {
	console.logger.Debug(logInfo, zap.String(logFieldMessage, message))
	_, _ = console.infoColor.Fprintln(console.writer, message)
}

// Warn prints a message about a deliberate skip.
func (console *Console) Warn(message string) {
	console.logger.Debug(logWarning, zap.String(logFieldMessage, message))
	_, _ = console.warningColor.Fprintln(console.writer, message)
}

// Error prints a failure message.
func (console *Console) Error(message string) {
	console.logger.Debug(logError, zap.String(logFieldMessage, message))
	_, _ = console.errorColor.Fprintln(console.writer, message)
}

// IsTerminal reports whether writer is a terminal file descriptor.
func IsTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	descriptor := file.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}

var _ Notifier = (*Console)(nil)

package notify

import (
	"io"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

const (
	progressTotal = 100

	logProgressStarted     = "progress started"
	logProgressAdvanced    = "progress advanced"
	logProgressFinished    = "progress finished"
	logProgressUnavailable = "progress bar unavailable"
	logFieldTitle          = "title"
	logFieldPercent        = "percent"
)

// Progress reports percentage increments for a long operation. On a terminal it draws
// a pterm progress bar; elsewhere it only logs.
type Progress struct {
	writer      io.Writer
	logger      *zap.Logger
	interactive bool
	bar         *pterm.ProgressbarPrinter
	title       string
	percent     int
}

// NewProgress constructs a Progress writing to writer. A nil logger discards log records.
func NewProgress(writer io.Writer, logger *zap.Logger) *Progress {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Progress{writer: writer, logger: logger, interactive: IsTerminal(writer)}
}

// Start begins a new operation at zero percent.
func (progress *Progress) Start(title string) {
	progress.title = title
	progress.percent = 0
	progress.logger.Debug(logProgressStarted, zap.String(logFieldTitle, title))
	if !progress.interactive {
		return
	}
	bar, startError := pterm.DefaultProgressbar.
		WithTotal(progressTotal).
		WithTitle(title).
		WithWriter(progress.writer).
		WithRemoveWhenDone(true).
		Start()
	if startError != nil {
		progress.logger.Debug(logProgressUnavailable, zap.Error(startError))
		return
	}
	progress.bar = bar
}

// Advance adds increment percent, capped at completion.
func (progress *Progress) Advance(increment int) {
	if increment <= 0 {
		return
	}
	if progress.percent+increment > progressTotal {
		increment = progressTotal - progress.percent
	}
	progress.percent += increment
	if progress.bar != nil {
		progress.bar.Add(increment)
	}
	progress.logger.Debug(logProgressAdvanced, zap.String(logFieldTitle, progress.title), zap.Int(logFieldPercent, progress.percent))
}

// Done stops the progress bar.
func (progress *Progress) Done() {
	if progress.bar != nil {
		_, _ = progress.bar.Stop()
		progress.bar = nil
	}
	progress.logger.Debug(logProgressFinished, zap.String(logFieldTitle, progress.title), zap.Int(logFieldPercent, progress.percent))
}

// Percent returns the completion reached so far.
func (progress *Progress) Percent() int {
	return progress.percent
}

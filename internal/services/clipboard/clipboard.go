// Package clipboard provides the sinks that receive a rendered document.
package clipboard

import (
	"io"

	"github.com/atotto/clipboard"
	"gitlab.com/tozd/go/errors"
)

// Copier copies textual data to a destination such as the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Errorf("write clipboard: %w", err)
	}
	return nil
}

// WriterCopier implements Copier by writing the text to an io.Writer, used when the
// document is printed instead of copied.
type WriterCopier struct {
	writer io.Writer
}

// NewWriterCopier constructs a WriterCopier over writer.
func NewWriterCopier(writer io.Writer) *WriterCopier {
	return &WriterCopier{writer: writer}
}

// Copy writes text unchanged.
func (copier *WriterCopier) Copy(text string) error {
	if _, err := io.WriteString(copier.writer, text); err != nil {
		return errors.Errorf("write document: %w", err)
	}
	return nil
}

var (
	_ Copier = (*Service)(nil)
	_ Copier = (*WriterCopier)(nil)
)

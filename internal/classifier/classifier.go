// Package classifier decides whether a file is text that belongs in a rendered document.
package classifier

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/wangqin0/coby/internal/types"
	"github.com/wangqin0/coby/internal/utils"
)

// Classifier resolves file classifications against a filesystem.
type Classifier struct {
	fileSystem afero.Fs
	logger     *zap.Logger
}

// New constructs a Classifier. A nil logger discards messages.
func New(fileSystem afero.Fs, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{fileSystem: fileSystem, logger: logger}
}

// ClassifyName applies the name-only rules: always-include names, lock files, then the
// binary and text extension sets. It returns types.Unknown when content has to decide.
func ClassifyName(name string) types.Classification {
	if utils.IsAlwaysIncluded(name) {
		return types.ForceInclude
	}
	if utils.IsLockFile(name) {
		return types.ForceExclude
	}
	extension := strings.ToLower(filepath.Ext(name))
	if utils.IsBinaryExtension(extension) {
		return types.BinaryByExtension
	}
	if utils.IsTextExtension(extension) {
		return types.TextByExtension
	}
	return types.Unknown
}

// Classify returns the classification of the file at path. Files whose name does not
// decide are sampled; files larger than utils.MaxSampledFileSize are binary without
// sampling. I/O failures are logged and reported as types.Unreadable.
func (classifier *Classifier) Classify(path string) types.Classification {
	if verdict := ClassifyName(filepath.Base(path)); verdict != types.Unknown {
		return verdict
	}
	return classifier.sample(path)
}

// IsBinary reports whether the file at path must be left out of rendered output.
func (classifier *Classifier) IsBinary(path string) bool {
	return classifier.Classify(path).IsBinary()
}

func (classifier *Classifier) sample(path string) types.Classification {
	fileInfo, statError := classifier.fileSystem.Stat(path)
	if statError != nil {
		classifier.logger.Warn("unable to stat file for binary detection", zap.String("path", path), zap.Error(statError))
		return types.Unreadable
	}
	if fileInfo.Size() > utils.MaxSampledFileSize {
		classifier.logger.Debug("treating oversized file as binary", zap.String("path", path), zap.Int64("bytes", fileInfo.Size()))
		return types.BinaryByContent
	}

	fileHandle, openError := classifier.fileSystem.Open(path)
	if openError != nil {
		classifier.logger.Warn("unable to open file for binary detection", zap.String("path", path), zap.Error(openError))
		return types.Unreadable
	}
	defer fileHandle.Close()

	isBinary, readError := utils.IsReaderBinary(fileHandle)
	if readError != nil {
		classifier.logger.Warn("unable to read file for binary detection", zap.String("path", path), zap.Error(readError))
		return types.Unreadable
	}
	if isBinary {
		return types.BinaryByContent
	}
	return types.TextByContent
}

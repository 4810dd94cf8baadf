package commands

import (
	"path/filepath"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"

	"github.com/wangqin0/coby/internal/classifier"
	"github.com/wangqin0/coby/internal/output"
	"github.com/wangqin0/coby/internal/types"
	"github.com/wangqin0/coby/internal/utils"
)

const (
	// maxReplacementRatio is the share of the text length taken by U+FFFD above which decoded content is rejected.
	maxReplacementRatio = 0.1

	errorReadFileFormat   = "%w: %s: %v"
	errorDecodeFormat     = "%w: %s: %d replacements in %d UTF-16 code units"
	errorDecodeTextFormat = "%w: %s: %v"

	logSkipExcludedFile = "skipping excluded file"
	logSkipBinaryFile   = "skipping binary file"
	logReadFailed       = "failed to read file"
	logDecodeFailed     = "file contains too many invalid UTF-8 characters"
	logFieldReason      = "reason"
)

// RenderResult is the outcome of rendering one file. Block is empty unless Rendered is set.
type RenderResult struct {
	Block          string
	Rendered       bool
	Classification types.Classification
	// TextBytes is the size of the decoded text inside Block.
	TextBytes int
	// Err is set when the file passed classification but could not be read or decoded.
	Err error
}

// Renderer turns a single file into a labeled fenced block.
type Renderer struct {
	fileSystem afero.Fs
	rules      utils.RuleSet
	classifier *classifier.Classifier
	logger     *zap.Logger
}

// NewRenderer constructs a Renderer. A nil logger discards messages.
func NewRenderer(fileSystem afero.Fs, rules utils.RuleSet, fileClassifier *classifier.Classifier, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fileClassifier == nil {
		fileClassifier = classifier.New(fileSystem, logger)
	}
	return &Renderer{fileSystem: fileSystem, rules: rules, classifier: fileClassifier, logger: logger}
}

// Render produces the block for the file at path. The file is left out when its basename
// is excluded, when it is classified as binary, or when it cannot be read or decoded.
// None of these outcomes is fatal to the caller.
func (renderer *Renderer) Render(path string) RenderResult {
	name := filepath.Base(path)
	if renderer.rules.Excludes(name, "") {
		classification := types.Excluded
		if utils.IsLockFile(name) {
			classification = types.ForceExclude
		}
		renderer.logger.Debug(logSkipExcludedFile, zap.String(logFieldPath, path), zap.Stringer(logFieldReason, classification))
		return RenderResult{Classification: classification}
	}

	classification := renderer.classifier.Classify(path)
	if classification.IsBinary() {
		renderer.logger.Debug(logSkipBinaryFile, zap.String(logFieldPath, path), zap.Stringer(logFieldReason, classification))
		return RenderResult{Classification: classification}
	}

	fileBytes, readError := afero.ReadFile(renderer.fileSystem, path)
	if readError != nil {
		renderer.logger.Warn(logReadFailed, zap.String(logFieldPath, path), zap.Error(readError))
		return RenderResult{
			Classification: classification,
			Err:            errors.Errorf(errorReadFileFormat, types.ErrReadFileFailed, path, readError),
		}
	}

	text, decodeError := decodeText(path, fileBytes)
	if decodeError != nil {
		renderer.logger.Debug(logDecodeFailed, zap.String(logFieldPath, path), zap.Error(decodeError))
		return RenderResult{Classification: classification, Err: decodeError}
	}

	return RenderResult{
		Block:          output.FileBlock(name, text),
		Rendered:       true,
		Classification: classification,
		TextBytes:      len(text),
	}
}

// decodeText decodes UTF-8, replacing every invalid sequence with U+FFFD, and rejects
// the result when replacements exceed maxReplacementRatio of the text length. Length is
// measured in UTF-16 code units, so a character outside the Basic Multilingual Plane
// counts twice.
func decodeText(path string, fileBytes []byte) (string, error) {
	decodedBytes, decodeError := unicode.UTF8.NewDecoder().Bytes(fileBytes)
	if decodeError != nil {
		return "", errors.Errorf(errorDecodeTextFormat, types.ErrDecodeFailed, path, decodeError)
	}
	totalUnits := 0
	replacedRunes := 0
	for _, character := range string(decodedBytes) {
		totalUnits += utf16CodeUnits(character)
		if character == utf8.RuneError {
			replacedRunes++
		}
	}
	if float64(replacedRunes) > float64(totalUnits)*maxReplacementRatio {
		return "", errors.Errorf(errorDecodeFormat, types.ErrDecodeFailed, path, replacedRunes, totalUnits)
	}
	return string(decodedBytes), nil
}

func utf16CodeUnits(character rune) int {
	if units := utf16.RuneLen(character); units > 0 {
		return units
	}
	return 1
}

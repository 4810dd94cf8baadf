package types

import (
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNoRootsOpen            = errors.Base("no workspace folders are open")
	ErrTargetNotFound         = errors.Base("target not found")
	ErrStatFailed             = errors.Base("stat failed")
	ErrReadDirectoryFailed    = errors.Base("read directory failed")
	ErrReadFileFailed         = errors.Base("read file failed")
	ErrDecodeFailed           = errors.Base("file is not valid UTF-8 text")
	ErrExcludedOrBinaryTarget = errors.Base("target is excluded or binary")
)

// SkippedTargetError reports that an explicitly requested file produced no content.
// It unwraps to ErrExcludedOrBinaryTarget.
type SkippedTargetError struct {
	Path           string
	Name           string
	Classification Classification
}

func (skipped *SkippedTargetError) Error() string {
	return ErrExcludedOrBinaryTarget.Error() + ": " + skipped.Path + " (" + skipped.Classification.String() + ")"
}

func (skipped *SkippedTargetError) Unwrap() error {
	return ErrExcludedOrBinaryTarget
}

// Package types defines every cross‑package data structure used by the coby CLI.
package types

// Command names of the two document-producing subcommands.
const (
	CommandCopy    = "copy"
	CommandCopyAll = "copy-all"
)

// Classification is the verdict reached for one file name or path.
type Classification int

const (
	// Unknown means the extension did not decide and content sampling is required.
	Unknown Classification = iota
	ForceInclude
	ForceExclude
	Excluded
	BinaryByExtension
	TextByExtension
	BinaryByContent
	TextByContent
	// Unreadable marks a file whose bytes could not be sampled; it is treated as binary.
	Unreadable
)

var classificationNames = map[Classification]string{
	Unknown:           "unknown",
	ForceInclude:      "force-include",
	ForceExclude:      "lock-file",
	Excluded:          "excluded",
	BinaryByExtension: "binary-extension",
	TextByExtension:   "text-extension",
	BinaryByContent:   "binary-content",
	TextByContent:     "text-content",
	Unreadable:        "unreadable",
}

func (classification Classification) String() string {
	if name, known := classificationNames[classification]; known {
		return name
	}
	return "invalid"
}

// IsBinary reports whether the classification keeps the file out of the rendered document.
func (classification Classification) IsBinary() bool {
	switch classification {
	case ForceExclude, Excluded, BinaryByExtension, BinaryByContent, Unreadable:
		return true
	default:
		return false
	}
}

// Root is one top-level directory or file handed to an aggregation.
type Root struct {
	Name string
	Path string
}

// FileRef is a candidate file collected by the tree walker.
type FileRef struct {
	Path      string
	Name      string
	Depth     int
	SizeBytes int64
}

// Issue records a non-fatal failure for a single item.
type Issue struct {
	Path string
	Err  error
}

func (issue Issue) Error() string {
	if issue.Err == nil {
		return issue.Path
	}
	return issue.Path + ": " + issue.Err.Error()
}

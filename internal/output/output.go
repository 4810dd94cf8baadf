// Package output renders the plain-text document placed on the clipboard.
package output

import (
	"fmt"
	"strings"
)

const (
	indentSpacer   = "  "
	directoryGlyph = "📁 "
	fileGlyph      = "📄 "
	directorySlash = "/"
	lineBreak      = "\n"
	fenceLine      = "```\n"

	// TreeHeader opens a single-root document.
	TreeHeader = "Directory Tree:\n"
	// ContentsHeader separates the tree section from the file blocks.
	ContentsHeader = "\n\nFile Contents:\n"
	// WorkspaceTitle opens a multi-root document.
	WorkspaceTitle = "# Workspace Content\n\n"
	// WorkspaceSeparator follows every root section of a multi-root document.
	WorkspaceSeparator = "\n\n"

	workspaceHeaderFormat = "## Workspace: %s\n\n"
)

// Indent returns the prefix for a tree line at depth; top-level entries have depth zero.
func Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(indentSpacer, depth)
}

// DirectoryLine formats a directory entry of the tree.
func DirectoryLine(name string, depth int) string {
	return Indent(depth) + directoryGlyph + name + directorySlash + lineBreak
}

// FileLine formats a file entry of the tree.
func FileLine(name string, depth int) string {
	return Indent(depth) + fileGlyph + name + lineBreak
}

// FileBlock formats the labeled fenced block for one file.
func FileBlock(name string, text string) string {
	var builder strings.Builder
	builder.Grow(len(name) + len(text) + 2*len(fenceLine) + 3)
	builder.WriteString(name)
	builder.WriteString(lineBreak)
	builder.WriteString(fenceLine)
	builder.WriteString(text)
	builder.WriteString(lineBreak)
	builder.WriteString(fenceLine)
	builder.WriteString(lineBreak)
	return builder.String()
}

// WorkspaceHeader labels one root of a multi-root document.
func WorkspaceHeader(name string) string {
	return fmt.Sprintf(workspaceHeaderFormat, name)
}

// SingleRootPrefix returns the tree section of a directory document, ending with the contents header.
func SingleRootPrefix(tree string) string {
	return TreeHeader + tree + ContentsHeader
}

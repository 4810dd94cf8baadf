// Package commands contains the traversal, rendering and aggregation logic behind each command.
package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"

	"github.com/wangqin0/coby/internal/output"
	"github.com/wangqin0/coby/internal/types"
	"github.com/wangqin0/coby/internal/utils"
)

const (
	errorReadDirectoryFormat = "%w: %s: %v"

	logSkipExcluded       = "skipping excluded entry"
	logSkipIrregular      = "skipping entry that is neither a file nor a directory"
	logSkipSubdirectory   = "skipping subdirectory after read failure"
	logFieldPath          = "path"
	logFieldRelative      = "relative"
	logFieldMode          = "mode"
	rootRelativeDirectory = ""
)

// TreeResult is the outcome of walking one root directory.
type TreeResult struct {
	// Text holds the tree lines only, without the section header.
	Text   string
	Files  []types.FileRef
	Issues []types.Issue
}

// Walker enumerates a directory tree, pruning entries excluded by its rule set.
type Walker struct {
	fileSystem afero.Fs
	rules      utils.RuleSet
	logger     *zap.Logger
}

// NewWalker constructs a Walker. A nil logger discards messages.
func NewWalker(fileSystem afero.Fs, rules utils.RuleSet, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{fileSystem: fileSystem, rules: rules, logger: logger}
}

type pendingEntry struct {
	info         os.FileInfo
	path         string
	relativePath string
	depth        int
}

// Walk visits the tree below rootPath depth first in pre-order. Entries keep the order
// returned by the filesystem. Every included file is appended to the result and passed
// to visit, which may be nil; an error from visit stops the walk.
//
// A failure to read rootPath itself is returned as types.ErrReadDirectoryFailed. Failures
// on nested directories are logged and recorded in TreeResult.Issues; their line stays
// in the tree and their siblings are still walked.
func (walker *Walker) Walk(ctx context.Context, rootPath string, visit func(types.FileRef) error) (TreeResult, error) {
	var result TreeResult
	rootEntries, readError := walker.readDirectory(rootPath)
	if readError != nil {
		return result, errors.Errorf(errorReadDirectoryFormat, types.ErrReadDirectoryFailed, rootPath, readError)
	}

	var treeBuilder strings.Builder
	stack := walker.pushEntries(nil, rootPath, rootRelativeDirectory, 0, rootEntries)
	for len(stack) > 0 {
		if contextError := ctx.Err(); contextError != nil {
			return result, contextError
		}
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		name := entry.info.Name()
		if walker.rules.Excludes(name, entry.relativePath) {
			walker.logger.Debug(logSkipExcluded, zap.String(logFieldPath, entry.path), zap.String(logFieldRelative, entry.relativePath))
			continue
		}

		switch {
		case entry.info.IsDir():
			treeBuilder.WriteString(output.DirectoryLine(name, entry.depth))
			childEntries, childReadError := walker.readDirectory(entry.path)
			if childReadError != nil {
				walker.logger.Warn(logSkipSubdirectory, zap.String(logFieldPath, entry.path), zap.Error(childReadError))
				result.Issues = append(result.Issues, types.Issue{
					Path: entry.path,
					Err:  errors.Errorf(errorReadDirectoryFormat, types.ErrReadDirectoryFailed, entry.path, childReadError),
				})
				continue
			}
			stack = walker.pushEntries(stack, entry.path, entry.relativePath, entry.depth+1, childEntries)
		case entry.info.Mode().IsRegular():
			treeBuilder.WriteString(output.FileLine(name, entry.depth))
			fileRef := types.FileRef{
				Path:      entry.path,
				Name:      name,
				Depth:     entry.depth,
				SizeBytes: entry.info.Size(),
			}
			result.Files = append(result.Files, fileRef)
			if visit != nil {
				if visitError := visit(fileRef); visitError != nil {
					result.Text = treeBuilder.String()
					return result, visitError
				}
			}
		default:
			walker.logger.Debug(logSkipIrregular, zap.String(logFieldPath, entry.path), zap.Stringer(logFieldMode, entry.info.Mode()))
		}
	}

	result.Text = treeBuilder.String()
	return result, nil
}

// RenderTree returns the tree lines for rootPath.
func (walker *Walker) RenderTree(ctx context.Context, rootPath string) (string, error) {
	result, walkError := walker.Walk(ctx, rootPath, nil)
	if walkError != nil {
		return "", walkError
	}
	return result.Text, nil
}

// Collect returns the included files below rootPath in traversal order.
func (walker *Walker) Collect(ctx context.Context, rootPath string) ([]types.FileRef, error) {
	result, walkError := walker.Walk(ctx, rootPath, nil)
	if walkError != nil {
		return nil, walkError
	}
	return result.Files, nil
}

// pushEntries adds entries in reverse so that the first entry is popped first.
func (walker *Walker) pushEntries(stack []pendingEntry, directoryPath string, relativeDirectory string, depth int, entries []os.FileInfo) []pendingEntry {
	for index := len(entries) - 1; index >= 0; index-- {
		info := entries[index]
		stack = append(stack, pendingEntry{
			info:         info,
			path:         filepath.Join(directoryPath, info.Name()),
			relativePath: joinRelative(relativeDirectory, info.Name()),
			depth:        depth,
		})
	}
	return stack
}

func (walker *Walker) readDirectory(directoryPath string) ([]os.FileInfo, error) {
	directoryHandle, openError := walker.fileSystem.Open(directoryPath)
	if openError != nil {
		return nil, openError
	}
	defer directoryHandle.Close()
	return directoryHandle.Readdir(-1)
}

func joinRelative(relativeDirectory string, name string) string {
	if relativeDirectory == rootRelativeDirectory {
		return name
	}
	return relativeDirectory + "/" + name
}

package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wangqin0/coby/internal/classifier"
	"github.com/wangqin0/coby/internal/output"
	"github.com/wangqin0/coby/internal/types"
	"github.com/wangqin0/coby/internal/utils"
)

const (
	errorTargetFormat     = "%w: %s: %v"
	errorUnreadableFormat = "%w: %s: unable to sample content"

	// progressComplete is the total of all increments reported by BuildAll.
	progressComplete = 100

	logSkipRoot     = "recording failed workspace root"
	logSkipFileRoot = "skipping workspace file root"
)

// ProgressReporter receives percentage increments while roots are aggregated.
type ProgressReporter interface {
	Advance(increment int)
}

// Document is an assembled clipboard document with its totals.
type Document struct {
	Text        string
	IsDirectory bool
	// Files counts the rendered file blocks.
	Files int
	// Bytes counts the decoded text of the rendered blocks.
	Bytes  int64
	Issues []types.Issue
	// Skipped lists file roots left out as excluded, binary or undecodable.
	Skipped []string
}

// Aggregator assembles documents from one or many roots.
type Aggregator struct {
	fileSystem afero.Fs
	walker     *Walker
	renderer   *Renderer
	logger     *zap.Logger
}

// NewAggregator wires a walker and renderer sharing the same filesystem and rules.
func NewAggregator(fileSystem afero.Fs, rules utils.RuleSet, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	fileClassifier := classifier.New(fileSystem, logger)
	return &Aggregator{
		fileSystem: fileSystem,
		walker:     NewWalker(fileSystem, rules, logger),
		renderer:   NewRenderer(fileSystem, rules, fileClassifier, logger),
		logger:     logger,
	}
}

// BuildSingle renders one directory or file. A directory yields the tree section followed
// by a block for every collected file. A file yields only its block; when the file is
// excluded, binary or undecodable the error is a *types.SkippedTargetError.
func (aggregator *Aggregator) BuildSingle(ctx context.Context, rootPath string) (Document, error) {
	rootInfo, statError := aggregator.fileSystem.Stat(rootPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return Document{}, errors.Errorf(errorTargetFormat, types.ErrTargetNotFound, rootPath, statError)
		}
		return Document{}, errors.Errorf(errorTargetFormat, types.ErrStatFailed, rootPath, statError)
	}
	if rootInfo.IsDir() {
		return aggregator.buildDirectory(ctx, rootPath)
	}
	return aggregator.buildFile(rootPath)
}

// BuildAll renders every root under a workspace title, each labeled with its name.
// Only an empty root list fails; a root that cannot be rendered contributes an empty
// tree section and an Issue. A file root that is excluded or binary contributes an empty
// section and is listed in Skipped. progress may be nil.
func (aggregator *Aggregator) BuildAll(ctx context.Context, roots []types.Root, progress ProgressReporter) (Document, error) {
	if len(roots) == 0 {
		return Document{}, errors.WithStack(types.ErrNoRootsOpen)
	}

	document := Document{IsDirectory: true}
	var textBuilder strings.Builder
	textBuilder.WriteString(output.WorkspaceTitle)
	reportedPercent := 0
	for rootIndex, root := range roots {
		if contextError := ctx.Err(); contextError != nil {
			return Document{}, contextError
		}
		rootName := root.Name
		if rootName == "" {
			rootName = filepath.Base(root.Path)
		}
		textBuilder.WriteString(output.WorkspaceHeader(rootName))

		rootDocument, buildError := aggregator.BuildSingle(ctx, root.Path)
		var skipped *types.SkippedTargetError
		switch {
		case buildError == nil:
			textBuilder.WriteString(rootDocument.Text)
			document.Files += rootDocument.Files
			document.Bytes += rootDocument.Bytes
			document.Issues = append(document.Issues, rootDocument.Issues...)
		case errors.Is(buildError, context.Canceled), errors.Is(buildError, context.DeadlineExceeded):
			return Document{}, buildError
		case errors.As(buildError, &skipped):
			aggregator.logger.Debug(logSkipFileRoot, zap.String(logFieldPath, root.Path), zap.Stringer(logFieldReason, skipped.Classification))
			document.Skipped = append(document.Skipped, root.Path)
		default:
			aggregator.logger.Warn(logSkipRoot, zap.String(logFieldPath, root.Path), zap.Error(buildError))
			textBuilder.WriteString(output.SingleRootPrefix(""))
			document.Issues = append(document.Issues, types.Issue{Path: root.Path, Err: buildError})
		}
		textBuilder.WriteString(output.WorkspaceSeparator)

		if progress != nil {
			nextPercent := (rootIndex + 1) * progressComplete / len(roots)
			progress.Advance(nextPercent - reportedPercent)
			reportedPercent = nextPercent
		}
	}
	document.Text = textBuilder.String()
	return document, nil
}

func (aggregator *Aggregator) buildFile(filePath string) (Document, error) {
	result := aggregator.renderer.Render(filePath)
	if result.Rendered {
		return Document{Text: result.Block, Files: 1, Bytes: int64(result.TextBytes)}, nil
	}
	if result.Err != nil && !errors.Is(result.Err, types.ErrDecodeFailed) {
		return Document{}, result.Err
	}
	return Document{}, &types.SkippedTargetError{
		Path:           filePath,
		Name:           filepath.Base(filePath),
		Classification: result.Classification,
	}
}

// buildDirectory runs the walker and renderer as a producer/consumer pair so files are
// rendered in traversal order while the tree is still being walked.
func (aggregator *Aggregator) buildDirectory(ctx context.Context, rootPath string) (Document, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	files := make(chan types.FileRef)

	var tree TreeResult
	group.Go(func() error {
		defer close(files)
		result, walkError := aggregator.walker.Walk(groupCtx, rootPath, func(file types.FileRef) error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case files <- file:
				return nil
			}
		})
		tree = result
		return walkError
	})

	var blocks strings.Builder
	document := Document{IsDirectory: true}
	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case file, ok := <-files:
				if !ok {
					return nil
				}
				aggregator.consumeFile(file, &blocks, &document)
			}
		}
	})

	if waitError := group.Wait(); waitError != nil {
		return Document{}, waitError
	}

	document.Issues = append(tree.Issues, document.Issues...)
	document.Text = output.SingleRootPrefix(tree.Text) + blocks.String()
	return document, nil
}

func (aggregator *Aggregator) consumeFile(file types.FileRef, blocks *strings.Builder, document *Document) {
	result := aggregator.renderer.Render(file.Path)
	switch {
	case result.Rendered:
		blocks.WriteString(result.Block)
		document.Files++
		document.Bytes += int64(result.TextBytes)
	case result.Err != nil:
		document.Issues = append(document.Issues, types.Issue{Path: file.Path, Err: result.Err})
	case result.Classification == types.Unreadable:
		document.Issues = append(document.Issues, types.Issue{
			Path: file.Path,
			Err:  errors.Errorf(errorUnreadableFormat, types.ErrReadFileFailed, file.Path),
		})
	}
}

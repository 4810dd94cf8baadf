package commands_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wangqin0/coby/internal/commands"
	"github.com/wangqin0/coby/internal/types"
	"github.com/wangqin0/coby/internal/utils"
)

func TestWalkListsEntriesInPreOrder(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTree(t, fileSystem, workspaceRoot, map[string]string{
		"README.md":       "readme",
		"src/main.go":     "package main",
		"src/pkg/util.go": "package pkg",
		".git/config":     "[core]",
		"empty/":          "",
	})

	walker := commands.NewWalker(fileSystem, utils.NewRuleSet(), zaptest.NewLogger(t))
	result, walkError := walker.Walk(context.Background(), workspaceRoot, nil)
	require.NoError(t, walkError)

	expectedTree := "📄 README.md\n" +
		"📁 empty/\n" +
		"📁 src/\n" +
		"  📄 main.go\n" +
		"  📁 pkg/\n" +
		"    📄 util.go\n"
	assert.Equal(t, expectedTree, result.Text)
	assert.Empty(t, result.Issues)

	require.Len(t, result.Files, 3)
	assert.Equal(t, types.FileRef{Path: filepath.Join(workspaceRoot, "README.md"), Name: "README.md", Depth: 0, SizeBytes: 6}, result.Files[0])
	assert.Equal(t, "main.go", result.Files[1].Name)
	assert.Equal(t, 1, result.Files[1].Depth)
	assert.Equal(t, filepath.Join(workspaceRoot, "src", "pkg", "util.go"), result.Files[2].Path)
	assert.Equal(t, 2, result.Files[2].Depth)
}

func TestWalkDoesNotMatchRootNameAgainstRules(t *testing.T) {
	buildRoot := filepath.Join(workspaceRoot, "build")
	fileSystem := afero.NewMemMapFs()
	writeTree(t, fileSystem, buildRoot, map[string]string{
		"output.txt":  "artifact",
		"build/inner": "nested",
	})

	walker := commands.NewWalker(fileSystem, utils.NewRuleSet(), zaptest.NewLogger(t))
	result, walkError := walker.Walk(context.Background(), buildRoot, nil)
	require.NoError(t, walkError)

	assert.Equal(t, "📄 output.txt\n", result.Text)
	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join(buildRoot, "output.txt"), result.Files[0].Path)
}

func TestWalkPrunesExcludedDirectories(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTree(t, fileSystem, workspaceRoot, map[string]string{
		"a.txt":                   "hello",
		"image.png":               "\x89PNG",
		"node_modules/lib/x.js":   "module.exports = 1",
		"cypress/videos/run.mp4":  "video",
		"cypress/fixtures/f.json": "{}",
		"yarn.lock":               "# lock",
		"Makefile":                "all:",
	})

	walker := commands.NewWalker(fileSystem, utils.NewRuleSet([]string{"Makefile"}), zaptest.NewLogger(t))
	treeText, renderError := walker.RenderTree(context.Background(), workspaceRoot)
	require.NoError(t, renderError)

	expectedTree := "📄 Makefile\n" +
		"📄 a.txt\n" +
		"📁 cypress/\n" +
		"  📁 fixtures/\n" +
		"    📄 f.json\n" +
		"📄 image.png\n"
	assert.Equal(t, expectedTree, treeText)
	assert.NotContains(t, treeText, "node_modules")
	assert.NotContains(t, treeText, "x.js")
}

func TestWalkIsIdempotentAndMonotonic(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTree(t, fileSystem, workspaceRoot, map[string]string{
		"docs/guide.md": "# guide",
		"src/app.go":    "package app",
		"notes.txt":     "notes",
	})
	ctx := context.Background()

	walker := commands.NewWalker(fileSystem, utils.NewRuleSet(), nil)
	first, firstError := walker.Walk(ctx, workspaceRoot, nil)
	require.NoError(t, firstError)
	second, secondError := walker.Walk(ctx, workspaceRoot, nil)
	require.NoError(t, secondError)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Files, second.Files)

	excludingWalker := commands.NewWalker(fileSystem, utils.NewRuleSet([]string{"docs", "*.txt"}), nil)
	excluded, excludedError := excludingWalker.Collect(ctx, workspaceRoot)
	require.NoError(t, excludedError)
	assert.Less(t, len(excluded), len(first.Files))
	require.Len(t, excluded, 1)
	assert.Equal(t, "app.go", excluded[0].Name)
}

func TestWalkContinuesAfterNestedReadFailure(t *testing.T) {
	memory := afero.NewMemMapFs()
	writeTree(t, memory, workspaceRoot, map[string]string{
		"locked/secret.txt": "secret",
		"open/visible.txt":  "visible",
		"z.txt":             "last",
	})
	lockedPath := filepath.Join(workspaceRoot, "locked")
	fileSystem := newFailingOpenFs(memory, lockedPath)

	walker := commands.NewWalker(fileSystem, utils.NewRuleSet(), zaptest.NewLogger(t))
	result, walkError := walker.Walk(context.Background(), workspaceRoot, nil)
	require.NoError(t, walkError)

	assert.Equal(t, "📁 locked/\n📁 open/\n  📄 visible.txt\n📄 z.txt\n", result.Text)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, lockedPath, result.Issues[0].Path)
	assert.ErrorIs(t, result.Issues[0].Err, types.ErrReadDirectoryFailed)
	require.Len(t, result.Files, 2)
}

func TestWalkFailsWhenRootCannotBeRead(t *testing.T) {
	walker := commands.NewWalker(afero.NewMemMapFs(), utils.NewRuleSet(), nil)
	_, walkError := walker.Walk(context.Background(), filepath.Join(workspaceRoot, "missing"), nil)
	require.Error(t, walkError)
	assert.ErrorIs(t, walkError, types.ErrReadDirectoryFailed)
}

func TestWalkStopsOnVisitErrorAndCancellation(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTree(t, fileSystem, workspaceRoot, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	})
	walker := commands.NewWalker(fileSystem, utils.NewRuleSet(), nil)

	stopError := errors.New("stop")
	visited := 0
	_, walkError := walker.Walk(context.Background(), workspaceRoot, func(types.FileRef) error {
		visited++
		return stopError
	})
	assert.ErrorIs(t, walkError, stopError)
	assert.Equal(t, 1, visited)

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()
	_, walkError = walker.Walk(cancelledContext, workspaceRoot, nil)
	assert.ErrorIs(t, walkError, context.Canceled)
}

package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const workspaceRoot = "/workspace"

// failingOpenFs refuses to open the listed paths while keeping Stat working.
type failingOpenFs struct {
	afero.Fs
	failingPaths map[string]struct{}
}

func newFailingOpenFs(base afero.Fs, paths ...string) failingOpenFs {
	failingPaths := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		failingPaths[path] = struct{}{}
	}
	return failingOpenFs{Fs: base, failingPaths: failingPaths}
}

func (fileSystem failingOpenFs) Open(name string) (afero.File, error) {
	if _, failing := fileSystem.failingPaths[name]; failing {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return fileSystem.Fs.Open(name)
}

// writeTree creates files relative to root; a name ending in "/" creates an empty directory.
func writeTree(t *testing.T, fileSystem afero.Fs, root string, files map[string]string) {
	t.Helper()
	require.NoError(t, fileSystem.MkdirAll(root, 0o755))
	for relativePath, content := range files {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		if relativePath[len(relativePath)-1] == '/' {
			require.NoError(t, fileSystem.MkdirAll(absolutePath, 0o755))
			continue
		}
		require.NoError(t, fileSystem.MkdirAll(filepath.Dir(absolutePath), 0o755))
		require.NoError(t, afero.WriteFile(fileSystem, absolutePath, []byte(content), 0o644))
	}
}

type recordingProgress struct {
	increments []int
}

func (progress *recordingProgress) Advance(increment int) {
	progress.increments = append(progress.increments, increment)
}

package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap/zaptest"

	"github.com/wangqin0/coby/internal/cli"
	"github.com/wangqin0/coby/internal/types"
)

const (
	projectDirectory = "/work/project"
	homeDirectory    = "/home/tester"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type harness struct {
	fileSystem afero.Fs
	copier     *recordingCopier
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	t          *testing.T
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	require.NoError(t, fileSystem.MkdirAll(projectDirectory, 0o755))
	require.NoError(t, fileSystem.MkdirAll(homeDirectory, 0o755))
	for path, content := range files {
		require.NoError(t, fileSystem.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fileSystem, path, []byte(content), 0o644))
	}
	return &harness{
		fileSystem: fileSystem,
		copier:     &recordingCopier{},
		stdout:     &bytes.Buffer{},
		stderr:     &bytes.Buffer{},
		t:          t,
	}
}

func (h *harness) run(arguments ...string) error {
	return cli.Run(context.Background(), cli.Dependencies{
		FileSystem:       h.fileSystem,
		Clipboard:        h.copier,
		Stdout:           h.stdout,
		Stderr:           h.stderr,
		WorkingDirectory: projectDirectory,
		HomeDirectory:    homeDirectory,
		Logger:           zaptest.NewLogger(h.t),
	}, arguments)
}

func (h *harness) onlyCopy() string {
	h.t.Helper()
	require.Len(h.t, h.copier.copied, 1)
	return h.copier.copied[0]
}

func TestCopyDirectoryPlacesDocumentOnClipboard(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/a.txt":     "hello",
		projectDirectory + "/image.png": "\x89PNG\r\n\x1a\n\x00\x00",
	})

	require.NoError(t, h.run("copy"))

	expected := "Directory Tree:\n" +
		"📄 a.txt\n" +
		"📄 image.png\n" +
		"\n\nFile Contents:\n" +
		"a.txt\n```\nhello\n```\n\n"
	assert.Equal(t, expected, h.onlyCopy())
	assert.Equal(t, "Copied directory content to clipboard! (1 file, 5b)\n", h.stderr.String())
	assert.Empty(t, h.stdout.String())
}

func TestCopyAliasAndFileTarget(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/src/main.go": "package main",
	})

	require.NoError(t, h.run("c", "src/main.go"))

	assert.Equal(t, "main.go\n```\npackage main\n```\n\n", h.onlyCopy())
	assert.Contains(t, h.stderr.String(), "Copied file content to clipboard!")
}

func TestCopyPrintWritesToStdout(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/notes.md": "# notes",
	})

	require.NoError(t, h.run("copy", "notes.md", "--print"))

	assert.Equal(t, "notes.md\n```\n# notes\n```\n\n", h.stdout.String())
	assert.Empty(t, h.copier.copied)
	assert.Contains(t, h.stderr.String(), "Printed file content to stdout.")
}

func TestCopyPrintAcceptsSeparateLiteral(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/notes.md": "# notes",
	})

	require.NoError(t, h.run("copy", "--print", "no", "notes.md"))

	assert.Empty(t, h.stdout.String())
	assert.Len(t, h.copier.copied, 1)
}

func TestCopyBinaryTargetWarns(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/Logo.PNG": "\x89PNG\r\n\x1a\n",
	})

	require.NoError(t, h.run("copy", "Logo.PNG"))

	assert.Empty(t, h.copier.copied)
	assert.Equal(t, "Skipped \"Logo.PNG\" as it's a binary file type (.png).\n", h.stderr.String())
}

func TestCopyUndecodableTargetWarns(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/broken.txt": "\xff\xfe\xfd\xfc\xfb",
	})

	require.NoError(t, h.run("copy", "broken.txt"))

	assert.Empty(t, h.copier.copied)
	assert.Equal(t, "Skipped \"broken.txt\" as it appears to be a binary or unreadable file.\n", h.stderr.String())
}

func TestCopyMissingTargetReportsFailure(t *testing.T) {
	h := newHarness(t, nil)

	runError := h.run("copy", "missing")

	var reported *cli.ReportedError
	require.True(t, errors.As(runError, &reported))
	assert.True(t, errors.Is(runError, types.ErrTargetNotFound))
	assert.Contains(t, h.stderr.String(), "Failed to copy content: target not found")
	assert.Empty(t, h.copier.copied)
}

func TestCopyExclusionFlag(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/a.txt": "alpha",
		projectDirectory + "/b.txt": "beta",
	})

	require.NoError(t, h.run("copy", "-e", "a.txt"))

	document := h.onlyCopy()
	assert.NotContains(t, document, "a.txt")
	assert.Contains(t, document, "b.txt\n```\nbeta\n```")
}

func TestCopyHonorsIgnoreFile(t *testing.T) {
	files := map[string]string{
		projectDirectory + "/.cobyignore": "# private\nsecret.txt\n",
		projectDirectory + "/secret.txt":  "top secret",
		projectDirectory + "/public.txt":  "visible",
	}

	t.Run("ignore_file_applied", func(t *testing.T) {
		h := newHarness(t, files)
		require.NoError(t, h.run("copy"))
		document := h.onlyCopy()
		assert.NotContains(t, document, "📄 secret.txt")
		assert.NotContains(t, document, "top secret")
		assert.Contains(t, document, "📄 public.txt")
	})

	t.Run("no_ignore_flag", func(t *testing.T) {
		h := newHarness(t, files)
		require.NoError(t, h.run("copy", "--no-ignore"))
		assert.Contains(t, h.onlyCopy(), "top secret")
	})
}

func TestCopyUsesConfigurationDefaults(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/.coby.yaml": "exclude:\n  - \"*.txt\"\nclipboard: false\n",
		projectDirectory + "/a.txt":      "alpha",
		projectDirectory + "/main.go":    "package main",
	})

	require.NoError(t, h.run("copy"))

	assert.Empty(t, h.copier.copied)
	assert.NotContains(t, h.stdout.String(), "a.txt")
	assert.Contains(t, h.stdout.String(), "main.go\n```\npackage main\n```")
}

func TestCopyAllArguments(t *testing.T) {
	h := newHarness(t, map[string]string{
		"/work/api/api.go": "package api",
		"/work/web/app.js": "run()",
	})

	require.NoError(t, h.run("copy-all", "../api", "/work/web", "../api"))

	expected := "# Workspace Content\n\n" +
		"## Workspace: api\n\n" +
		"Directory Tree:\n📄 api.go\n\n\nFile Contents:\napi.go\n```\npackage api\n```\n\n" +
		"\n\n" +
		"## Workspace: web\n\n" +
		"Directory Tree:\n📄 app.js\n\n\nFile Contents:\napp.js\n```\nrun()\n```\n\n" +
		"\n\n"
	assert.Equal(t, expected, h.onlyCopy())
	assert.Contains(t, h.stderr.String(), "Copied all workspace folders content to clipboard! (2 files, 16b)")
}

func TestCopyAllRootsFromConfiguration(t *testing.T) {
	h := newHarness(t, map[string]string{
		projectDirectory + "/.coby.yaml": "roots:\n  - ../api\n",
		"/work/api/api.go":               "package api",
	})

	require.NoError(t, h.run("ca"))

	assert.Contains(t, h.onlyCopy(), "## Workspace: api\n\n")
}

func TestCopyAllWithoutRootsFails(t *testing.T) {
	h := newHarness(t, nil)

	runError := h.run("copy-all")

	require.Error(t, runError)
	assert.True(t, errors.Is(runError, types.ErrNoRootsOpen))
	assert.Contains(t, h.stderr.String(), "Failed to copy content: no workspace folders are open")
	assert.Empty(t, h.copier.copied)
}

func TestCopyAllCancelledIsNotReported(t *testing.T) {
	h := newHarness(t, map[string]string{
		"/work/api/api.go": "package api",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runError := cli.Run(ctx, cli.Dependencies{
		FileSystem:       h.fileSystem,
		Clipboard:        h.copier,
		Stdout:           h.stdout,
		Stderr:           h.stderr,
		WorkingDirectory: projectDirectory,
		HomeDirectory:    homeDirectory,
	}, []string{"copy-all", "/work/api"})

	require.ErrorIs(t, runError, context.Canceled)
	var reported *cli.ReportedError
	assert.False(t, errors.As(runError, &reported))
	assert.NotContains(t, h.stderr.String(), "Failed to copy content")
}

func TestConfigInitWritesOnce(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.run("config", "init"))
	writtenPath := filepath.Join(projectDirectory, ".coby.yaml")
	assert.Contains(t, h.stderr.String(), "Configuration written to "+writtenPath)
	content, readError := afero.ReadFile(h.fileSystem, writtenPath)
	require.NoError(t, readError)
	assert.Contains(t, string(content), "use_ignore: true")

	runError := h.run("config", "init")
	var reported *cli.ReportedError
	require.True(t, errors.As(runError, &reported))
	assert.Contains(t, h.stderr.String(), "Failed to initialize configuration: configuration file already exists")

	require.NoError(t, h.run("config", "init", "--force"))
}

func TestConfigInitGlobal(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.run("config", "init", "--global"))

	exists, existsError := afero.Exists(h.fileSystem, filepath.Join(homeDirectory, ".coby", "config.yaml"))
	require.NoError(t, existsError)
	assert.True(t, exists)
}

func TestVersionFlag(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.run("--version"))

	assert.Contains(t, h.stdout.String(), "coby version: ")
}

func TestRootCommandRegistersDocumentCommands(t *testing.T) {
	rootCommand := cli.NewRootCommand(cli.Dependencies{FileSystem: afero.NewMemMapFs(), Clipboard: &recordingCopier{}})

	for _, name := range []string{types.CommandCopy, types.CommandCopyAll} {
		command, _, findError := rootCommand.Find([]string{name})
		require.NoError(t, findError)
		assert.Equal(t, name, command.Name())
	}
}

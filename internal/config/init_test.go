package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/wangqin0/coby/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	options := InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}
	path, err := InitializeConfiguration(options)
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	for _, expectedLine := range []string{"exclude: []", "roots: []", "clipboard: true", "use_ignore: true"} {
		if !strings.Contains(string(content), expectedLine) {
			t.Fatalf("expected %q in configuration content: %s", expectedLine, string(content))
		}
	}
}

func TestInitializeConfigurationRoundTripsThroughLoader(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	homeDirectory := "/home/tester"
	path, err := InitializeConfiguration(InitOptions{
		Target:        InitTargetGlobal,
		HomeDirectory: homeDirectory,
		FileSystem:    fileSystem,
	})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	loaded, loadErr := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: "/projects/none",
		HomeDirectory:    homeDirectory,
		FileSystem:       fileSystem,
	})
	if loadErr != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", loadErr)
	}
	if loaded.Clipboard == nil || !*loaded.Clipboard || loaded.UseIgnoreFile == nil || !*loaded.UseIgnoreFile {
		t.Fatalf("expected defaults to be loaded back, got %+v", loaded)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, utils.ConfigFileName)
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: false})
	if err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if _, err = InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		t.Fatalf("expected forced initialization to succeed: %v", err)
	}
}

func TestInitializeConfigurationRejectsUnknownTarget(t *testing.T) {
	if _, err := InitializeConfiguration(InitOptions{Target: InitTarget("remote"), FileSystem: afero.NewMemMapFs()}); err == nil {
		t.Fatalf("expected error for unsupported target")
	}
}

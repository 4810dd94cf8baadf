// Package config loads user configuration and root ignore files.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/wangqin0/coby/internal/utils"
)

const commentPrefix = "#"

// LoadIgnoreFilePatterns reads one pattern per line from an ignore file, skipping blank
// lines and comments. A missing file yields no patterns.
func LoadIgnoreFilePatterns(fileSystem afero.Fs, ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := fileSystem.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer fileHandle.Close()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadRootIgnorePatterns collects the ignore file patterns of every root, in root order and
// without duplicates. A root that is a file contributes the ignore file of its directory.
func LoadRootIgnorePatterns(fileSystem afero.Fs, rootPaths []string) ([]string, error) {
	var combinedPatterns []string
	for _, rootPath := range rootPaths {
		directoryPath := rootPath
		if info, statError := fileSystem.Stat(rootPath); statError == nil && !info.IsDir() {
			directoryPath = filepath.Dir(rootPath)
		}
		ignoreFilePath := filepath.Join(directoryPath, utils.IgnoreFileName)
		patterns, loadError := LoadIgnoreFilePatterns(fileSystem, ignoreFilePath)
		if loadError != nil {
			return nil, errors.Errorf("loading %s from %s: %w", utils.IgnoreFileName, directoryPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, patterns...)
	}
	return utils.DeduplicatePatterns(combinedPatterns), nil
}

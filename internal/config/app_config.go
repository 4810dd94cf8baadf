package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"

	"github.com/wangqin0/coby/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	// HomeDirectory overrides the user's home directory when locating the global file.
	HomeDirectory    string
	ExplicitFilePath string
	// FileSystem defaults to the operating system filesystem.
	FileSystem afero.Fs
}

// ApplicationConfiguration holds user defaults shared by every command.
type ApplicationConfiguration struct {
	Exclude       []string `mapstructure:"exclude" yaml:"exclude"`
	Roots         []string `mapstructure:"roots" yaml:"roots"`
	Clipboard     *bool    `mapstructure:"clipboard" yaml:"clipboard"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore" yaml:"use_ignore"`
}

// ClipboardEnabled reports whether documents go to the clipboard; unset means true.
func (config ApplicationConfiguration) ClipboardEnabled() bool {
	return config.Clipboard == nil || *config.Clipboard
}

// IgnoreFileEnabled reports whether root ignore files are read; unset means true.
func (config ApplicationConfiguration) IgnoreFileEnabled() bool {
	return config.UseIgnoreFile == nil || *config.UseIgnoreFile
}

// LoadApplicationConfiguration loads the global file and then the local (or explicit) file,
// letting values set locally override global ones. Missing files are not an error.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, errors.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(fileSystem, globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(fileSystem, localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Exclude = utils.DeduplicatePatterns(merged.Exclude)
	merged.Roots = utils.DeduplicatePatterns(merged.Roots)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

// loadConfigurationFromPath decodes one file. Relative roots are resolved against the
// directory holding the file.
func loadConfigurationFromPath(fileSystem afero.Fs, path string) (ApplicationConfiguration, error) {
	info, statErr := fileSystem.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, errors.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, errors.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetFs(fileSystem)
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, errors.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, errors.Errorf("decode configuration from %s: %w", path, decodeErr)
	}

	configurationDirectory := filepath.Dir(path)
	for index, root := range config.Roots {
		if root != "" && !filepath.IsAbs(root) {
			config.Roots[index] = filepath.Join(configurationDirectory, root)
		}
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Non-empty lists replace the receiver's lists.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, override.Exclude...)
	}
	if len(override.Roots) > 0 {
		result.Roots = append([]string{}, override.Roots...)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

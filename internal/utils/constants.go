package utils

const (
	// IgnoreFileName is the name of the per-root ignore file.
	IgnoreFileName = ".cobyignore"
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".coby.yaml"
	// GlobalConfigFileName is the name of the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".coby"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// ApplicationExecutionFailedMessage prefixes the fatal log line emitted by main.
const ApplicationExecutionFailedMessage = "coby execution failed"

// LoggerInitializationFailedMessageFormat is used when the zap logger cannot be built.
const LoggerInitializationFailedMessageFormat = "initialize logger: %w"

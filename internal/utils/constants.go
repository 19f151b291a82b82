package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"

const (
	// ConfigFileName is the name of the configuration file looked up locally and globally.
	ConfigFileName = "treedump.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".treedump"
	// EnvironmentPrefix prefixes every environment variable the configuration reads.
	EnvironmentPrefix = "TREEDUMP"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes the single diagnostic printed on failure.
	ApplicationExecutionFailedMessage = "Error"
)

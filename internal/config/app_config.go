// Package config resolves the scan root, output path and excluded paths from
// configuration files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/treedump/internal/utils"
)

const (
	// DefaultRoot is scanned when neither configuration nor arguments name a root.
	DefaultRoot = "."
	// DefaultOutput is the report written when nothing else names one.
	DefaultOutput = "structure_and_content.txt"

	rootKey    = "root"
	outputKey  = "output"
	excludeKey = "exclude"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the recognized options {root, output, exclude}.
type ApplicationConfiguration struct {
	Root    string   `mapstructure:"root"`
	Output  string   `mapstructure:"output"`
	Exclude []string `mapstructure:"exclude"`
}

// Defaults returns the built-in configuration.
func Defaults() ApplicationConfiguration {
	return ApplicationConfiguration{Root: DefaultRoot, Output: DefaultOutput}
}

// LoadApplicationConfiguration overlays, in order, the built-in defaults, the
// global file, the local (or explicit) file and the environment.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	merged := Defaults()

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)
	merged = merged.Merge(loadConfigurationFromEnvironment())

	merged.Exclude = utils.DeduplicatePaths(merged.Exclude)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

// loadConfigurationFromPath reads a YAML configuration file. A missing file
// yields an empty configuration unless required is set.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// loadConfigurationFromEnvironment reads TREEDUMP_ROOT, TREEDUMP_OUTPUT and
// TREEDUMP_EXCLUDE. The exclude list uses the operating system's path list
// separator.
func loadConfigurationFromEnvironment() ApplicationConfiguration {
	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	for _, key := range []string{rootKey, outputKey, excludeKey} {
		_ = reader.BindEnv(key)
	}
	config := ApplicationConfiguration{
		Root:   reader.GetString(rootKey),
		Output: reader.GetString(outputKey),
	}
	if excludeList := reader.GetString(excludeKey); excludeList != "" {
		config.Exclude = filepath.SplitList(excludeList)
	}
	return config
}

// Merge overlays override onto the receiver returning the combined configuration.
// Empty override values keep the receiver's value; a non-empty exclude list
// replaces the receiver's list.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Root != "" {
		result.Root = override.Root
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePaths(override.Exclude)...)
	}
	return result
}

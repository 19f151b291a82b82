package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	gitNotFoundFormat  = "%s directory not found in or above %s"
	absolutePathFormat = "failed to get absolute path for %s: %w"
)

// gitDescribeArguments lists the git describe invocations tried in order of preference.
var gitDescribeArguments = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion returns the module version embedded by the Go toolchain,
// falling back to git describe when the binary was built from a checkout.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}

	repositoryDirectory, repositoryError := findRepositoryDirectory(".")
	if repositoryError != nil {
		return unknownVersion
	}
	for _, arguments := range gitDescribeArguments {
		if described := describeRepository(repositoryDirectory, arguments); described != "" {
			return described
		}
	}
	return unknownVersion
}

func describeRepository(repositoryDirectory string, arguments []string) string {
	// #nosec G204
	describeCommand := exec.Command(gitExecutableName, arguments...)
	describeCommand.Dir = repositoryDirectory
	describeOutput, describeError := describeCommand.Output()
	if describeError != nil {
		return ""
	}
	return strings.TrimSpace(string(describeOutput))
}

// findRepositoryDirectory walks upward from startDirectory until it finds a
// directory containing a .git folder.
func findRepositoryDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathFormat, startDirectory, absoluteError)
	}

	for currentDirectory := absoluteStartDirectory; ; {
		gitInformation, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statError == nil && gitInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}
	return "", fmt.Errorf(gitNotFoundFormat, GitDirectoryName, absoluteStartDirectory)
}

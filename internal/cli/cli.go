// Package cli provides the command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treedump/internal/config"
	"github.com/temirov/treedump/internal/services/dump"
	"github.com/temirov/treedump/internal/utils"
)

const (
	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	excludeFlagName      = "exclude"
	excludeFlagShorthand = "x"
	configFlagName       = "config"
	versionFlagName      = "version"
	globalFlagName       = "global"
	forceFlagName        = "force"
	versionTemplate      = "treedump version: %s\n"
	rootUse              = "treedump [root]"
	rootShortDescription = "dump a directory tree and its file contents into one report"
	rootLongDescription  = `treedump walks a directory top-down and writes an indented plain text report.
Every directory gets a header line and every file is written out in full between
START/END markers. Files that cannot be read are reported inline and do not stop the scan.

Defaults come from ~/.treedump/treedump.yaml, ./treedump.yaml (or --config) and the
TREEDUMP_ROOT, TREEDUMP_OUTPUT and TREEDUMP_EXCLUDE environment variables.`
	rootUsageExample = `  # Dump the current directory into structure_and_content.txt
  treedump

  # Dump src/app into a custom report, skipping the favicon
  treedump src/app -o app_structure_and_content.txt -x src/app/favicon.ico`
	initUse                 = "init"
	initShortDescription    = "write a default configuration file"
	outputFlagDescription   = "report file to create or truncate"
	excludeFlagDescription  = "file path to leave out of the report (repeatable)"
	configFlagDescription   = "configuration file to use instead of ./" + utils.ConfigFileName
	versionFlagDescription  = "display application version"
	globalFlagDescription   = "write the configuration under the home directory"
	forceFlagDescription    = "overwrite an existing configuration file"
	successMessageFormat    = "Successfully scanned '%s' and saved structure and content to '%s'"
	initMessageFormat       = "Wrote configuration to %s"
	directoriesLogField     = "directories"
	filesLogField           = "files"
	unreadableFilesLogField = "unreadable"
)

// Execute runs the treedump application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// dumpOptions stores the flags of the root command.
type dumpOptions struct {
	output      string
	exclude     []string
	configPath  string
	showVersion bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	var options dumpOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return runDump(command, arguments, options, logger)
		},
	}
	rootCommand.Flags().StringVarP(&options.output, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	rootCommand.Flags().StringArrayVarP(&options.exclude, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	rootCommand.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(logger))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runDump resolves configuration, checks the scan root and writes the report.
func runDump(command *cobra.Command, arguments []string, options dumpOptions, logger *zap.Logger) error {
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if loadError != nil {
		return loadError
	}
	configuration = configuration.Merge(flagConfiguration(command, arguments, options))

	scanRoot, validationError := dump.ValidateScanRoot(configuration.Root)
	if validationError != nil {
		return validationError
	}

	summary, dumpError := dump.Run(dump.Options{
		Root:    scanRoot.AbsolutePath,
		Output:  configuration.Output,
		Exclude: configuration.Exclude,
		Logger:  logger,
	})
	if dumpError != nil {
		return dumpError
	}

	logger.Info(
		fmt.Sprintf(successMessageFormat, scanRoot.AbsolutePath, configuration.Output),
		zap.Int(directoriesLogField, summary.Directories),
		zap.Int(filesLogField, summary.Files),
		zap.Int(unreadableFilesLogField, summary.UnreadableFiles),
	)
	return nil
}

// flagConfiguration turns explicitly provided arguments and flags into a
// configuration overlay; flags left at their defaults stay empty.
func flagConfiguration(command *cobra.Command, arguments []string, options dumpOptions) config.ApplicationConfiguration {
	var overlay config.ApplicationConfiguration
	if len(arguments) > 0 {
		overlay.Root = arguments[0]
	}
	if command.Flags().Changed(outputFlagName) {
		overlay.Output = options.output
	}
	if command.Flags().Changed(excludeFlagName) {
		overlay.Exclude = options.exclude
	}
	return overlay
}

// createInitCommand returns the init subcommand.
func createInitCommand(logger *zap.Logger) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			logger.Info(fmt.Sprintf(initMessageFormat, writtenPath))
			return nil
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

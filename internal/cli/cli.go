// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"

	"github.com/wangqin0/coby/internal/commands"
	"github.com/wangqin0/coby/internal/config"
	"github.com/wangqin0/coby/internal/services/clipboard"
	"github.com/wangqin0/coby/internal/services/notify"
	"github.com/wangqin0/coby/internal/types"
	"github.com/wangqin0/coby/internal/utils"
)

const (
	exclusionFlagName      = "exclude"
	exclusionFlagShorthand = "e"
	printFlagName          = "print"
	noIgnoreFlagName       = "no-ignore"
	configFlagName         = "config"
	verboseFlagName        = "verbose"
	globalFlagName         = "global"
	forceFlagName          = "force"
	versionTemplate        = "coby version: {{.Version}}\n"
	defaultPath            = "."

	rootUse              = "coby"
	rootShortDescription = "copy a file or directory tree as text"
	rootLongDescription  = `coby flattens a file or directory into a directory tree followed by the
contents of every text file, and places the result on the clipboard.
Binary files, lock files and common build and dependency directories are left out.`

	copyUse              = types.CommandCopy + " [target]"
	copyAlias            = "c"
	copyShortDescription = "copy one file or directory (" + copyAlias + ")"
	copyLongDescription  = `Render the target directory tree and file contents and copy them to the clipboard.
The target defaults to the current directory.`
	copyUsageExample = `  # Copy the current project
  coby copy

  # Copy a package, leaving out fixtures, and print instead of copying
  coby copy ./internal -e fixtures --print`

	copyAllUse              = types.CommandCopyAll + " [roots...]"
	copyAllAlias            = "ca"
	copyAllShortDescription = "copy every workspace root (" + copyAllAlias + ")"
	copyAllLongDescription  = `Render every workspace root under its own heading and copy the result.
Roots come from the arguments, or from the roots list of the configuration file.`
	copyAllUsageExample = `  # Copy two sibling projects
  coby copy-all ../api ../web`

	configUse                  = "config"
	configShortDescription     = "manage configuration files"
	configInitUse              = "init"
	configInitShortDescription = "write the default configuration file"

	exclusionFlagDescription = "exclude entries matching the pattern (repeatable)"
	printFlagDescription     = "print the document to stdout instead of copying it"
	noIgnoreFlagDescription  = "do not read " + utils.IgnoreFileName + " files"
	configFlagDescription    = "path to a configuration file used instead of " + utils.ConfigFileName
	verboseFlagDescription   = "log skipped entries and other details"
	globalFlagDescription    = "write the configuration under the home directory"
	forceFlagDescription     = "overwrite an existing configuration file"

	copiedFormat             = "Copied %s content to clipboard! (%s)"
	printedFormat            = "Printed %s content to stdout. (%s)"
	copiedAllMessage         = "Copied all workspace folders content to clipboard!"
	printedAllMessage        = "Printed all workspace folders content to stdout."
	summarySuffixFormat      = "%s (%s)"
	skippedBinaryTypeFormat  = `Skipped "%s" as it's a binary file type (%s).`
	skippedUnreadableFormat  = `Skipped "%s" as it appears to be a binary or unreadable file.`
	copyFailedFormat         = "Failed to copy content: %s"
	initFailedFormat         = "Failed to initialize configuration: %s"
	configurationWrittenFmt  = "Configuration written to %s"
	progressTitle            = "Copying workspace content..."
	targetKindDirectory      = "directory"
	targetKindFile           = "file"
	workingDirectoryErrorFmt = "unable to determine working directory: %w"
)

// Dependencies are the collaborators used by the commands. Zero values select the
// operating system filesystem, the system clipboard, stdout/stderr and a logger built
// from the --verbose flag.
type Dependencies struct {
	FileSystem       afero.Fs
	Clipboard        clipboard.Copier
	Stdout           io.Writer
	Stderr           io.Writer
	WorkingDirectory string
	HomeDirectory    string
	Logger           *zap.Logger
}

// ReportedError wraps a failure that was already shown to the user.
type ReportedError struct {
	Err error
}

func (reported *ReportedError) Error() string {
	return reported.Err.Error()
}

func (reported *ReportedError) Unwrap() error {
	return reported.Err
}

// Execute runs the coby application with the process arguments.
func Execute(ctx context.Context) error {
	return Run(ctx, Dependencies{}, os.Args[1:])
}

// Run executes the command line described by arguments.
func Run(ctx context.Context, dependencies Dependencies, arguments []string) error {
	rootCommand := NewRootCommand(dependencies)
	rootCommand.SetArgs(joinToggleArguments(rootCommand, arguments))
	return rootCommand.ExecuteContext(ctx)
}

type application struct {
	dependencies Dependencies
	configPath   string
	verbose      bool
	logger       *zap.Logger
	notifier     notify.Notifier
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = afero.NewOsFs()
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	app := &application{dependencies: dependencies}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Version:       utils.GetApplicationVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return app.initialize()
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)
	rootCommand.PersistentFlags().StringVar(&app.configPath, configFlagName, "", configFlagDescription)
	registerToggleFlag(rootCommand.PersistentFlags(), &app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.AddCommand(
		app.createCopyCommand(),
		app.createCopyAllCommand(),
		app.createConfigCommand(),
	)
	return rootCommand
}

func (app *application) initialize() error {
	logger := app.dependencies.Logger
	if logger == nil {
		createdLogger, loggerError := utils.NewApplicationLogger(app.verbose)
		if loggerError != nil {
			return errors.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
		}
		logger = createdLogger
	}
	app.logger = logger
	app.notifier = notify.NewConsole(app.dependencies.Stderr, logger)
	return nil
}

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	printDocument     bool
	disableIgnoreFile bool
}

// addPathFlags registers path-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagShorthand, nil, exclusionFlagDescription)
	registerToggleFlag(command.Flags(), &options.printDocument, printFlagName, false, printFlagDescription)
	registerToggleFlag(command.Flags(), &options.disableIgnoreFile, noIgnoreFlagName, false, noIgnoreFlagDescription)
}

func (app *application) createCopyCommand() *cobra.Command {
	var options pathOptions
	copyCommand := &cobra.Command{
		Use:     copyUse,
		Aliases: []string{copyAlias},
		Short:   copyShortDescription,
		Long:    copyLongDescription,
		Example: copyUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			target := defaultPath
			if len(arguments) == 1 {
				target = arguments[0]
			}
			return app.runCopy(command.Context(), target, options)
		},
	}
	addPathFlags(copyCommand, &options)
	return copyCommand
}

func (app *application) createCopyAllCommand() *cobra.Command {
	var options pathOptions
	copyAllCommand := &cobra.Command{
		Use:     copyAllUse,
		Aliases: []string{copyAllAlias},
		Short:   copyAllShortDescription,
		Long:    copyAllLongDescription,
		Example: copyAllUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runCopyAll(command.Context(), arguments, options)
		},
	}
	addPathFlags(copyAllCommand, &options)
	return copyAllCommand
}

func (app *application) createConfigCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runConfigInit(global, force)
		},
	}
	registerToggleFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)

	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(initCommand)
	return configCommand
}

func (app *application) runCopy(ctx context.Context, target string, options pathOptions) error {
	workingDirectory, workingDirectoryError := app.workingDirectory()
	if workingDirectoryError != nil {
		return app.fail(copyFailedFormat, workingDirectoryError)
	}
	configuration, configurationError := app.loadConfiguration(workingDirectory)
	if configurationError != nil {
		return app.fail(copyFailedFormat, configurationError)
	}
	targetPath := resolvePath(workingDirectory, target)
	rules, rulesError := app.buildRules(configuration, []string{targetPath}, options)
	if rulesError != nil {
		return app.fail(copyFailedFormat, rulesError)
	}

	aggregator := commands.NewAggregator(app.dependencies.FileSystem, rules, app.logger)
	document, buildError := aggregator.BuildSingle(ctx, targetPath)
	if buildError != nil {
		var skipped *types.SkippedTargetError
		if errors.As(buildError, &skipped) {
			app.notifier.Warn(skippedMessage(skipped))
			return nil
		}
		return app.fail(copyFailedFormat, buildError)
	}

	copier, printed := app.selectCopier(configuration, options)
	if copyError := copier.Copy(document.Text); copyError != nil {
		return app.fail(copyFailedFormat, copyError)
	}
	kind := targetKindFile
	if document.IsDirectory {
		kind = targetKindDirectory
	}
	format := copiedFormat
	if printed {
		format = printedFormat
	}
	app.notifier.Info(fmt.Sprintf(format, kind, describeDocument(document)))
	return nil
}

func (app *application) runCopyAll(ctx context.Context, arguments []string, options pathOptions) error {
	workingDirectory, workingDirectoryError := app.workingDirectory()
	if workingDirectoryError != nil {
		return app.fail(copyFailedFormat, workingDirectoryError)
	}
	configuration, configurationError := app.loadConfiguration(workingDirectory)
	if configurationError != nil {
		return app.fail(copyFailedFormat, configurationError)
	}
	rootArguments := arguments
	if len(rootArguments) == 0 {
		rootArguments = configuration.Roots
	}
	roots := resolveRoots(workingDirectory, rootArguments)
	rootPaths := make([]string, 0, len(roots))
	for _, root := range roots {
		rootPaths = append(rootPaths, root.Path)
	}
	rules, rulesError := app.buildRules(configuration, rootPaths, options)
	if rulesError != nil {
		return app.fail(copyFailedFormat, rulesError)
	}

	progress := notify.NewProgress(app.dependencies.Stderr, app.logger)
	progress.Start(progressTitle)
	aggregator := commands.NewAggregator(app.dependencies.FileSystem, rules, app.logger)
	document, buildError := aggregator.BuildAll(ctx, roots, progress)
	progress.Done()
	if buildError != nil {
		return app.fail(copyFailedFormat, buildError)
	}

	copier, printed := app.selectCopier(configuration, options)
	if copyError := copier.Copy(document.Text); copyError != nil {
		return app.fail(copyFailedFormat, copyError)
	}
	message := copiedAllMessage
	if printed {
		message = printedAllMessage
	}
	app.notifier.Info(fmt.Sprintf(summarySuffixFormat, message, describeDocument(document)))
	return nil
}

func (app *application) runConfigInit(global bool, force bool) error {
	workingDirectory, workingDirectoryError := app.workingDirectory()
	if workingDirectoryError != nil {
		return app.fail(initFailedFormat, workingDirectoryError)
	}
	target := config.InitTargetLocal
	if global {
		target = config.InitTargetGlobal
	}
	writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
		Target:           target,
		Force:            force,
		WorkingDirectory: workingDirectory,
		HomeDirectory:    app.dependencies.HomeDirectory,
		FileSystem:       app.dependencies.FileSystem,
	})
	if initError != nil {
		return app.fail(initFailedFormat, initError)
	}
	app.notifier.Info(fmt.Sprintf(configurationWrittenFmt, writtenPath))
	return nil
}

// fail shows the error to the user unless the command was interrupted.
func (app *application) fail(format string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	app.notifier.Error(fmt.Sprintf(format, err.Error()))
	return &ReportedError{Err: err}
}

func (app *application) workingDirectory() (string, error) {
	if app.dependencies.WorkingDirectory != "" {
		return app.dependencies.WorkingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", errors.Errorf(workingDirectoryErrorFmt, err)
	}
	return workingDirectory, nil
}

func (app *application) loadConfiguration(workingDirectory string) (config.ApplicationConfiguration, error) {
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		HomeDirectory:    app.dependencies.HomeDirectory,
		ExplicitFilePath: app.configPath,
		FileSystem:       app.dependencies.FileSystem,
	})
}

// buildRules combines configured, ignore file and flag patterns, in that order, after the defaults.
func (app *application) buildRules(configuration config.ApplicationConfiguration, rootPaths []string, options pathOptions) (utils.RuleSet, error) {
	var ignoreFilePatterns []string
	if configuration.IgnoreFileEnabled() && !options.disableIgnoreFile {
		loadedPatterns, loadError := config.LoadRootIgnorePatterns(app.dependencies.FileSystem, rootPaths)
		if loadError != nil {
			return utils.RuleSet{}, loadError
		}
		ignoreFilePatterns = loadedPatterns
	}
	return utils.NewRuleSet(configuration.Exclude, ignoreFilePatterns, options.exclusionPatterns), nil
}

func (app *application) selectCopier(configuration config.ApplicationConfiguration, options pathOptions) (clipboard.Copier, bool) {
	if options.printDocument || !configuration.ClipboardEnabled() {
		return clipboard.NewWriterCopier(app.dependencies.Stdout), true
	}
	return app.dependencies.Clipboard, false
}

func resolvePath(workingDirectory string, inputPath string) string {
	if filepath.IsAbs(inputPath) {
		return filepath.Clean(inputPath)
	}
	return filepath.Join(workingDirectory, inputPath)
}

// resolveRoots converts root arguments to absolute paths, dropping repeats.
func resolveRoots(workingDirectory string, inputs []string) []types.Root {
	seen := make(map[string]struct{}, len(inputs))
	roots := make([]types.Root, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		rootPath := resolvePath(workingDirectory, input)
		if _, repeated := seen[rootPath]; repeated {
			continue
		}
		seen[rootPath] = struct{}{}
		roots = append(roots, types.Root{Name: filepath.Base(rootPath), Path: rootPath})
	}
	return roots
}

func skippedMessage(skipped *types.SkippedTargetError) string {
	if skipped.Classification == types.BinaryByExtension {
		return fmt.Sprintf(skippedBinaryTypeFormat, skipped.Name, strings.ToLower(filepath.Ext(skipped.Name)))
	}
	return fmt.Sprintf(skippedUnreadableFormat, skipped.Name)
}

func describeDocument(document commands.Document) string {
	return utils.DescribeTotals(document.Files, document.Bytes, len(document.Issues))
}

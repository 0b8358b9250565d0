package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/langburd/reposync/internal/execshell"
	"github.com/langburd/reposync/internal/gitrepo"
	"github.com/langburd/reposync/internal/listing"
	"github.com/langburd/reposync/internal/listing/githubsource"
	"github.com/langburd/reposync/internal/listing/gitlabsource"
	"github.com/langburd/reposync/internal/platformauth"
	"github.com/langburd/reposync/internal/ui"
	"github.com/langburd/reposync/internal/utils"
	"github.com/langburd/reposync/internal/utils/flags"
	pathutils "github.com/langburd/reposync/internal/utils/path"
)

const (
	commandUseConstant              = "sync"
	commandShortDescriptionConstant = "Clone or update every repository in a namespace"
	commandLongDescriptionConstant  = "sync enumerates the repositories owned by a hosting platform namespace and clones missing repositories or updates existing clones in parallel."

	providerFlagNameConstant              = "provider"
	providerFlagDescriptionConstant       = "Hosting platform that owns the namespace."
	serverURLFlagNameConstant             = "server-url"
	serverURLFlagDescriptionConstant      = "Base URL of the hosting platform API"
	namespaceFlagNameConstant             = "namespace"
	namespaceFlagDescriptionConstant      = "Group, organization, or user whose repositories are synchronized (empty lists all accessible projects)"
	cloneDirectoryFlagNameConstant        = "clone-directory"
	cloneDirectoryFlagDescriptionConstant = "Directory repositories are cloned under"
	cloneProtocolFlagNameConstant         = "clone-protocol"
	cloneProtocolFlagDescriptionConstant  = "Protocol used for clone URLs."
	maxWorkersFlagNameConstant            = "max-workers"
	maxWorkersFlagDescriptionConstant     = "Number of repositories synchronized concurrently"
	pageSizeFlagNameConstant              = "page-size"
	pageSizeFlagDescriptionConstant       = "Repositories requested per listing API page"

	gitlabTokenMissingMessageConstant      = "gitlab token not found; set GITLAB_TOKEN or REPOSYNC_TOKEN"
	githubTokenMissingMessageConstant      = "github token not found; set GH_TOKEN, GITHUB_TOKEN, or GITHUB_API_TOKEN"
	githubNamespaceRequiredMessageConstant = "github synchronization requires a namespace"
	authenticationFailedTemplateConstant   = "authentication failed: %w"
	listingFailedTemplateConstant          = "repository listing failed: %w"

	configurationFileLogMessageConstant = "using configuration file"
	logFieldConfigurationFileConstant   = "config_file"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the sync command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	RepositoryLister             RepositoryLister
	RepositoryManager            RepositoryManager
	FileSystem                   FileSystem
	Environment                  map[string]string
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(providerFlagNameConstant, defaults.Provider,
		flags.FormatChoiceUsage(defaults.Provider, []string{ProviderGitLab, ProviderGitHub}, providerFlagDescriptionConstant))
	command.Flags().String(serverURLFlagNameConstant, defaults.ServerURL, serverURLFlagDescriptionConstant)
	command.Flags().String(namespaceFlagNameConstant, defaults.Namespace, namespaceFlagDescriptionConstant)
	command.Flags().String(cloneDirectoryFlagNameConstant, defaults.CloneDirectory, cloneDirectoryFlagDescriptionConstant)
	command.Flags().String(cloneProtocolFlagNameConstant, defaults.CloneProtocol,
		flags.FormatChoiceUsage(defaults.CloneProtocol, []string{CloneProtocolSSH, CloneProtocolHTTPS}, cloneProtocolFlagDescriptionConstant))
	command.Flags().Int(maxWorkersFlagNameConstant, defaults.MaxWorkers, maxWorkersFlagDescriptionConstant)
	command.Flags().Int(pageSizeFlagNameConstant, defaults.PageSize, pageSizeFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFilePath, configurationFileAvailable := contextAccessor.ConfigurationFilePath(command.Context()); configurationFileAvailable {
		logger.Debug(configurationFileLogMessageConstant, zap.String(logFieldConfigurationFileConstant, configurationFilePath))
	}

	lister, listerError := builder.resolveLister(command.Context(), logger, configuration)
	if listerError != nil {
		return listerError
	}

	descriptors, listError := lister.ListRepositories(command.Context(), configuration.Namespace, configuration.PageSize)
	if listError != nil {
		if errors.Is(listError, listing.ErrNamespaceNotFound) {
			return listError
		}
		return fmt.Errorf(listingFailedTemplateConstant, listError)
	}

	repositoryManager, managerError := builder.resolveRepositoryManager(logger, humanReadableLogging)
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		FileSystem:        builder.resolveFileSystem(),
	})
	if serviceError != nil {
		return serviceError
	}

	progressReporter := ui.NewProgressReporter(utils.NewFlushingWriter(command.OutOrStdout()), len(descriptors))
	coordinator, coordinatorError := NewCoordinator(logger, service, progressReporter)
	if coordinatorError != nil {
		return coordinatorError
	}

	outcomes := coordinator.SyncAll(command.Context(), descriptors, configuration)

	Summarize(outcomes).Render(command.OutOrStdout())

	// Individual repository failures are reported, not fatal.
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(providerFlagNameConstant) {
		configuration.Provider, _ = flagSet.GetString(providerFlagNameConstant)
	}
	if flagSet.Changed(serverURLFlagNameConstant) {
		configuration.ServerURL, _ = flagSet.GetString(serverURLFlagNameConstant)
	}
	if flagSet.Changed(namespaceFlagNameConstant) {
		configuration.Namespace, _ = flagSet.GetString(namespaceFlagNameConstant)
	}
	if flagSet.Changed(cloneDirectoryFlagNameConstant) {
		configuration.CloneDirectory, _ = flagSet.GetString(cloneDirectoryFlagNameConstant)
	}
	if flagSet.Changed(cloneProtocolFlagNameConstant) {
		configuration.CloneProtocol, _ = flagSet.GetString(cloneProtocolFlagNameConstant)
	}
	if flagSet.Changed(maxWorkersFlagNameConstant) {
		configuration.MaxWorkers, _ = flagSet.GetInt(maxWorkersFlagNameConstant)
	}
	if flagSet.Changed(pageSizeFlagNameConstant) {
		configuration.PageSize, _ = flagSet.GetInt(pageSizeFlagNameConstant)
	}

	configuration = configuration.Sanitize()
	configuration.CloneDirectory = pathutils.NewHomeExpander().Expand(configuration.CloneDirectory)

	if validationError := configuration.Validate(); validationError != nil {
		return CommandConfiguration{}, validationError
	}
	if configuration.Provider == ProviderGitHub && len(configuration.Namespace) == 0 {
		return CommandConfiguration{}, errors.New(githubNamespaceRequiredMessageConstant)
	}

	return configuration, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveLister(executionContext context.Context, logger *zap.Logger, configuration CommandConfiguration) (RepositoryLister, error) {
	if builder.RepositoryLister != nil {
		return builder.RepositoryLister, nil
	}

	switch configuration.Provider {
	case ProviderGitHub:
		token, tokenFound := platformauth.ResolveGitHubToken(builder.Environment)
		if !tokenFound {
			return nil, errors.New(githubTokenMissingMessageConstant)
		}
		source := githubsource.New(token)
		if authenticationError := source.VerifyAuthentication(executionContext); authenticationError != nil {
			return nil, fmt.Errorf(authenticationFailedTemplateConstant, authenticationError)
		}
		return listing.NewService(logger, source)

	default:
		token, tokenFound := platformauth.ResolveGitLabToken(builder.Environment)
		if !tokenFound {
			return nil, errors.New(gitlabTokenMissingMessageConstant)
		}
		source, sourceError := gitlabsource.New(configuration.ServerURL, token)
		if sourceError != nil {
			return nil, sourceError
		}
		if authenticationError := source.VerifyAuthentication(executionContext); authenticationError != nil {
			return nil, fmt.Errorf(authenticationFailedTemplateConstant, authenticationError)
		}
		return listing.NewService(logger, source)
	}
}

func (builder *CommandBuilder) resolveRepositoryManager(logger *zap.Logger, humanReadableLogging bool) (RepositoryManager, error) {
	if builder.RepositoryManager != nil {
		return builder.RepositoryManager, nil
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	if humanReadableLogging {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	return gitrepo.NewRepositoryManager(shellExecutor)
}

func (builder *CommandBuilder) resolveFileSystem() FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return OSFileSystem{}
}

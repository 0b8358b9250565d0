package mirror

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/langburd/reposync/internal/gitrepo"
	"github.com/langburd/reposync/internal/listing"
	"github.com/langburd/reposync/internal/repopath"
)

const (
	directoryPermissionsConstant = 0o755

	loggerNotConfiguredMessageConstant            = "logger not configured"
	repositoryManagerNotConfiguredMessageConstant = "repository manager not configured"
	fileSystemNotConfiguredMessageConstant        = "file system not configured"

	convertCloneURLStageNameConstant        = "convert clone url"
	createParentDirectoryStageNameConstant  = "create parent directory"
	inspectTargetDirectoryStageNameConstant = "inspect target directory"
	cloneStageNameConstant                  = "clone"
	initializeStageNameConstant             = "initialize empty repository"
	registerRemoteStageNameConstant         = "register origin remote"
	checkoutStageNameConstant               = "checkout"
	pullStageNameConstant                   = "pull"
	branchResolutionStageNameConstant       = "resolve default branch"

	branchResolutionFailedMessageConstant = "no default branch candidate could be checked out"
	stageFailureTemplateConstant          = "%s: %s"
	stageTimeoutTemplateConstant          = "%s timed out"

	cloningLogMessageConstant              = "cloning repository"
	updatingLogMessageConstant             = "updating repository"
	emptyRemoteLogMessageConstant          = "empty remote repository initialized locally"
	emptyLocalLogMessageConstant           = "repository has no remote branches, nothing to update"
	defaultBranchUnresolvedMessageConstant = "cloned repository has no resolvable default branch"
	syncFailedLogMessageConstant           = "repository synchronization failed"
	logFieldRepositoryConstant             = "repository"
	logFieldRepositoryPathConstant         = "path"
	logFieldBranchConstant                 = "branch"
	logFieldReasonConstant                 = "reason"
)

// defaultBranchProbeOrder lists branch names probed when the remote HEAD reference is unavailable.
var defaultBranchProbeOrder = []string{"main", "master", "develop"}

// ErrLoggerNotConfigured indicates the service was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the service was constructed without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerNotConfiguredMessageConstant)

// ErrFileSystemNotConfigured indicates the service was constructed without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)

// SyncOutcome reports the result of synchronizing one repository.
type SyncOutcome struct {
	Repository   string
	Succeeded    bool
	ErrorMessage string
}

// ServiceDependencies bundles the collaborators required by the sync service.
type ServiceDependencies struct {
	Logger            *zap.Logger
	RepositoryManager RepositoryManager
	FileSystem        FileSystem
}

// Service synchronizes one repository descriptor with the local filesystem.
type Service struct {
	logger            *zap.Logger
	repositoryManager RepositoryManager
	fileSystem        FileSystem
}

// NewService constructs a sync service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Service{
		logger:            dependencies.Logger,
		repositoryManager: dependencies.RepositoryManager,
		fileSystem:        dependencies.FileSystem,
	}, nil
}

// SyncRepository clones the repository when absent and updates it when
// present. Every failure is converted into an unsuccessful outcome so one
// repository can never abort the remaining work.
func (service *Service) SyncRepository(executionContext context.Context, descriptor listing.RepositoryDescriptor, configuration CommandConfiguration) SyncOutcome {
	repositoryLabel := descriptor.Label()

	cloneURL, conversionError := resolveCloneURL(descriptor.CloneURL, configuration.CloneProtocol)
	if conversionError != nil {
		return service.failureOutcome(repositoryLabel, convertCloneURLStageNameConstant, conversionError)
	}

	relativePath := repopath.MapToLocalPath(configuration.Namespace, descriptor.NamespacePath, descriptor.Slug)
	repositoryPath := filepath.Join(configuration.CloneDirectory, relativePath)

	if directoryError := service.fileSystem.MakeDirectoryAll(filepath.Dir(repositoryPath), directoryPermissionsConstant); directoryError != nil {
		return service.failureOutcome(repositoryLabel, createParentDirectoryStageNameConstant, directoryError)
	}

	repositoryPresent, inspectionError := service.fileSystem.DirectoryExists(repositoryPath)
	if inspectionError != nil {
		return service.failureOutcome(repositoryLabel, inspectTargetDirectoryStageNameConstant, inspectionError)
	}

	if repositoryPresent {
		return service.updateRepository(executionContext, descriptor, repositoryLabel, repositoryPath, configuration)
	}
	return service.cloneRepository(executionContext, descriptor, repositoryLabel, repositoryPath, cloneURL, configuration)
}

func (service *Service) cloneRepository(executionContext context.Context, descriptor listing.RepositoryDescriptor, repositoryLabel string, repositoryPath string, cloneURL string, configuration CommandConfiguration) SyncOutcome {
	service.logger.Info(
		cloningLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryLabel),
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
	)

	cloneContext, cancelClone := context.WithTimeout(executionContext, configuration.CloneTimeout())
	cloneError := service.repositoryManager.CloneRepository(cloneContext, cloneURL, repositoryPath)
	cancelClone()

	if cloneError == nil {
		branchName, branchResolved := service.resolveDefaultBranch(executionContext, descriptor, repositoryPath, configuration)
		if !branchResolved {
			service.logger.Warn(
				defaultBranchUnresolvedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryLabel),
			)
		} else {
			service.logger.Debug(
				updatingLogMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryLabel),
				zap.String(logFieldBranchConstant, branchName),
			)
		}
		return SyncOutcome{Repository: repositoryLabel, Succeeded: true}
	}

	if errors.Is(cloneError, gitrepo.ErrRemoteRepositoryEmpty) {
		return service.materializeEmptyRepository(executionContext, repositoryLabel, repositoryPath, cloneURL, configuration)
	}

	return service.failureOutcome(repositoryLabel, cloneStageNameConstant, cloneError)
}

// materializeEmptyRepository turns a zero-commit remote into an initialized
// local repository with a registered origin remote, matching what a clone of
// a non-empty repository would have produced.
func (service *Service) materializeEmptyRepository(executionContext context.Context, repositoryLabel string, repositoryPath string, cloneURL string, configuration CommandConfiguration) SyncOutcome {
	if directoryError := service.fileSystem.MakeDirectoryAll(repositoryPath, directoryPermissionsConstant); directoryError != nil {
		return service.failureOutcome(repositoryLabel, initializeStageNameConstant, directoryError)
	}

	initializeContext, cancelInitialize := context.WithTimeout(executionContext, configuration.CommandTimeout())
	initializeError := service.repositoryManager.InitializeRepository(initializeContext, repositoryPath)
	cancelInitialize()
	if initializeError != nil {
		return service.failureOutcome(repositoryLabel, initializeStageNameConstant, initializeError)
	}

	remoteContext, cancelRemote := context.WithTimeout(executionContext, configuration.CommandTimeout())
	remoteError := service.repositoryManager.AddOriginRemote(remoteContext, repositoryPath, cloneURL)
	cancelRemote()
	if remoteError != nil {
		return service.failureOutcome(repositoryLabel, registerRemoteStageNameConstant, remoteError)
	}

	service.logger.Info(
		emptyRemoteLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryLabel),
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
	)
	return SyncOutcome{Repository: repositoryLabel, Succeeded: true}
}

func (service *Service) updateRepository(executionContext context.Context, descriptor listing.RepositoryDescriptor, repositoryLabel string, repositoryPath string, configuration CommandConfiguration) SyncOutcome {
	service.logger.Info(
		updatingLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryLabel),
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
	)

	branchName, branchResolved := service.resolveDefaultBranch(executionContext, descriptor, repositoryPath, configuration)
	if branchResolved {
		checkoutContext, cancelCheckout := context.WithTimeout(executionContext, configuration.CommandTimeout())
		checkoutError := service.repositoryManager.CheckoutBranch(checkoutContext, repositoryPath, branchName)
		cancelCheckout()
		if checkoutError != nil {
			return service.failureOutcome(repositoryLabel, checkoutStageNameConstant, checkoutError)
		}

		pullContext, cancelPull := context.WithTimeout(executionContext, configuration.PullTimeout())
		pullError := service.repositoryManager.PullCurrentBranch(pullContext, repositoryPath)
		cancelPull()
		if pullError != nil {
			return service.failureOutcome(repositoryLabel, pullStageNameConstant, pullError)
		}

		return SyncOutcome{Repository: repositoryLabel, Succeeded: true}
	}

	branchesContext, cancelBranches := context.WithTimeout(executionContext, configuration.CommandTimeout())
	remoteBranches, branchesError := service.repositoryManager.ListRemoteBranches(branchesContext, repositoryPath)
	cancelBranches()
	if branchesError != nil {
		return service.failureOutcome(repositoryLabel, branchResolutionStageNameConstant, branchesError)
	}

	if len(remoteBranches) == 0 {
		service.logger.Info(
			emptyLocalLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryLabel),
		)
		return SyncOutcome{Repository: repositoryLabel, Succeeded: true}
	}

	return service.failureOutcome(repositoryLabel, branchResolutionStageNameConstant, errors.New(branchResolutionFailedMessageConstant))
}

// resolveDefaultBranch prefers the remote HEAD reference and falls back to
// checking out the branch the platform advertised, then a fixed list of
// common branch names.
func (service *Service) resolveDefaultBranch(executionContext context.Context, descriptor listing.RepositoryDescriptor, repositoryPath string, configuration CommandConfiguration) (string, bool) {
	headContext, cancelHead := context.WithTimeout(executionContext, configuration.CommandTimeout())
	branchName, headError := service.repositoryManager.ResolveRemoteHeadBranch(headContext, repositoryPath)
	cancelHead()
	if headError == nil {
		return branchName, true
	}

	for _, candidateBranch := range branchProbeCandidates(descriptor.DefaultBranch) {
		checkoutContext, cancelCheckout := context.WithTimeout(executionContext, configuration.CommandTimeout())
		checkoutError := service.repositoryManager.CheckoutBranch(checkoutContext, repositoryPath, candidateBranch)
		cancelCheckout()
		if checkoutError == nil {
			return candidateBranch, true
		}
	}

	return "", false
}

func (service *Service) failureOutcome(repositoryLabel string, stageName string, failure error) SyncOutcome {
	failureReason := fmt.Sprintf(stageFailureTemplateConstant, stageName, failure)
	if errors.Is(failure, context.DeadlineExceeded) {
		failureReason = fmt.Sprintf(stageTimeoutTemplateConstant, stageName)
	}

	service.logger.Warn(
		syncFailedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryLabel),
		zap.String(logFieldReasonConstant, failureReason),
	)

	return SyncOutcome{Repository: repositoryLabel, ErrorMessage: failureReason}
}

func resolveCloneURL(advertisedCloneURL string, cloneProtocol string) (string, error) {
	targetProtocol := gitrepo.RemoteProtocolSSH
	if cloneProtocol == CloneProtocolHTTPS {
		targetProtocol = gitrepo.RemoteProtocolHTTPS
	}
	return gitrepo.ConvertRemoteProtocol(advertisedCloneURL, targetProtocol)
}

func branchProbeCandidates(advertisedDefaultBranch string) []string {
	candidates := make([]string, 0, len(defaultBranchProbeOrder)+1)
	if len(advertisedDefaultBranch) > 0 {
		candidates = append(candidates, advertisedDefaultBranch)
	}
	for _, candidateBranch := range defaultBranchProbeOrder {
		if candidateBranch == advertisedDefaultBranch {
			continue
		}
		candidates = append(candidates, candidateBranch)
	}
	return candidates
}

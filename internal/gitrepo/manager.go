package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/langburd/reposync/internal/execshell"
)

const (
	cloneSubcommandConstant              = "clone"
	checkoutSubcommandConstant           = "checkout"
	pullSubcommandConstant               = "pull"
	branchSubcommandConstant             = "branch"
	remoteBranchesFlagConstant           = "-r"
	symbolicRefSubcommandConstant        = "symbolic-ref"
	remoteHeadReferenceConstant          = "refs/remotes/origin/HEAD"
	initSubcommandConstant               = "init"
	remoteSubcommandConstant             = "remote"
	remoteAddActionConstant              = "add"
	originRemoteNameConstant             = "origin"
	referenceSegmentSeparatorConstant    = "/"
	branchPointerMarkerConstant          = "->"
	terminalPromptEnvironmentKeyConstant = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant  = "0"
	executorNotConfiguredMessageConstant = "git executor not configured"
	emptyRemoteRepositoryMessageConstant = "remote repository is empty"
	headResolutionFailedMessageConstant  = "remote HEAD reference could not be resolved"
	requiredValueMessageConstant         = "value required"
)

// Standard error fragments git emits when a clone target has no commits or no usable remote content.
var emptyRemoteStandardErrorIndicators = []string{
	"You appear to have cloned an empty repository",
	"does not appear to be a git repository",
}

// ErrExecutorNotConfigured indicates the manager was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrRemoteRepositoryEmpty indicates a clone target advertises no commits.
var ErrRemoteRepositoryEmpty = errors.New(emptyRemoteRepositoryMessageConstant)

// ErrRemoteHeadNotResolved indicates the remote HEAD reference produced no branch name.
var ErrRemoteHeadNotResolved = errors.New(headResolutionFailedMessageConstant)

// GitExecutor abstracts git CLI execution for testability.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs git operations against local repositories through the git CLI.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager using the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CloneRepository clones remoteURL into destinationPath. It reports
// ErrRemoteRepositoryEmpty when the remote advertises no usable content so
// callers can materialize an empty local repository instead of failing.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, remoteURL string, destinationPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{cloneSubcommandConstant, remoteURL, destinationPath},
		EnvironmentVariables: promptlessEnvironment(),
	})
	if executionError == nil {
		return nil
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) && indicatesEmptyRemote(commandFailure.Result.StandardError) {
		return ErrRemoteRepositoryEmpty
	}

	return executionError
}

// ResolveRemoteHeadBranch reads the branch name the remote HEAD reference points to.
func (manager *RepositoryManager) ResolveRemoteHeadBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{symbolicRefSubcommandConstant, remoteHeadReferenceConstant},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: promptlessEnvironment(),
	})
	if executionError != nil {
		return "", executionError
	}

	trimmedReference := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedReference) == 0 {
		return "", ErrRemoteHeadNotResolved
	}

	referenceSegments := strings.Split(trimmedReference, referenceSegmentSeparatorConstant)
	branchName := referenceSegments[len(referenceSegments)-1]
	if len(branchName) == 0 {
		return "", ErrRemoteHeadNotResolved
	}

	return branchName, nil
}

// CheckoutBranch switches the repository at repositoryPath to branchName.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{checkoutSubcommandConstant, branchName},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: promptlessEnvironment(),
	})
	return executionError
}

// PullCurrentBranch pulls the currently checked out branch at repositoryPath.
func (manager *RepositoryManager) PullCurrentBranch(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{pullSubcommandConstant},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: promptlessEnvironment(),
	})
	return executionError
}

// ListRemoteBranches returns the remote tracking branch names known to the repository.
func (manager *RepositoryManager) ListRemoteBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{branchSubcommandConstant, remoteBranchesFlagConstant},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: promptlessEnvironment(),
	})
	if executionError != nil {
		return nil, executionError
	}

	branchNames := []string{}
	for _, outputLine := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if strings.Contains(trimmedLine, branchPointerMarkerConstant) {
			continue
		}
		branchNames = append(branchNames, trimmedLine)
	}

	return branchNames, nil
}

// InitializeRepository creates an empty git repository at repositoryPath.
func (manager *RepositoryManager) InitializeRepository(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{initSubcommandConstant},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: promptlessEnvironment(),
	})
	return executionError
}

// AddOriginRemote registers remoteURL as the origin remote of the repository at repositoryPath.
func (manager *RepositoryManager) AddOriginRemote(executionContext context.Context, repositoryPath string, remoteURL string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{remoteSubcommandConstant, remoteAddActionConstant, originRemoteNameConstant, remoteURL},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: promptlessEnvironment(),
	})
	return executionError
}

func promptlessEnvironment() map[string]string {
	return map[string]string{terminalPromptEnvironmentKeyConstant: terminalPromptDisabledValueConstant}
}

func indicatesEmptyRemote(standardError string) bool {
	for _, indicator := range emptyRemoteStandardErrorIndicators {
		if strings.Contains(standardError, indicator) {
			return true
		}
	}
	return false
}

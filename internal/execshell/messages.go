package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	unknownValueLabelConstant               = "unknown"
	currentDirectoryLabelConstant           = "current directory"
)

const (
	gitCloneSubcommandNameConstant       = "clone"
	gitCheckoutSubcommandNameConstant    = "checkout"
	gitPullSubcommandNameConstant        = "pull"
	gitBranchSubcommandNameConstant      = "branch"
	gitSymbolicRefSubcommandNameConstant = "symbolic-ref"
	gitInitSubcommandNameConstant        = "init"
	gitRemoteSubcommandNameConstant      = "remote"
)

const (
	gitCloneStartTemplateConstant               = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant             = "Cloned %s into %s"
	gitCloneFailureTemplateConstant             = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant    = "Unable to clone %s into %s: %s"
	gitCheckoutStartTemplateConstant            = "Switching %s to branch %s"
	gitCheckoutSuccessTemplateConstant          = "%s now on branch %s"
	gitCheckoutFailureTemplateConstant          = "Failed to switch %s to branch %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant = "Unable to switch %s to branch %s: %s"
	gitPullStartTemplateConstant                = "Pulling latest changes in %s"
	gitPullSuccessTemplateConstant              = "Pulled latest changes in %s"
	gitPullFailureTemplateConstant              = "Failed to pull latest changes in %s (exit code %d%s)"
	gitPullExecutionFailureTemplateConstant     = "Unable to pull latest changes in %s: %s"
	gitBranchStartTemplateConstant              = "Listing remote branches in %s"
	gitBranchSuccessTemplateConstant            = "Listed remote branches in %s"
	gitBranchFailureTemplateConstant            = "Failed to list remote branches in %s (exit code %d%s)"
	gitBranchExecutionFailureTemplateConstant   = "Unable to list remote branches in %s: %s"
	gitHeadStartTemplateConstant                = "Resolving remote HEAD in %s"
	gitHeadSuccessTemplateConstant              = "Resolved remote HEAD in %s"
	gitHeadFailureTemplateConstant              = "Failed to resolve remote HEAD in %s (exit code %d%s)"
	gitHeadExecutionFailureTemplateConstant     = "Unable to resolve remote HEAD in %s: %s"
	gitInitStartTemplateConstant                = "Initializing empty repository in %s"
	gitInitSuccessTemplateConstant              = "Initialized empty repository in %s"
	gitInitFailureTemplateConstant              = "Failed to initialize repository in %s (exit code %d%s)"
	gitInitExecutionFailureTemplateConstant     = "Unable to initialize repository in %s: %s"
	gitRemoteStartTemplateConstant              = "Registering remote %s in %s"
	gitRemoteSuccessTemplateConstant            = "Registered remote %s in %s"
	gitRemoteFailureTemplateConstant            = "Failed to register remote %s in %s (exit code %d%s)"
	gitRemoteExecutionFailureTemplateConstant   = "Unable to register remote %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCloneSubcommandNameConstant:
		return formatter.describeCloneMessage(command, result, failure, stage)
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeCheckoutMessage(command, result, failure, stage)
	case gitPullSubcommandNameConstant:
		return formatter.describeLocationMessage(command, result, failure, stage,
			gitPullStartTemplateConstant, gitPullSuccessTemplateConstant, gitPullFailureTemplateConstant, gitPullExecutionFailureTemplateConstant)
	case gitBranchSubcommandNameConstant:
		return formatter.describeLocationMessage(command, result, failure, stage,
			gitBranchStartTemplateConstant, gitBranchSuccessTemplateConstant, gitBranchFailureTemplateConstant, gitBranchExecutionFailureTemplateConstant)
	case gitSymbolicRefSubcommandNameConstant:
		return formatter.describeLocationMessage(command, result, failure, stage,
			gitHeadStartTemplateConstant, gitHeadSuccessTemplateConstant, gitHeadFailureTemplateConstant, gitHeadExecutionFailureTemplateConstant)
	case gitInitSubcommandNameConstant:
		return formatter.describeLocationMessage(command, result, failure, stage,
			gitInitStartTemplateConstant, gitInitSuccessTemplateConstant, gitInitFailureTemplateConstant, gitInitExecutionFailureTemplateConstant)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeRemoteMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	remoteURL := argumentAtIndex(command.Details.Arguments, 1)
	destination := argumentAtIndex(command.Details.Arguments, 2)
	if destination == unknownValueLabelConstant {
		destination = formatter.describeWorkingDirectory(command)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, remoteURL, destination)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, remoteURL, destination)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, remoteURL, destination, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, remoteURL, destination, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := argumentAtIndex(command.Details.Arguments, 1)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, branchName)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCheckoutExecutionFailureTemplateConstant, workingDirectory, branchName, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := argumentAtIndex(command.Details.Arguments, 2)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteStartTemplateConstant, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteSuccessTemplateConstant, remoteName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitRemoteExecutionFailureTemplateConstant, remoteName, workingDirectory, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeLocationMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(executionFailureTemplate, workingDirectory, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	workingDirectorySuffix := emptyStringConstant
	if len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}

	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return currentDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func argumentAtIndex(arguments []string, index int) string {
	if index >= len(arguments) {
		return unknownValueLabelConstant
	}
	trimmedArgument := strings.TrimSpace(arguments[index])
	if len(trimmedArgument) == 0 {
		return unknownValueLabelConstant
	}
	return trimmedArgument
}

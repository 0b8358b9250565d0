package execshell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	gitToolNameConstant                       = "git"
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedErrorTemplateConstant        = "%s exited with code %d%s"
	commandExecutionErrorTemplateConstant     = "%s could not be executed: %s"
	standardErrorDetailTemplateConstant       = ": %s"
	commandStartedLogMessageConstant          = "executing command"
	commandCompletedLogMessageConstant        = "command completed"
	commandFailedLogMessageConstant           = "command failed"
	logFieldCommandNameConstant               = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "standard_error"
)

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandName identifies a supported external executable.
type CommandName string

// CommandGit identifies the git binary.
const CommandGit CommandName = CommandName(gitToolNameConstant)

// CommandDetails describes a single external command invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs a command name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of an executed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the command failure including any captured standard error output.
func (failure CommandFailedError) Error() string {
	standardErrorDetail := ""
	if len(failure.Result.StandardError) > 0 {
		standardErrorDetail = fmt.Sprintf(standardErrorDetailTemplateConstant, failure.Result.StandardError)
	}
	return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode, standardErrorDetail)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs external commands while logging lifecycle events.
type ShellExecutor struct {
	logger               *zap.Logger
	commandRunner        CommandRunner
	eventObserver        CommandEventObserver
	messageFormatter     CommandMessageFormatter
	humanReadableLogging bool
}

// NewShellExecutor constructs a ShellExecutor; pass true to enable human-readable event messages.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, humanReadableLogging ...bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	humanReadable := false
	if len(humanReadableLogging) > 0 {
		humanReadable = humanReadableLogging[0]
	}

	return &ShellExecutor{
		logger:               logger,
		commandRunner:        commandRunner,
		eventObserver:        noopCommandEventObserver{},
		messageFormatter:     CommandMessageFormatter{},
		humanReadableLogging: humanReadable,
	}, nil
}

// SetCommandEventObserver registers an observer receiving command lifecycle notifications.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

func (executor *ShellExecutor) execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logCommandStarted(command)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executionFailure := CommandExecutionError{Command: command, Cause: runError}
		executor.logExecutionFailure(command, runError)
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, executionFailure
	}

	executor.logCommandCompleted(command, executionResult)
	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

func (executor *ShellExecutor) logCommandStarted(command ShellCommand) {
	if executor.humanReadableLogging {
		executor.logger.Debug(executor.messageFormatter.BuildStartedMessage(command))
		return
	}

	executor.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
}

func (executor *ShellExecutor) logCommandCompleted(command ShellCommand, result ExecutionResult) {
	if executor.humanReadableLogging {
		if result.ExitCode == 0 {
			executor.logger.Debug(executor.messageFormatter.BuildSuccessMessage(command))
		} else {
			executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, result))
		}
		return
	}

	if result.ExitCode == 0 {
		executor.logger.Debug(
			commandCompletedLogMessageConstant,
			zap.String(logFieldCommandNameConstant, string(command.Name)),
			zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		)
		return
	}

	executor.logger.Warn(
		commandFailedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, result.StandardError),
	)
}

func (executor *ShellExecutor) logExecutionFailure(command ShellCommand, failure error) {
	if executor.humanReadableLogging {
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, failure))
		return
	}

	executor.logger.Error(
		commandFailedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.Error(failure),
	)
}

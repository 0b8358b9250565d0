package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/langburd/reposync/internal/execshell"
)

const (
	testWorkingDirectoryConstant = "/tmp/workspace/service"
	testRemoteURLConstant        = "git@example.com:acme/service.git"
	testStandardOutputConstant   = "origin/main\norigin/develop\n"
	testStandardErrorConstant    = "fatal: repository not found"
)

type stubCommandRunner struct {
	result          execshell.ExecutionResult
	runError        error
	recordedCommand execshell.ShellCommand
	callCount       int
}

func (runner *stubCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.callCount++
	runner.recordedCommand = command
	return runner.result, runner.runError
}

type recordingCommandEventObserver struct {
	startedCommands   []execshell.ShellCommand
	completedCommands []execshell.ShellCommand
	completedResults  []execshell.ExecutionResult
	failedCommands    []execshell.ShellCommand
	failures          []error
}

func (observerInstance *recordingCommandEventObserver) CommandStarted(command execshell.ShellCommand) {
	observerInstance.startedCommands = append(observerInstance.startedCommands, command)
}

func (observerInstance *recordingCommandEventObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	observerInstance.completedCommands = append(observerInstance.completedCommands, command)
	observerInstance.completedResults = append(observerInstance.completedResults, result)
}

func (observerInstance *recordingCommandEventObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	observerInstance.failedCommands = append(observerInstance.failedCommands, command)
	observerInstance.failures = append(observerInstance.failures, failure)
}

func TestNewShellExecutorValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		commandRunner execshell.CommandRunner
		expectedError error
	}{
		{
			name:          "missing_logger",
			logger:        nil,
			commandRunner: &stubCommandRunner{},
			expectedError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:          "missing_command_runner",
			logger:        zap.NewNop(),
			commandRunner: nil,
			expectedError: execshell.ErrCommandRunnerNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.commandRunner)
			require.Nil(subTest, executor)
			require.ErrorIs(subTest, creationError, testCase.expectedError)
		})
	}
}

func TestExecuteGitSuccessLogsLifecycleEvents(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	commandRunner := &stubCommandRunner{result: execshell.ExecutionResult{StandardOutput: testStandardOutputConstant}}
	executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), commandRunner)
	require.NoError(testInstance, creationError)

	executionResult, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        []string{"branch", "-r"},
		WorkingDirectory: testWorkingDirectoryConstant,
	})

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, testStandardOutputConstant, executionResult.StandardOutput)
	require.Equal(testInstance, 1, commandRunner.callCount)
	require.Equal(testInstance, execshell.CommandGit, commandRunner.recordedCommand.Name)
	require.Equal(testInstance, testWorkingDirectoryConstant, commandRunner.recordedCommand.Details.WorkingDirectory)

	logEntries := observedLogs.All()
	require.Len(testInstance, logEntries, 2)
	require.Equal(testInstance, "executing command", logEntries[0].Message)
	require.Equal(testInstance, "command completed", logEntries[1].Message)
}

func TestExecuteGitNonZeroExitReturnsCommandFailedError(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	commandRunner := &stubCommandRunner{result: execshell.ExecutionResult{ExitCode: 128, StandardError: testStandardErrorConstant}}
	executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), commandRunner)
	require.NoError(testInstance, creationError)

	executionResult, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments: []string{"clone", testRemoteURLConstant, testWorkingDirectoryConstant},
	})

	var commandFailure execshell.CommandFailedError
	require.ErrorAs(testInstance, executionError, &commandFailure)
	require.Equal(testInstance, 128, commandFailure.Result.ExitCode)
	require.Contains(testInstance, commandFailure.Error(), testStandardErrorConstant)
	require.Equal(testInstance, testStandardErrorConstant, executionResult.StandardError)

	logEntries := observedLogs.FilterLevelExact(zap.WarnLevel).All()
	require.Len(testInstance, logEntries, 1)
	require.Equal(testInstance, "command failed", logEntries[0].Message)
}

func TestExecuteGitRunnerFailureReturnsCommandExecutionError(testInstance *testing.T) {
	underlyingFailure := errors.New("executable file not found in $PATH")
	commandRunner := &stubCommandRunner{runError: underlyingFailure}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"pull"}})

	var executionFailure execshell.CommandExecutionError
	require.ErrorAs(testInstance, executionError, &executionFailure)
	require.ErrorIs(testInstance, executionError, underlyingFailure)
}

func TestExecuteGitContextDeadlineIsClassifiable(testInstance *testing.T) {
	commandRunner := &stubCommandRunner{runError: context.DeadlineExceeded}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"pull"}})

	require.ErrorIs(testInstance, executionError, context.DeadlineExceeded)
}

func TestExecuteGitNotifiesCommandEventObserver(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		runnerResult            execshell.ExecutionResult
		runnerError             error
		expectedCompletedCount  int
		expectedExecutionFailed int
	}{
		{
			name:                   "completed_command_is_observed",
			runnerResult:           execshell.ExecutionResult{ExitCode: 1},
			expectedCompletedCount: 1,
		},
		{
			name:                    "execution_failure_is_observed",
			runnerError:             errors.New("fork failed"),
			expectedExecutionFailed: 1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			commandRunner := &stubCommandRunner{result: testCase.runnerResult, runError: testCase.runnerError}
			executor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
			require.NoError(subTest, creationError)

			eventObserver := &recordingCommandEventObserver{}
			executor.SetCommandEventObserver(eventObserver)

			_, _ = executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"init"}})

			require.Len(subTest, eventObserver.startedCommands, 1)
			require.Len(subTest, eventObserver.completedCommands, testCase.expectedCompletedCount)
			require.Len(subTest, eventObserver.failedCommands, testCase.expectedExecutionFailed)
		})
	}
}

func TestExecuteGitHumanReadableLoggingUsesFormattedMessages(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	commandRunner := &stubCommandRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), commandRunner, true)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments: []string{"clone", testRemoteURLConstant, testWorkingDirectoryConstant},
	})
	require.NoError(testInstance, executionError)

	logEntries := observedLogs.All()
	require.Len(testInstance, logEntries, 2)
	require.Equal(testInstance, "Cloning git@example.com:acme/service.git into /tmp/workspace/service", logEntries[0].Message)
	require.Equal(testInstance, "Cloned git@example.com:acme/service.git into /tmp/workspace/service", logEntries[1].Message)
}

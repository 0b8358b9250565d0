package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/langburd/reposync/internal/execshell"
)

func buildGitCommand(arguments []string, workingDirectory string) execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        arguments,
			WorkingDirectory: workingDirectory,
		},
	}
}

func TestCommandMessageFormatterStartedMessages(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		expectedMessage string
	}{
		{
			name:            "clone_names_remote_and_destination",
			command:         buildGitCommand([]string{"clone", "git@example.com:acme/api.git", "/srv/mirror/acme/api"}, ""),
			expectedMessage: "Cloning git@example.com:acme/api.git into /srv/mirror/acme/api",
		},
		{
			name:            "clone_without_destination_uses_working_directory",
			command:         buildGitCommand([]string{"clone", "git@example.com:acme/api.git"}, "/srv/mirror/acme"),
			expectedMessage: "Cloning git@example.com:acme/api.git into /srv/mirror/acme",
		},
		{
			name:            "checkout_names_branch",
			command:         buildGitCommand([]string{"checkout", "develop"}, "/srv/mirror/acme/api"),
			expectedMessage: "Switching /srv/mirror/acme/api to branch develop",
		},
		{
			name:            "pull_names_working_directory",
			command:         buildGitCommand([]string{"pull"}, "/srv/mirror/acme/api"),
			expectedMessage: "Pulling latest changes in /srv/mirror/acme/api",
		},
		{
			name:            "branch_listing_names_working_directory",
			command:         buildGitCommand([]string{"branch", "-r"}, "/srv/mirror/acme/api"),
			expectedMessage: "Listing remote branches in /srv/mirror/acme/api",
		},
		{
			name:            "symbolic_ref_describes_head_resolution",
			command:         buildGitCommand([]string{"symbolic-ref", "refs/remotes/origin/HEAD"}, "/srv/mirror/acme/api"),
			expectedMessage: "Resolving remote HEAD in /srv/mirror/acme/api",
		},
		{
			name:            "init_names_working_directory",
			command:         buildGitCommand([]string{"init"}, "/srv/mirror/acme/api"),
			expectedMessage: "Initializing empty repository in /srv/mirror/acme/api",
		},
		{
			name:            "remote_add_names_remote",
			command:         buildGitCommand([]string{"remote", "add", "origin", "git@example.com:acme/api.git"}, "/srv/mirror/acme/api"),
			expectedMessage: "Registering remote origin in /srv/mirror/acme/api",
		},
		{
			name:            "unknown_subcommand_falls_back_to_generic_message",
			command:         buildGitCommand([]string{"fetch", "--all"}, "/srv/mirror/acme/api"),
			expectedMessage: "Running git fetch --all (in /srv/mirror/acme/api)",
		},
		{
			name:            "missing_working_directory_uses_current_directory_label",
			command:         buildGitCommand([]string{"pull"}, ""),
			expectedMessage: "Pulling latest changes in current directory",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedMessage, formatter.BuildStartedMessage(testCase.command))
		})
	}
}

func TestCommandMessageFormatterFailureMessages(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		result          execshell.ExecutionResult
		expectedMessage string
	}{
		{
			name:            "clone_failure_includes_exit_code_and_standard_error",
			command:         buildGitCommand([]string{"clone", "git@example.com:acme/api.git", "/srv/mirror/acme/api"}, ""),
			result:          execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: repository not found"},
			expectedMessage: "Failed to clone git@example.com:acme/api.git into /srv/mirror/acme/api (exit code 128: fatal: repository not found)",
		},
		{
			name:            "pull_failure_without_standard_error_omits_detail",
			command:         buildGitCommand([]string{"pull"}, "/srv/mirror/acme/api"),
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedMessage: "Failed to pull latest changes in /srv/mirror/acme/api (exit code 1)",
		},
		{
			name:            "checkout_failure_names_branch",
			command:         buildGitCommand([]string{"checkout", "main"}, "/srv/mirror/acme/api"),
			result:          execshell.ExecutionResult{ExitCode: 1, StandardError: "error: pathspec 'main' did not match"},
			expectedMessage: "Failed to switch /srv/mirror/acme/api to branch main (exit code 1: error: pathspec 'main' did not match)",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedMessage, formatter.BuildFailureMessage(testCase.command, testCase.result))
		})
	}
}

func TestCommandMessageFormatterExecutionFailureMessage(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	command := buildGitCommand([]string{"clone", "git@example.com:acme/api.git", "/srv/mirror/acme/api"}, "")

	message := formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found"))

	require.Equal(testInstance, "Unable to clone git@example.com:acme/api.git into /srv/mirror/acme/api: executable file not found", message)
}

func TestCommandMessageFormatterSuccessMessages(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		expectedMessage string
	}{
		{
			name:            "clone_success",
			command:         buildGitCommand([]string{"clone", "git@example.com:acme/api.git", "/srv/mirror/acme/api"}, ""),
			expectedMessage: "Cloned git@example.com:acme/api.git into /srv/mirror/acme/api",
		},
		{
			name:            "remote_add_success",
			command:         buildGitCommand([]string{"remote", "add", "origin", "git@example.com:acme/api.git"}, "/srv/mirror/acme/api"),
			expectedMessage: "Registered remote origin in /srv/mirror/acme/api",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedMessage, formatter.BuildSuccessMessage(testCase.command))
		})
	}
}

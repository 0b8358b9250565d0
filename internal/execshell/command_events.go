package execshell

// CommandEventObserver receives git command lifecycle notifications alongside
// the structured log stream. The console event logger in internal/ui
// implements it to narrate command activity to interactive users.
type CommandEventObserver interface {
	// CommandStarted fires before the process is spawned.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires after the process exits, whatever the exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not run at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver keeps the executor's observer always callable.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

package utils

import "context"

type configurationFilePathContextKey struct{}

// CommandContextAccessor passes request-scoped values from the root command to
// its subcommands through the command context.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a context carrying the resolved
// configuration file path. A nil parent falls back to context.Background.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKey{}, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path stored in the
// context, when one was attached.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, pathAttached := executionContext.Value(configurationFilePathContextKey{}).(string)
	return configurationFilePath, pathAttached
}

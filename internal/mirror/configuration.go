package mirror

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ProviderGitLab selects the GitLab listing source.
	ProviderGitLab = "gitlab"
	// ProviderGitHub selects the GitHub listing source.
	ProviderGitHub = "github"

	// CloneProtocolSSH keeps the SSH clone URLs advertised by the platform.
	CloneProtocolSSH = "ssh"
	// CloneProtocolHTTPS rewrites clone URLs to HTTPS before cloning.
	CloneProtocolHTTPS = "https"

	defaultProviderConstant              = ProviderGitLab
	defaultGitLabServerURLConstant       = "https://gitlab.com"
	defaultCloneProtocolConstant         = CloneProtocolSSH
	defaultMaxWorkersConstant            = 4
	defaultPageSizeConstant              = 20
	defaultCloneTimeoutSecondsConstant   = 300
	defaultPullTimeoutSecondsConstant    = 60
	defaultCommandTimeoutSecondsConstant = 30

	missingCloneDirectoryMessageConstant = "clone directory is required"
	unsupportedProviderTemplateConstant  = "unsupported provider %q, expected %s or %s"
	unsupportedProtocolTemplateConstant  = "unsupported clone protocol %q, expected %s or %s"
	nonPositiveValueTemplateConstant     = "%s must be a positive integer"
	maxWorkersSettingNameConstant        = "max_workers"
	pageSizeSettingNameConstant          = "page_size"
	cloneTimeoutSettingNameConstant      = "clone_timeout_seconds"
	pullTimeoutSettingNameConstant       = "pull_timeout_seconds"
	commandTimeoutSettingNameConstant    = "command_timeout_seconds"
)

// CommandConfiguration captures configuration values for the sync command.
type CommandConfiguration struct {
	Provider              string `mapstructure:"provider"`
	ServerURL             string `mapstructure:"server_url"`
	Namespace             string `mapstructure:"namespace"`
	CloneDirectory        string `mapstructure:"clone_directory"`
	CloneProtocol         string `mapstructure:"clone_protocol"`
	MaxWorkers            int    `mapstructure:"max_workers"`
	PageSize              int    `mapstructure:"page_size"`
	CloneTimeoutSeconds   int    `mapstructure:"clone_timeout_seconds"`
	PullTimeoutSeconds    int    `mapstructure:"pull_timeout_seconds"`
	CommandTimeoutSeconds int    `mapstructure:"command_timeout_seconds"`
}

// DefaultCommandConfiguration provides baseline configuration values for the sync command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Provider:              defaultProviderConstant,
		ServerURL:             defaultGitLabServerURLConstant,
		CloneProtocol:         defaultCloneProtocolConstant,
		MaxWorkers:            defaultMaxWorkersConstant,
		PageSize:              defaultPageSizeConstant,
		CloneTimeoutSeconds:   defaultCloneTimeoutSecondsConstant,
		PullTimeoutSeconds:    defaultPullTimeoutSecondsConstant,
		CommandTimeoutSeconds: defaultCommandTimeoutSecondsConstant,
	}
}

// DefaultConfigurationValues exposes the sync defaults keyed for the
// configuration loader under the provided configuration key.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + ".provider":                defaults.Provider,
		configurationKey + ".server_url":              defaults.ServerURL,
		configurationKey + ".namespace":               defaults.Namespace,
		configurationKey + ".clone_directory":         defaults.CloneDirectory,
		configurationKey + ".clone_protocol":          defaults.CloneProtocol,
		configurationKey + ".max_workers":             defaults.MaxWorkers,
		configurationKey + ".page_size":               defaults.PageSize,
		configurationKey + ".clone_timeout_seconds":   defaults.CloneTimeoutSeconds,
		configurationKey + ".pull_timeout_seconds":    defaults.PullTimeoutSeconds,
		configurationKey + ".command_timeout_seconds": defaults.CommandTimeoutSeconds,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Provider = strings.ToLower(strings.TrimSpace(configuration.Provider))
	sanitized.ServerURL = strings.TrimSpace(configuration.ServerURL)
	sanitized.Namespace = strings.TrimSpace(configuration.Namespace)
	sanitized.CloneDirectory = strings.TrimSpace(configuration.CloneDirectory)
	sanitized.CloneProtocol = strings.ToLower(strings.TrimSpace(configuration.CloneProtocol))

	return sanitized
}

// Validate reports the first configuration problem preventing a sync run.
func (configuration CommandConfiguration) Validate() error {
	if configuration.Provider != ProviderGitLab && configuration.Provider != ProviderGitHub {
		return fmt.Errorf(unsupportedProviderTemplateConstant, configuration.Provider, ProviderGitLab, ProviderGitHub)
	}
	if configuration.CloneProtocol != CloneProtocolSSH && configuration.CloneProtocol != CloneProtocolHTTPS {
		return fmt.Errorf(unsupportedProtocolTemplateConstant, configuration.CloneProtocol, CloneProtocolSSH, CloneProtocolHTTPS)
	}
	if len(configuration.CloneDirectory) == 0 {
		return errors.New(missingCloneDirectoryMessageConstant)
	}
	if configuration.MaxWorkers <= 0 {
		return fmt.Errorf(nonPositiveValueTemplateConstant, maxWorkersSettingNameConstant)
	}
	if configuration.PageSize <= 0 {
		return fmt.Errorf(nonPositiveValueTemplateConstant, pageSizeSettingNameConstant)
	}
	if configuration.CloneTimeoutSeconds <= 0 {
		return fmt.Errorf(nonPositiveValueTemplateConstant, cloneTimeoutSettingNameConstant)
	}
	if configuration.PullTimeoutSeconds <= 0 {
		return fmt.Errorf(nonPositiveValueTemplateConstant, pullTimeoutSettingNameConstant)
	}
	if configuration.CommandTimeoutSeconds <= 0 {
		return fmt.Errorf(nonPositiveValueTemplateConstant, commandTimeoutSettingNameConstant)
	}
	return nil
}

// CloneTimeout returns the clone timeout as a duration.
func (configuration CommandConfiguration) CloneTimeout() time.Duration {
	return time.Duration(configuration.CloneTimeoutSeconds) * time.Second
}

// PullTimeout returns the pull timeout as a duration.
func (configuration CommandConfiguration) PullTimeout() time.Duration {
	return time.Duration(configuration.PullTimeoutSeconds) * time.Second
}

// CommandTimeout returns the per-command timeout as a duration.
func (configuration CommandConfiguration) CommandTimeout() time.Duration {
	return time.Duration(configuration.CommandTimeoutSeconds) * time.Second
}

package initconfig

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/langburd/reposync/internal/mirror"
	"github.com/langburd/reposync/internal/utils"
)

const (
	commandUseConstant              = "init-config"
	commandShortDescriptionConstant = "Write a documented sample configuration file"
	commandLongDescriptionConstant  = "init-config writes a sample configuration file with every supported setting and its default value."

	outputFlagNameConstant        = "output"
	outputFlagDescriptionConstant = "Path of the sample configuration file to write"
	defaultOutputPathConstant     = "config.yaml.sample"

	sampleFilePermissionsConstant = 0o644

	encodeErrorTemplateConstant = "unable to encode sample configuration: %w"
	writeErrorTemplateConstant  = "unable to write sample configuration: %w"
	writtenMessageTemplate      = "Sample configuration written to %s\n"
	writtenLogMessageConstant   = "sample configuration file created"
	logFieldOutputPathConstant  = "output_path"
)

// FileWriter persists the rendered sample configuration.
type FileWriter func(path string, content []byte, permissions os.FileMode) error

// CommandBuilder assembles the init-config command.
type CommandBuilder struct {
	LoggerProvider func() *zap.Logger
	FileWriter     FileWriter
}

// Build constructs the init-config command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(outputFlagNameConstant, defaultOutputPathConstant, outputFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	outputPath, _ := command.Flags().GetString(outputFlagNameConstant)

	sampleContent, encodeError := RenderSampleConfiguration()
	if encodeError != nil {
		return fmt.Errorf(encodeErrorTemplateConstant, encodeError)
	}

	if writeError := builder.resolveFileWriter()(outputPath, sampleContent, sampleFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, writeError)
	}

	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			logger.Info(writtenLogMessageConstant, zap.String(logFieldOutputPathConstant, outputPath))
		}
	}

	fmt.Fprintf(command.OutOrStdout(), writtenMessageTemplate, outputPath)
	return nil
}

func (builder *CommandBuilder) resolveFileWriter() FileWriter {
	if builder.FileWriter != nil {
		return builder.FileWriter
	}
	return func(path string, content []byte, permissions os.FileMode) error {
		return os.WriteFile(path, content, permissions)
	}
}

type sampleCommonConfiguration struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type sampleSyncConfiguration struct {
	Provider              string `yaml:"provider"`
	ServerURL             string `yaml:"server_url"`
	Namespace             string `yaml:"namespace"`
	CloneDirectory        string `yaml:"clone_directory"`
	CloneProtocol         string `yaml:"clone_protocol"`
	MaxWorkers            int    `yaml:"max_workers"`
	PageSize              int    `yaml:"page_size"`
	CloneTimeoutSeconds   int    `yaml:"clone_timeout_seconds"`
	PullTimeoutSeconds    int    `yaml:"pull_timeout_seconds"`
	CommandTimeoutSeconds int    `yaml:"command_timeout_seconds"`
}

type sampleConfiguration struct {
	Common sampleCommonConfiguration `yaml:"common"`
	Sync   sampleSyncConfiguration   `yaml:"sync"`
}

var sampleKeyComments = map[string]string{
	"common":                  "Settings shared by every command.",
	"log_level":               "Logging verbosity: debug, info, warn, or error.",
	"log_format":              "Log encoding: structured or console.",
	"sync":                    "Settings for the sync command. Tokens are read from GITLAB_TOKEN or REPOSYNC_TOKEN for GitLab and GH_TOKEN, GITHUB_TOKEN, or GITHUB_API_TOKEN for GitHub.",
	"provider":                "Hosting platform that owns the namespace: gitlab or github.",
	"server_url":              "Base URL of the hosting platform API.",
	"namespace":               "Group, organization, or user to synchronize. Leave empty to synchronize every accessible group project.",
	"clone_directory":         "Directory repositories are cloned under.",
	"clone_protocol":          "Protocol used for clone URLs: ssh or https.",
	"max_workers":             "Number of repositories synchronized concurrently.",
	"page_size":               "Repositories requested per listing API page.",
	"clone_timeout_seconds":   "Timeout for each git clone.",
	"pull_timeout_seconds":    "Timeout for each git pull.",
	"command_timeout_seconds": "Timeout for short git commands such as checkout and branch listing.",
}

// RenderSampleConfiguration produces commented YAML describing every
// supported configuration key with its default value.
func RenderSampleConfiguration() ([]byte, error) {
	defaults := mirror.DefaultCommandConfiguration()

	configuration := sampleConfiguration{
		Common: sampleCommonConfiguration{
			LogLevel:  string(utils.LogLevelInfo),
			LogFormat: string(utils.LogFormatStructured),
		},
		Sync: sampleSyncConfiguration{
			Provider:              defaults.Provider,
			ServerURL:             defaults.ServerURL,
			Namespace:             defaults.Namespace,
			CloneDirectory:        defaults.CloneDirectory,
			CloneProtocol:         defaults.CloneProtocol,
			MaxWorkers:            defaults.MaxWorkers,
			PageSize:              defaults.PageSize,
			CloneTimeoutSeconds:   defaults.CloneTimeoutSeconds,
			PullTimeoutSeconds:    defaults.PullTimeoutSeconds,
			CommandTimeoutSeconds: defaults.CommandTimeoutSeconds,
		},
	}

	documentNode := yaml.Node{}
	if encodeError := documentNode.Encode(configuration); encodeError != nil {
		return nil, encodeError
	}

	annotateMappingKeys(&documentNode, sampleKeyComments)

	return yaml.Marshal(&documentNode)
}

// annotateMappingKeys attaches head comments to every mapping key with a
// registered comment, recursing into nested mappings.
func annotateMappingKeys(node *yaml.Node, comments map[string]string) {
	if node.Kind != yaml.MappingNode {
		return
	}

	for entryIndex := 0; entryIndex+1 < len(node.Content); entryIndex += 2 {
		keyNode := node.Content[entryIndex]
		valueNode := node.Content[entryIndex+1]

		if comment, commentRegistered := comments[keyNode.Value]; commentRegistered {
			keyNode.HeadComment = comment
		}

		annotateMappingKeys(valueNode, comments)
	}
}

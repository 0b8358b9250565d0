package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeyDotConstant        = "."
	environmentKeyUnderscoreConstant = "_"

	configurationReadErrorTemplateConstant     = "unable to read configuration: %w"
	configurationDecodeErrorTemplateConstant   = "unable to decode configuration: %w"
	embeddedConfigurationErrorTemplateConstant = "unable to merge embedded configuration: %w"
)

// ConfigurationLoader layers the reposync configuration sources in precedence
// order: embedded defaults first, then an optional configuration file, then
// environment variables carrying the configured prefix. Configuration keys map
// to environment names by upper-casing and replacing dots with underscores.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// LoadedConfiguration reports which configuration file, if any, supplied values.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader constructs a loader that looks for configurationName
// files of configurationType in searchPaths and honors environmentPrefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	copiedSearchPaths := make([]string, len(searchPaths))
	copy(copiedSearchPaths, searchPaths)

	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       copiedSearchPaths,
	}
}

// SetEmbeddedConfiguration registers built-in configuration data that every
// load merges beneath user-provided sources. Empty data clears the embedded
// configuration.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)
	if len(configurationData) == 0 {
		loader.embeddedConfiguration = nil
		return
	}

	copiedData := make([]byte, len(configurationData))
	copy(copiedData, configurationData)
	loader.embeddedConfiguration = copiedData
}

// LoadConfiguration resolves every configuration source into
// targetConfiguration. configurationFilePath, when non-empty, pins the
// configuration file instead of searching; a missing searched file is not an
// error because the embedded defaults always apply.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if mergeError := loader.mergeEmbeddedConfiguration(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationErrorTemplateConstant, mergeError)
	}

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeyDotConstant, environmentKeyUnderscoreConstant))
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var configurationFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(readError, &configurationFileNotFound) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	if decodeError := viperInstance.Unmarshal(targetConfiguration); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedConfiguration(viperInstance *viper.Viper) error {
	if len(loader.embeddedConfiguration) == 0 {
		return nil
	}

	if len(loader.embeddedConfigurationType) > 0 {
		viperInstance.SetConfigType(loader.embeddedConfigurationType)
		defer viperInstance.SetConfigType(loader.configurationType)
	}

	return viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration))
}

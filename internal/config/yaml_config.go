package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Chat copy that is easier to manage in YAML than env vars.
type YAMLConfig struct {
	Chat ChatConfig `yaml:"chat"`
}

// ChatConfig overrides the chat page and fallback message text.
type ChatConfig struct {
	Welcome         string   `yaml:"welcome"`          // First assistant message of every transcript
	Topics          []string `yaml:"topics"`           // Topic areas listed when nothing matches
	Examples        []string `yaml:"examples"`         // Example questions suggested when nothing matches
	SampleQuestions []string `yaml:"sample_questions"` // One-click questions on the chat page
}

// DefaultWelcome is the first assistant message when no override is configured.
const DefaultWelcome = "👋 Hi! I'm here to help you with Email Backup Wizard. You can ask me about:\n\n" +
	"• Office 365 & Google Workspace setup\n" +
	"• IMAP configuration\n" +
	"• Migration issues & troubleshooting\n" +
	"• Software features\n\n" +
	"What would you like to know?"

// DefaultSampleQuestions are shown as buttons on the chat page.
var DefaultSampleQuestions = []string{
	"How do I login to Office 365?",
	"What are IMAP requirements?",
	"Why is migration slow?",
	"How to setup Google Workspace?",
	"What is incremental backup?",
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads the YAML configuration from path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WelcomeMessage returns the configured welcome message or the default.
func (c *YAMLConfig) WelcomeMessage() string {
	if c == nil || c.Chat.Welcome == "" {
		return DefaultWelcome
	}
	return c.Chat.Welcome
}

// SampleQuestions returns the configured sample questions or the defaults.
func (c *YAMLConfig) SampleQuestions() []string {
	if c == nil || len(c.Chat.SampleQuestions) == 0 {
		return DefaultSampleQuestions
	}
	return c.Chat.SampleQuestions
}

// Topics returns the configured fallback topics, or nil for the formatter default.
func (c *YAMLConfig) Topics() []string {
	if c == nil {
		return nil
	}
	return c.Chat.Topics
}

// Examples returns the configured fallback examples, or nil for the formatter default.
func (c *YAMLConfig) Examples() []string {
	if c == nil {
		return nil
	}
	return c.Chat.Examples
}

package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	// ConfigurationName is the file name looked up in the config directory.
	ConfigurationName = "config.yaml"

	// DefaultPrompt matches the reference interpreter's prompt.
	DefaultPrompt = "% "

	// DefaultMaxLine is the reference bound on one line of input, in bytes.
	DefaultMaxLine = 100

	// Tokenizer names accepted by the "tokenizer" field.
	TokenizerFields = "fields"
	TokenizerShlex  = "shlex"
)

// Configuration holds the runtime settings of the interactive runner.
type Configuration struct {
	// Prompt is printed before every read, never after end-of-input.
	Prompt string `json:"prompt"`

	// Motd is printed once when an interactive session starts.
	Motd string `json:"motd"`

	// MaxLine bounds the length of one input line in bytes. Longer lines
	// are reported and discarded whole.
	MaxLine int `json:"max_line" validate:"gte=1"`

	// Tokenizer selects how a line becomes an argument vector: "fields"
	// splits on whitespace, "shlex" additionally honors quoting.
	Tokenizer string `json:"tokenizer" validate:"oneof=fields shlex"`

	// Color enables the colored prompt and diagnostics on terminals.
	Color bool `json:"color"`

	// Path overrides the search path used to locate programs. Empty means
	// the runner's own PATH.
	Path string `json:"path"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	return &Configuration{
		Prompt:    DefaultPrompt,
		MaxLine:   DefaultMaxLine,
		Tokenizer: TokenizerFields,
		Color:     true,
	}
}

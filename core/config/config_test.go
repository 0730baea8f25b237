package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
	sigyaml "sigs.k8s.io/yaml"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestDefaultMatchesEmbedded(t *testing.T) {
	// The embedded file and the in-code defaults must agree, otherwise an
	// init-ed directory behaves differently from a bare one.
	fromFile := Default()
	require.NoError(t, sigyaml.UnmarshalStrict(defaultConfigData, fromFile))
	assert.Equal(t, Default(), fromFile)
}

func TestValidateRejections(t *testing.T) {
	tests := map[string]func(c *Configuration){
		"zero max_line":      func(c *Configuration) { c.MaxLine = 0 },
		"negative max_line":  func(c *Configuration) { c.MaxLine = -7 },
		"unknown tokenizer":  func(c *Configuration) { c.Tokenizer = "regex" },
		"missing tokenizer":  func(c *Configuration) { c.Tokenizer = "" },
	}

	for tn, mutate := range tests {
		t.Run(tn, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

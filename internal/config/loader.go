package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of the config file. Validation happens
// before unmarshalling so a malformed file is reported as a configuration
// error rather than a type-coercion surprise deep inside a run.
const configSchema = `{
  "type": "object",
  "properties": {
    "default_provider": {"type": "string"},
    "max_steps": {"type": "integer", "minimum": 1},
    "model_providers": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "model": {"type": "string"},
          "api_key": {"type": "string"},
          "max_tokens": {"type": "integer", "minimum": 1},
          "temperature": {"type": "number"},
          "top_p": {"type": "number"},
          "top_k": {"type": "integer"},
          "base_url": {"type": "string"}
        }
      }
    }
  }
}`

// Load reads the config file at path, falling back to DefaultConfigFile when
// path is empty. A missing file is not an error: built-in defaults are
// returned. A file that exists but is malformed is a fatal configuration
// error, reported before any agent construction is attempted.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// File values land on top of built-in defaults; providers absent from the
	// file keep their default settings.
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
	}

	return cfg, nil
}

func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}

package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/pinboard/pkg/note"
)

// DefaultConfigFile is the name of the configuration file looked up by the CLI.
const DefaultConfigFile = "pinboard.yaml"

// Environment variables overriding the configuration file.
const (
	EnvBackend   = "PINBOARD_BACKEND"
	EnvPath      = "PINBOARD_PATH"
	EnvFormat    = "PINBOARD_FORMAT"
	EnvKey       = "PINBOARD_KEY"
	EnvReadOnly  = "PINBOARD_READ_ONLY"
	EnvVersioned = "PINBOARD_VERSIONED"
)

// Config is the resolved configuration of a pinboard instance.
type Config struct {
	Backend   string `yaml:"backend" validate:"required,oneof=fs sqlite memory"`
	Path      string `yaml:"path" validate:"required_unless=Backend memory"`
	Format    string `yaml:"format" validate:"omitempty,oneof=json yaml"`
	Key       string `yaml:"key" validate:"required,excludesall=/"`
	ReadOnly  bool   `yaml:"read_only"`
	Versioned bool   `yaml:"versioned"`
	MustExist bool   `yaml:"must_exist"`
}

// DefaultConfig returns a fs backend in ./pinboard storing JSON.
func DefaultConfig() Config {
	return Config{
		Backend: "fs",
		Path:    "pinboard",
		Format:  "json",
		Key:     note.DefaultKey,
	}
}

var validate = validator.New()

// Validate checks the configuration against its tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Versioned && c.Backend != "fs" {
		return fmt.Errorf("invalid config: versioning requires the fs backend")
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required", "required_unless":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// LoadConfig resolves the configuration: defaults, then the YAML file at
// path (skipped when path is empty or the file is absent), then the
// environment. The result is validated.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvBackend); ok {
		c.Backend = v
	}
	if v, ok := os.LookupEnv(EnvPath); ok {
		c.Path = v
	}
	if v, ok := os.LookupEnv(EnvFormat); ok {
		c.Format = v
	}
	if v, ok := os.LookupEnv(EnvKey); ok {
		c.Key = v
	}
	for name, dst := range map[string]*bool{EnvReadOnly: &c.ReadOnly, EnvVersioned: &c.Versioned} {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = b
	}
	return nil
}

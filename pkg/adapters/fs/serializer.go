package fs

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format selects how collections are laid out on disk.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Serializer converts the JSON a backend receives into its on-disk form and back.
type Serializer interface {
	// Extension is the file extension, including the dot.
	Extension() string
	Encode(data []byte) ([]byte, error)
	Decode(raw []byte) ([]byte, error)
}

// SerializerFor returns the serializer of a format. Empty means JSON.
func SerializerFor(format Format) (Serializer, error) {
	switch format {
	case "", FormatJSON:
		return jsonSerializer{}, nil
	case FormatYAML:
		return yamlSerializer{}, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

type jsonSerializer struct{}

func (jsonSerializer) Extension() string { return ".json" }

func (jsonSerializer) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (jsonSerializer) Decode(raw []byte) ([]byte, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("invalid json")
	}
	return raw, nil
}

// yamlSerializer stores collections as YAML documents.
// JSON is parsed with the YAML decoder so integers keep their integer form.
type yamlSerializer struct{}

func (yamlSerializer) Extension() string { return ".yaml" }

func (yamlSerializer) Encode(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return yaml.Marshal(v)
}

func (yamlSerializer) Decode(raw []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return json.Marshal(normalize(v))
}

// normalize rewrites map[any]any produced by the YAML decoder into
// map[string]any, which encoding/json can marshal.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, val := range v {
			v[k] = normalize(val)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range v {
			v[i] = normalize(val)
		}
		return v
	}
	return v
}

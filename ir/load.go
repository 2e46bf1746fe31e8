package ir

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tsclientgen/errors"
)

// Format is an on-disk encoding of the IR.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Default wire names used when the IR leaves them empty.
const (
	DefaultErrorDiscriminant  = "error"
	DefaultErrorInstanceIDKey = "errorInstanceId"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.Newf("unrecognized IR file extension %q", filepath.Ext(path)),
		"use .json, .yaml, .yml or .toml",
	)
}

// Load reads and decodes the IR file at path.
func Load(path string) (*IntermediateRepresentation, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "IR file %s", path)
		}
		return nil, errors.Wrapf(err, "failed to read IR file %s", path)
	}
	ir, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load IR from %s", path)
	}
	return ir, nil
}

// Parse decodes IR bytes. YAML and TOML are normalized to JSON first so every
// format goes through the same sum-type decoding.
func Parse(data []byte, format Format) (*IntermediateRepresentation, error) {
	var err error
	switch format {
	case FormatJSON:
	case FormatYAML:
		data, err = yamlToJSON(data)
	case FormatTOML:
		data, err = tomlToJSON(data)
	default:
		return nil, errors.Newf("unsupported IR format %q", format)
	}
	if err != nil {
		return nil, err
	}

	var ir IntermediateRepresentation
	if err := json.Unmarshal(data, &ir); err != nil {
		return nil, errors.Wrap(err, "decoding IR")
	}
	ir.applyDefaults()
	return &ir, nil
}

// WithDefaults returns a copy of ir with empty error discriminants and error
// instance keys filled from Constants, falling back to the package defaults.
// Only the service and endpoint slices it writes to are copied; ir is not
// modified.
func (ir *IntermediateRepresentation) WithDefaults() *IntermediateRepresentation {
	out := *ir
	out.Services.HTTP = slices.Clone(ir.Services.HTTP)
	for i := range out.Services.HTTP {
		out.Services.HTTP[i].Endpoints = slices.Clone(out.Services.HTTP[i].Endpoints)
	}
	out.Services.WebSocket = slices.Clone(ir.Services.WebSocket)
	for i := range out.Services.WebSocket {
		out.Services.WebSocket[i].Operations = slices.Clone(out.Services.WebSocket[i].Operations)
	}
	out.applyDefaults()
	return &out
}

func (ir *IntermediateRepresentation) applyDefaults() {
	if ir.Constants.ErrorDiscriminant == "" {
		ir.Constants.ErrorDiscriminant = DefaultErrorDiscriminant
	}
	if ir.Constants.ErrorInstanceIDKey == "" {
		ir.Constants.ErrorInstanceIDKey = DefaultErrorInstanceIDKey
	}
	fill := func(f *FailedResponse) {
		if f.Discriminant == "" {
			f.Discriminant = ir.Constants.ErrorDiscriminant
		}
		if f.ErrorProperties.ErrorInstanceID == "" {
			f.ErrorProperties.ErrorInstanceID = ir.Constants.ErrorInstanceIDKey
		}
	}
	for i := range ir.Services.HTTP {
		for j := range ir.Services.HTTP[i].Endpoints {
			fill(&ir.Services.HTTP[i].Endpoints[j].Errors)
		}
	}
	for i := range ir.Services.WebSocket {
		for j := range ir.Services.WebSocket[i].Operations {
			fill(&ir.Services.WebSocket[i].Operations[j].Errors)
		}
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding YAML IR")
	}
	out, err := json.Marshal(normalize(doc))
	if err != nil {
		return nil, errors.Wrap(err, "re-encoding YAML IR")
	}
	return out, nil
}

func tomlToJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, errors.Wrap(err, "decoding TOML IR")
	}
	out, err := json.Marshal(normalize(doc))
	if err != nil {
		return nil, errors.Wrap(err, "re-encoding TOML IR")
	}
	return out, nil
}

// normalize converts decoder output with non-string map keys into JSON-shaped values.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalize(vv)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	default:
		return v
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DecodeYAML parses YAML bytes into the ordered value representation.
func DecodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	return valueForYAMLNode(root.Content[0])
}

// DecodeJSON parses JSON bytes into the ordered value representation.
func DecodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := valueForJSONTokens(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrDecodeSchema)
	}

	return value, nil
}

// LoadFile reads and parses one schema document, selecting the codec by
// file extension (.json is JSON, everything else is YAML).
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadSchemaFile, path, err)
	}

	value, err := decodeByExtension(path, data)
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", path, err)
	}

	return value, nil
}

// decodeByExtension selects the codec for one document by its file name.
func decodeByExtension(path string, data []byte) (any, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeJSON(data)
	}

	return DecodeYAML(data)
}

// valueForYAMLNode converts one yaml.Node subtree into ordered values.
func valueForYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return valueForYAMLNode(node.Content[0])

	case yaml.MappingNode:
		out := NewObject()
		for index := 0; index+1 < len(node.Content); index += 2 {
			keyNode := node.Content[index]
			value, err := valueForYAMLNode(node.Content[index+1])
			if err != nil {
				return nil, err
			}

			out.Set(keyNode.Value, value)
		}

		return out, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := valueForYAMLNode(item)
			if err != nil {
				return nil, err
			}

			out = append(out, value)
		}

		return out, nil

	case yaml.ScalarNode:
		return scalarForYAMLNode(node)

	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, nil
		}

		return valueForYAMLNode(node.Alias)

	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d at line %d", node.Kind, node.Line)
	}
}

// scalarForYAMLNode converts one YAML scalar into a Go scalar by resolved tag.
func scalarForYAMLNode(node *yaml.Node) (any, error) {
	switch node.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		value, err := strconv.ParseBool(strings.ToLower(node.Value))
		if err != nil {
			return nil, fmt.Errorf("bad bool %q at line %d", node.Value, node.Line)
		}

		return value, nil
	case "!!int":
		value, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q at line %d", node.Value, node.Line)
		}

		return value, nil
	case "!!float":
		value, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q at line %d", node.Value, node.Line)
		}

		return value, nil
	default:
		return node.Value, nil
	}
}

// valueForJSONTokens builds one value from the decoder token stream.
func valueForJSONTokens(decoder *json.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	return valueForJSONToken(decoder, token)
}

// valueForJSONToken builds one value starting from an already-read token.
func valueForJSONToken(decoder *json.Decoder, token json.Token) (any, error) {
	switch typed := token.(type) {
	case json.Delim:
		switch typed {
		case '{':
			return objectForJSONTokens(decoder)
		case '[':
			return arrayForJSONTokens(decoder)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", typed.String())
		}
	case json.Number:
		return scalarForJSONNumber(typed), nil
	default:
		// string, bool or nil
		return typed, nil
	}
}

// objectForJSONTokens consumes tokens up to the closing brace into an ordered mapping.
func objectForJSONTokens(decoder *json.Decoder) (*Object, error) {
	out := NewObject()
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		if delim, ok := token.(json.Delim); ok && delim == '}' {
			return out, nil
		}

		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", token)
		}

		value, err := valueForJSONTokens(decoder)
		if err != nil {
			return nil, err
		}

		out.Set(key, value)
	}
}

// arrayForJSONTokens consumes tokens up to the closing bracket into a sequence.
func arrayForJSONTokens(decoder *json.Decoder) ([]any, error) {
	out := make([]any, 0, 4)
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		if delim, ok := token.(json.Delim); ok && delim == ']' {
			return out, nil
		}

		value, err := valueForJSONToken(decoder, token)
		if err != nil {
			return nil, err
		}

		out = append(out, value)
	}
}

// scalarForJSONNumber narrows a JSON number to int64 when it is integral.
func scalarForJSONNumber(number json.Number) any {
	if intValue, err := number.Int64(); err == nil {
		return intValue
	}

	if floatValue, err := number.Float64(); err == nil {
		return floatValue
	}

	return number.String()
}

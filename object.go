// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Object is a YAML/JSON mapping with preserved key insertion order.
//
// Parsed schema trees are built from *Object, []any and the scalar types
// string, bool, int64, float64 and nil. Key order matters: property order in
// a schema file controls row order in rendered type tables.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty ordered mapping.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len returns the number of keys in the mapping.
func (obj *Object) Len() int {
	if obj == nil {
		return 0
	}

	return len(obj.keys)
}

// Get returns the value stored under key.
func (obj *Object) Get(key string) (any, bool) {
	if obj == nil {
		return nil, false
	}

	value, ok := obj.values[key]
	return value, ok
}

// Has reports whether key is present in the mapping.
func (obj *Object) Has(key string) bool {
	_, ok := obj.Get(key)
	return ok
}

// Set stores value under key. A new key is appended at the end; an existing
// key keeps its original position.
func (obj *Object) Set(key string, value any) {
	if _, ok := obj.values[key]; !ok {
		obj.keys = append(obj.keys, key)
	}

	obj.values[key] = value
}

// Delete removes key from the mapping, preserving the order of the rest.
func (obj *Object) Delete(key string) {
	if obj == nil {
		return
	}

	if _, ok := obj.values[key]; !ok {
		return
	}

	delete(obj.values, key)
	for index, existing := range obj.keys {
		if existing == key {
			obj.keys = append(obj.keys[:index], obj.keys[index+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (obj *Object) Keys() []string {
	if obj == nil {
		return nil
	}

	out := make([]string, len(obj.keys))
	copy(out, obj.keys)
	return out
}

// Clone returns a shallow copy sharing the stored values.
func (obj *Object) Clone() *Object {
	out := NewObject()
	if obj == nil {
		return out
	}

	for _, key := range obj.keys {
		out.Set(key, obj.values[key])
	}

	return out
}

// String renders a compact diagnostic form used in error messages.
func (obj *Object) String() string {
	if obj == nil {
		return "{}"
	}

	parts := make([]string, 0, len(obj.keys))
	for _, key := range obj.keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, obj.values[key]))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the mapping as a JSON object in key insertion order.
func (obj *Object) MarshalJSON() ([]byte, error) {
	if obj == nil {
		return []byte("null"), nil
	}

	var out bytes.Buffer
	out.WriteByte('{')
	for index, key := range obj.keys {
		if index > 0 {
			out.WriteByte(',')
		}

		keyData, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		out.Write(keyData)
		out.WriteByte(':')

		valueData, err := json.Marshal(obj.values[key])
		if err != nil {
			return nil, err
		}

		out.Write(valueData)
	}

	out.WriteByte('}')
	return out.Bytes(), nil
}

// asObject returns value as an ordered mapping when it is one.
func asObject(value any) (*Object, bool) {
	obj, ok := value.(*Object)
	if !ok || obj == nil {
		return nil, false
	}

	return obj, true
}

// asString returns the string form of a scalar value, or empty string.
func asString(value any) string {
	text, ok := value.(string)
	if !ok {
		return ""
	}

	return text
}

// asSlice returns value as a sequence when it is one.
func asSlice(value any) []any {
	items, ok := value.([]any)
	if !ok {
		return nil
	}

	return items
}

// asBool returns value as a boolean when it is one.
func asBool(value any) (bool, bool) {
	typed, ok := value.(bool)
	return typed, ok
}

// objectBool extracts a boolean field from a schema object.
func objectBool(obj *Object, key string) bool {
	if obj == nil {
		return false
	}

	value, _ := obj.Get(key)
	typed, _ := asBool(value)
	return typed
}

// objectString extracts a string field from a schema object.
func objectString(obj *Object, key string) string {
	if obj == nil {
		return ""
	}

	value, _ := obj.Get(key)
	return asString(value)
}

// objectSlice extracts a sequence field from a schema object.
func objectSlice(obj *Object, key string) []any {
	if obj == nil {
		return nil
	}

	value, _ := obj.Get(key)
	return asSlice(value)
}

// objectChild extracts a nested mapping field from a schema object.
func objectChild(obj *Object, key string) *Object {
	if obj == nil {
		return nil
	}

	value, _ := obj.Get(key)
	child, _ := asObject(value)
	return child
}

// objectStrings extracts a field holding a list of strings, dropping non-strings.
func objectStrings(obj *Object, key string) []string {
	items := objectSlice(obj, key)
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if text := asString(item); text != "" {
			out = append(out, text)
		}
	}

	return out
}

// walkPath follows a slash-separated property path through nested schema
// objects, e.g. "properties/content/properties/msgtype".
func walkPath(value any, path string) (any, bool) {
	current := value
	for _, segment := range strings.Split(path, "/") {
		obj, ok := asObject(current)
		if !ok {
			return nil, false
		}

		current, ok = obj.Get(segment)
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// mustJSONInline marshals a value as single-line JSON for descriptions and labels.
func mustJSONInline(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(data)
}

// jsonIndent marshals a value as 2-space indented JSON.
func jsonIndent(value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodeExampleJSON, err)
	}

	return string(data), nil
}

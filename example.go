// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import "fmt"

// stringPlaceholder is the recognizable stand-in for string fields with no
// declared example. It is deliberately not realistic data.
const stringPlaceholder = "string"

// ExampleForSchema produces a representative example value for a resolved
// schema. A declared example is returned verbatim; otherwise the value is
// synthesized structurally. Kinds with no safe synthesis rule (booleans,
// enums, unions) fail explicitly rather than guess: a silently invented
// example could mislead API consumers.
func ExampleForSchema(schema any) (any, error) {
	merged, err := MergeParents(schema)
	if err != nil {
		return nil, err
	}

	obj, ok := asObject(merged)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not a mapping", ErrMissingType, merged)
	}

	if example, ok := obj.Get("example"); ok {
		return example, nil
	}

	kind := objectString(obj, "type")
	switch kind {
	case "object":
		return exampleForObject(obj)
	case "array":
		return exampleForArray(obj)
	case "integer":
		return int64(0), nil
	case "string":
		return stringPlaceholder, nil
	case "":
		return nil, fmt.Errorf("%w: %v", ErrMissingType, obj)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsynthesizableType, kind)
	}
}

// exampleForObject synthesizes an object example property by property,
// preserving declaration order.
func exampleForObject(obj *Object) (any, error) {
	props := objectChild(obj, "properties")
	if props.Len() == 0 {
		return nil, fmt.Errorf("%w: object %q has no properties and no example",
			ErrMissingExampleSource, objectString(obj, "title"))
	}

	out := NewObject()
	for _, key := range props.Keys() {
		prop, _ := props.Get(key)
		value, err := ExampleForSchema(prop)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}

		out.Set(key, value)
	}

	return out, nil
}

// exampleForArray synthesizes an array example: one value per tuple slot
// when items is a schema list, else a single-element array.
func exampleForArray(obj *Object) (any, error) {
	items, ok := obj.Get("items")
	if !ok {
		return nil, fmt.Errorf("%w: array %q has no items and no example",
			ErrMissingExampleSource, objectString(obj, "title"))
	}

	if tuple := asSlice(items); tuple != nil {
		out := make([]any, 0, len(tuple))
		for index, item := range tuple {
			value, err := ExampleForSchema(item)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: %w", index, err)
			}

			out = append(out, value)
		}

		return out, nil
	}

	value, err := ExampleForSchema(items)
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}

	return []any{value}, nil
}

// exampleForParam returns an example value for one endpoint parameter: a
// declared x-example verbatim, else a JSON-rendered example derived from
// the parameter schema. Returns nil with no error when the parameter has
// neither.
func exampleForParam(param *Object) (any, error) {
	if example, ok := param.Get("x-example"); ok {
		return example, nil
	}

	schema := objectChild(param, "schema")
	if schema == nil {
		return nil, nil
	}

	example, ok := schema.Get("example")
	if !ok {
		synthesized, err := ExampleForSchema(schema)
		if err != nil {
			return nil, err
		}

		example = synthesized
	}

	return jsonIndent(example)
}

// ExampleForResponse returns a JSON-rendered example for one response: a
// declared application/json example takes precedence, else the example is
// synthesized from the response schema. A "file" typed body and a response
// with no schema produce no example.
func ExampleForResponse(response *Object) (string, error) {
	if examples := objectChild(response, "examples"); examples != nil {
		if example, ok := examples.Get("application/json"); ok {
			return jsonIndent(example)
		}
	}

	schema := objectChild(response, "schema")
	if schema == nil {
		return "", nil
	}

	if objectString(schema, "type") == "file" {
		return "", nil
	}

	example, err := ExampleForSchema(schema)
	if err != nil {
		return "", err
	}

	return jsonIndent(example)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import "fmt"

// mapMergedKeys are schema fields merged as key unions during inheritance;
// a later source's entry for the same key replaces the earlier one entirely.
var mapMergedKeys = map[string]struct{}{
	"properties":           {},
	"additionalProperties": {},
	"patternProperties":    {},
}

// MergeParents folds a node's allOf parents into a single merged schema.
//
// Parents are merged in listed order with the node's own fields applied
// last, so the child overrides its parents on scalar conflicts. The
// required list is unioned; property maps are shallow-unioned. Non-mapping
// values and mappings without allOf pass through unchanged, which makes the
// merge idempotent.
func MergeParents(node any) (any, error) {
	obj, ok := asObject(node)
	if !ok {
		return node, nil
	}

	parents := objectSlice(obj, "allOf")
	if len(parents) == 0 {
		return obj, nil
	}

	sources := make([]*Object, 0, len(parents)+1)
	for index, parent := range parents {
		merged, err := MergeParents(parent)
		if err != nil {
			return nil, fmt.Errorf("allOf[%d]: %w", index, err)
		}

		mergedObject, ok := asObject(merged)
		if !ok {
			return nil, fmt.Errorf("allOf[%d]: parent is not a mapping: %v", index, parent)
		}

		sources = append(sources, mergedObject)
	}

	sources = append(sources, obj)

	out := NewObject()
	for _, source := range sources {
		for _, key := range source.Keys() {
			if key == "allOf" {
				continue
			}

			value, _ := source.Get(key)
			mergeField(out, key, value)
		}
	}

	return out, nil
}

// mergeField applies one source field onto the merge result.
func mergeField(out *Object, key string, value any) {
	if key == "required" {
		out.Set(key, mergeRequired(objectStrings(out, "required"), value))
		return
	}

	if _, ok := mapMergedKeys[key]; ok {
		if incoming, isMapping := asObject(value); isMapping {
			out.Set(key, mergeMapping(objectChild(out, key), incoming))
			return
		}
	}

	if isEmptyValue(value) {
		return
	}

	out.Set(key, value)
}

// mergeRequired appends unique required property names, preserving order.
func mergeRequired(existing []string, value any) []any {
	seen := make(map[string]struct{}, len(existing))
	out := make([]any, 0, len(existing))
	for _, key := range existing {
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	for _, item := range asSlice(value) {
		key := asString(item)
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}

// mergeMapping shallow-unions incoming keys over the accumulated mapping.
func mergeMapping(accumulated, incoming *Object) *Object {
	out := accumulated.Clone()
	for _, key := range incoming.Keys() {
		value, _ := incoming.Get(key)
		out.Set(key, value)
	}

	return out
}

// isEmptyValue reports whether a scalar merge candidate should be skipped.
func isEmptyValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	default:
		return false
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"fmt"
	"log/slog"
	"strings"
)

// requiredMarker prefixes the description of every required field. It is a
// documentation convention, applied in exactly one place: the point where a
// field's final description is composed.
const requiredMarker = "**Required.**"

// TypeInfo is the result of formatting one schema node for documentation.
type TypeInfo struct {
	// Label is the short rendered type name, e.g. "string" or "[EventFilter]".
	Label string
	// Description is the composed description including the required marker
	// and any enum clause.
	Description string
	// EnumDescription is the enum clause alone, for callers that emit
	// auxiliary enum tables.
	EnumDescription string
	// IsObject marks nodes whose shape is described by their own table.
	IsObject bool
	// Tables collects the type tables for this node and everything nested
	// under it, depth-first, children after the table that references them.
	Tables []TypeTable
}

// Extractor derives type tables from merged, dereferenced schema nodes.
// The zero value uses lenient titling (NO_TITLE substitution with a logged
// warning) as mandated for documentation builds.
type Extractor struct {
	// StrictTitles makes a missing title on a title-enforced object an
	// error instead of a NO_TITLE substitution.
	StrictTitles bool
	// Logger receives NO_TITLE substitution warnings. Defaults to slog.Default.
	Logger *slog.Logger
}

// FormatType formats a schema node with the default lenient Extractor.
func FormatType(node any, required, enforceTitle bool) (TypeInfo, error) {
	return (&Extractor{}).FormatType(node, required, enforceTitle)
}

// ExtractFields extracts object fields with the default lenient Extractor.
func ExtractFields(node any, enforceTitle bool) (ExtractionResult, error) {
	return (&Extractor{}).ExtractFields(node, enforceTitle)
}

// FormatType produces a short human-readable type label, a composed
// description and the nested type tables for any schema node. The node is
// merged through its allOf parents first, so callers may pass unmerged
// nodes.
func (extractor *Extractor) FormatType(node any, required, enforceTitle bool) (TypeInfo, error) {
	merged, err := MergeParents(node)
	if err != nil {
		return TypeInfo{}, err
	}

	obj, ok := asObject(merged)
	if !ok {
		return TypeInfo{}, fmt.Errorf("%w: %v is not a mapping", ErrMissingType, merged)
	}

	info, err := extractor.formatMerged(obj, enforceTitle)
	if err != nil {
		return TypeInfo{}, err
	}

	info.Description = composeDescription(required, objectString(obj, "description"), info.EnumDescription)
	return info, nil
}

// formatMerged dispatches on the declared type of a merged schema node.
func (extractor *Extractor) formatMerged(obj *Object, enforceTitle bool) (TypeInfo, error) {
	kind, kindList, err := schemaKind(obj)
	if err != nil {
		return TypeInfo{}, err
	}

	var info TypeInfo
	switch {
	case kindList != nil:
		info, err = extractor.formatAlternatives(kindList)

	case kind == "object":
		var result ExtractionResult
		result, err = extractor.ExtractFields(obj, enforceTitle)
		info = TypeInfo{Label: result.Title, Tables: result.Tables, IsObject: true}

	case kind == "array":
		info, err = extractor.formatArray(obj)

	default:
		// primitives and the special "file" marker render verbatim
		info = TypeInfo{Label: kind}
	}

	if err != nil {
		return TypeInfo{}, err
	}

	return applyEnum(obj, info), nil
}

// schemaKind returns the declared type of a node: a single type string, or
// the alternatives list for union (oneOf / multi-type) nodes.
func schemaKind(obj *Object) (string, []any, error) {
	if alternatives := objectSlice(obj, "oneOf"); len(alternatives) > 0 {
		return "", alternatives, nil
	}

	value, ok := obj.Get("type")
	if !ok {
		return "", nil, fmt.Errorf("%w: %v", ErrMissingType, obj)
	}

	if alternatives := asSlice(value); len(alternatives) > 0 {
		return "", alternatives, nil
	}

	kind := asString(value)
	if kind == "" {
		return "", nil, fmt.Errorf("%w: %v", ErrMissingType, obj)
	}

	return kind, nil, nil
}

// formatArray formats an array node. A sequence of item schemas denotes a
// tuple-typed array, formatted slot by slot.
func (extractor *Extractor) formatArray(obj *Object) (TypeInfo, error) {
	items, ok := obj.Get("items")
	if !ok {
		return TypeInfo{}, fmt.Errorf("array schema %q has no items", objectString(obj, "title"))
	}

	if tuple := asSlice(items); tuple != nil {
		labels := make([]string, 0, len(tuple))
		tables := make([]TypeTable, 0, len(tuple))
		for index, item := range tuple {
			nested, err := extractor.FormatType(item, false, true)
			if err != nil {
				return TypeInfo{}, fmt.Errorf("items[%d]: %w", index, err)
			}

			labels = append(labels, nested.Label)
			tables = append(tables, nested.Tables...)
		}

		return TypeInfo{Label: "[" + strings.Join(labels, ", ") + "]", Tables: tables}, nil
	}

	nested, err := extractor.FormatType(items, false, true)
	if err != nil {
		return TypeInfo{}, fmt.Errorf("items: %w", err)
	}

	return TypeInfo{
		Label:           "[" + nested.Label + "]",
		Tables:          nested.Tables,
		EnumDescription: nested.EnumDescription,
	}, nil
}

// formatAlternatives formats a union node: each alternative is formatted and
// the labels are joined with " or ". An enum clause contributed by one
// alternative is kept, qualified so readers know which branch it binds to.
func (extractor *Extractor) formatAlternatives(alternatives []any) (TypeInfo, error) {
	labels := make([]string, 0, len(alternatives))
	out := TypeInfo{}

	for index, alternative := range alternatives {
		if text := asString(alternative); text != "" {
			labels = append(labels, text)
			continue
		}

		nested, err := extractor.FormatType(alternative, false, true)
		if err != nil {
			return TypeInfo{}, fmt.Errorf("alternative[%d]: %w", index, err)
		}

		labels = append(labels, nested.Label)
		out.Tables = append(out.Tables, nested.Tables...)
		if nested.EnumDescription != "" {
			out.EnumDescription = nested.EnumDescription + " if the type is enum"
		}
	}

	out.Label = strings.Join(labels, " or ")
	return out, nil
}

// applyEnum overlays enum semantics onto an already-formatted node. A
// single-value enum documents as a constant of its primitive type; a
// multi-value enum documents as "enum" with the permitted values listed.
func applyEnum(obj *Object, info TypeInfo) TypeInfo {
	values := objectSlice(obj, "enum")
	if len(values) == 0 {
		return info
	}

	if len(values) == 1 {
		info.EnumDescription = fmt.Sprintf("Must be '%v'.", values[0])
		return info
	}

	if title := objectString(obj, "title"); title != "" {
		info.Label = title
	} else {
		info.Label = "enum"
	}

	info.EnumDescription = "One of: " + jsonListInline(values)
	return info
}

// jsonListInline renders a JSON array with a space after each comma, the
// form used in enum clauses throughout the rendered documentation.
func jsonListInline(values []any) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, mustJSONInline(value))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// composeDescription builds the final row description from its parts.
func composeDescription(required bool, description, enumDescription string) string {
	parts := make([]string, 0, 3)
	if required {
		parts = append(parts, requiredMarker)
	}

	if description != "" {
		parts = append(parts, description)
	}

	if enumDescription != "" {
		parts = append(parts, enumDescription)
	}

	return strings.Join(parts, " ")
}

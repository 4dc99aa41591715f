// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"fmt"
	"log/slog"
)

// mappedValueRowKey labels the synthetic row of an auxiliary enum table
// emitted for key/value maps whose values are enums.
const mappedValueRowKey = "(mapped value)"

// ExtractionResult is the outcome of extracting one object's fields.
type ExtractionResult struct {
	// Title identifies the object: its declared title, "object" for a
	// shapeless object, a "{key: value}" form for pure maps, or the
	// NO_TITLE sentinel under title enforcement.
	Title string
	// Tables holds the object's own table first, followed by the tables of
	// every nested object reachable from its fields.
	Tables []TypeTable
}

// ExtractFields turns a merged, dereferenced object schema into an ordered
// collection of field rows plus the auxiliary tables for nested shapes.
// Property declaration order becomes row order.
func (extractor *Extractor) ExtractFields(node any, enforceTitle bool) (ExtractionResult, error) {
	obj, ok := asObject(node)
	if !ok || objectString(obj, "type") != "object" {
		return ExtractionResult{}, fmt.Errorf("%w: %v", ErrNotAnObject, node)
	}

	title := objectString(obj, "title")

	additionalProps := objectChild(obj, "additionalProperties")
	props := objectChild(obj, "properties")
	if additionalProps != nil && props.Len() == 0 {
		return extractor.extractMap(additionalProps, enforceTitle)
	}

	if props.Len() == 0 {
		props = prettyPatternProperties(objectChild(obj, "patternProperties"))
	}

	// An object can be declared without spelling out any keys; it then
	// contributes a bare label and no table.
	if props.Len() == 0 {
		if title == "" {
			title = "object"
		}

		return ExtractionResult{Title: title}, nil
	}

	if enforceTitle && title == "" {
		if extractor.StrictTitles {
			return ExtractionResult{}, fmt.Errorf("%w: %v", ErrMissingTitle, obj)
		}

		extractor.logger().Warn("object schema has no title", "schema", obj.String())
		title = NoTitle
	}

	required := make(map[string]struct{})
	for _, key := range objectStrings(obj, "required") {
		required[key] = struct{}{}
	}

	rows := make([]TypeTableRow, 0, props.Len())
	var nested []TypeTable

	for _, key := range props.Keys() {
		prop, _ := props.Get(key)
		_, isRequired := required[key]

		info, err := extractor.FormatType(prop, isRequired, true)
		if err != nil {
			return ExtractionResult{}, fmt.Errorf("error reading property %s.%s: %w", title, key, err)
		}

		rows = append(rows, TypeTableRow{
			Key:         key,
			TypeLabel:   embeddedLabel(info),
			Required:    isRequired,
			Description: info.Description,
		})
		nested = append(nested, info.Tables...)
	}

	tables := append([]TypeTable{{
		Title:       title,
		Description: objectString(obj, "description"),
		Rows:        rows,
	}}, nested...)

	return ExtractionResult{Title: title, Tables: tables}, nil
}

// extractMap handles pure key/value maps: an object with only
// additionalProperties. The map is inlined into its parent's row as a
// "{key: value}" label and contributes no table of its own.
func (extractor *Extractor) extractMap(valueSchema *Object, enforceTitle bool) (ExtractionResult, error) {
	keyLabel := objectString(valueSchema, "x-pattern")
	if keyLabel == "" {
		keyLabel = "string"
	}

	info, err := extractor.FormatType(valueSchema, false, enforceTitle)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("additionalProperties: %w", err)
	}

	tables := info.Tables
	if info.EnumDescription != "" && info.Label != "enum" {
		// a map to a named enum needs its own table carrying the enum clause
		tables = append(tables, TypeTable{
			Title: info.Label,
			Rows: []TypeTableRow{{
				Key:         mappedValueRowKey,
				TypeLabel:   "enum",
				Description: info.Description,
			}},
		})
	}

	return ExtractionResult{
		Title:  fmt.Sprintf("{%s: %s}", keyLabel, info.Label),
		Tables: tables,
	}, nil
}

// prettyPatternProperties rewrites regex pattern keys to their friendly
// x-pattern display names where available, keeping declaration order. The
// input mapping is not modified.
func prettyPatternProperties(patterns *Object) *Object {
	if patterns.Len() == 0 {
		return nil
	}

	out := NewObject()
	for _, key := range patterns.Keys() {
		value, _ := patterns.Get(key)
		if child, ok := asObject(value); ok {
			if pretty := objectString(child, "x-pattern"); pretty != "" {
				key = pretty
			}
		}

		out.Set(key, value)
	}

	return out
}

// embeddedLabel renders a field's type label. A field whose shape is
// described by its own table is wrapped in braces to distinguish "shaped
// like table X" from a literal type name.
func embeddedLabel(info TypeInfo) string {
	if info.IsObject && len(info.Tables) > 0 && info.Tables[0].Title == info.Label {
		return "{" + info.Label + "}"
	}

	return info.Label
}

// logger returns the configured or default warning logger.
func (extractor *Extractor) logger() *slog.Logger {
	if extractor.Logger != nil {
		return extractor.Logger
	}

	return slog.Default()
}

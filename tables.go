// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"fmt"
	"regexp"
	"strings"
)

// NoTitle is substituted for a missing title when title enforcement is on,
// so the omission is visible in rendered output instead of vanishing.
const NoTitle = "NO_TITLE"

// BodyRowKey is the synthetic row key describing a whole response body.
const BodyRowKey = "<body>"

// TypeTableRow describes one field of a documented object type.
type TypeTableRow struct {
	// Key is the field name, or a synthetic marker such as <body>.
	Key string
	// TypeLabel is the short rendered type, e.g. "string", "[enum]", "{Event}".
	TypeLabel string
	// Required marks fields that must be present.
	Required bool
	// Description is the composed human-readable description.
	Description string
}

// TypeTable is a documentation-ready description of one object shape.
// An untitled table is anonymous and only used as the root table of a
// request or response body.
type TypeTable struct {
	Title       string
	Description string
	Rows        []TypeTableRow
}

// isNoTable reports whether the table is an empty placeholder that must
// never reach the output.
func (table TypeTable) isNoTable() bool {
	return table.Title == "" && len(table.Rows) == 0
}

// DeduplicateTables filters out repeated tables produced when the same
// named definition is reached through several parent paths.
//
// The scan runs backwards so that the last copy of each title is kept as
// canonical, then the kept list is reversed back, which yields a
// breadth-first rather than depth-first ordering with parents before the
// children they first reference.
func DeduplicateTables(tables []TypeTable) []TypeTable {
	seen := make(map[string]struct{}, len(tables))
	kept := make([]TypeTable, 0, len(tables))

	for index := len(tables) - 1; index >= 0; index-- {
		table := tables[index]
		if table.isNoTable() {
			continue
		}

		if _, ok := seen[table.Title]; ok {
			continue
		}

		seen[table.Title] = struct{}{}
		kept = append(kept, table)
	}

	for left, right := 0, len(kept)-1; left < right; left, right = left+1, right-1 {
		kept[left], kept[right] = kept[right], kept[left]
	}

	return kept
}

// TablesForSchema derives tables with the default lenient Extractor.
func TablesForSchema(schema any) ([]TypeTable, error) {
	return (&Extractor{}).TablesForSchema(schema)
}

// TablesForResponse derives response tables with the default lenient Extractor.
func TablesForResponse(schema any) ([]TypeTable, error) {
	return (&Extractor{}).TablesForResponse(schema)
}

// TablesForSchema derives the deduplicated type tables for one resolved schema.
func (extractor *Extractor) TablesForSchema(schema any) ([]TypeTable, error) {
	info, err := extractor.FormatType(schema, false, false)
	if err != nil {
		return nil, err
	}

	return DeduplicateTables(info.Tables), nil
}

// TablesForResponse derives response body tables. A non-object body gets an
// anonymous first table with a single <body> row, since there is no object
// table describing the whole payload.
func (extractor *Extractor) TablesForResponse(schema any) ([]TypeTable, error) {
	info, err := extractor.FormatType(schema, false, false)
	if err != nil {
		return nil, err
	}

	tables := DeduplicateTables(info.Tables)
	if !info.IsObject {
		bodyTable := TypeTable{
			Rows: []TypeTableRow{{
				Key:         BodyRowKey,
				TypeLabel:   info.Label,
				Description: info.Description,
			}},
		}
		tables = append([]TypeTable{bodyTable}, tables...)
	}

	return tables, nil
}

// embeddedTitlePattern matches a brace-embedded object type label; map
// labels like {string: Event} carry a colon and are excluded.
var embeddedTitlePattern = regexp.MustCompile(`^\{([^:{}]+)\}$`)

// CheckTables verifies that every brace-embedded type label in the emitted
// rows points at a table present in the list. Emitting a dangling reference
// would produce documentation that mentions a type it never defines.
func CheckTables(tables []TypeTable) error {
	titles := make(map[string]struct{}, len(tables))
	for _, table := range tables {
		titles[table.Title] = struct{}{}
	}

	for _, table := range tables {
		for _, row := range table.Rows {
			match := embeddedTitlePattern.FindStringSubmatch(row.TypeLabel)
			if match == nil {
				continue
			}

			target := strings.TrimSpace(match[1])
			if _, ok := titles[target]; !ok {
				return fmt.Errorf("row %q in table %q: %w: %q",
					row.Key, table.Title, ErrDanglingTable, target)
			}
		}
	}

	return nil
}

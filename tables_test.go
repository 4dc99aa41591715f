// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"errors"
	"testing"
)

func TestDeduplicateTablesKeepsLastCopy(t *testing.T) {
	t.Parallel()

	tables := []TypeTable{
		{Title: "Event", Rows: []TypeTableRow{{Key: "stale"}}},
		{Title: "Filter", Rows: []TypeTableRow{{Key: "limit"}}},
		{Title: "Event", Rows: []TypeTableRow{{Key: "fresh"}}},
	}

	got := DeduplicateTables(tables)
	if len(got) != 2 {
		t.Fatalf("deduplicated = %+v, want 2 tables", got)
	}

	if got[0].Title != "Filter" || got[1].Title != "Event" {
		t.Fatalf("order = %q, %q", got[0].Title, got[1].Title)
	}

	if got[1].Rows[0].Key != "fresh" {
		t.Fatalf("kept copy = %+v, want the last one", got[1].Rows)
	}
}

func TestDeduplicateTablesIsStableWithoutDuplicates(t *testing.T) {
	t.Parallel()

	tables := []TypeTable{
		{Title: "Alpha", Rows: []TypeTableRow{{Key: "a"}}},
		{Title: "Beta", Rows: []TypeTableRow{{Key: "b"}}},
		{Title: "Gamma", Rows: []TypeTableRow{{Key: "c"}}},
	}

	got := DeduplicateTables(tables)
	if len(got) != 3 {
		t.Fatalf("deduplicated = %+v, want all 3", got)
	}

	for index, table := range got {
		if table.Title != tables[index].Title {
			t.Fatalf("order changed: %+v", got)
		}
	}
}

func TestDeduplicateTablesDropsEmptyPlaceholders(t *testing.T) {
	t.Parallel()

	tables := []TypeTable{
		{Title: "", Rows: nil},
		{Title: "Kept", Rows: []TypeTableRow{{Key: "k"}}},
	}

	got := DeduplicateTables(tables)
	if len(got) != 1 || got[0].Title != "Kept" {
		t.Fatalf("deduplicated = %+v, want only Kept", got)
	}
}

func TestTablesForSchemaDeduplicatesSharedDefinitions(t *testing.T) {
	t.Parallel()

	tables, err := TablesForSchema(mustYAML(t, `
type: object
title: Sync
properties:
  joined:
    type: object
    title: Timeline
    properties:
      limited:
        type: boolean
  invited:
    type: object
    title: Timeline
    properties:
      limited:
        type: boolean
`))
	if err != nil {
		t.Fatalf("tables: %v", err)
	}

	count := 0
	for _, table := range tables {
		if table.Title == "Timeline" {
			count++
		}
	}

	if count != 1 {
		t.Fatalf("Timeline appears %d times, want 1:\n%+v", count, tables)
	}
}

func TestTablesForResponseNonObjectGetsBodyRow(t *testing.T) {
	t.Parallel()

	tables, err := TablesForResponse(mustYAML(t, `
type: array
description: A list of user IDs.
items:
  type: string
`))
	if err != nil {
		t.Fatalf("tables: %v", err)
	}

	if len(tables) == 0 {
		t.Fatal("no tables")
	}

	first := tables[0]
	if first.Title != "" || len(first.Rows) != 1 {
		t.Fatalf("first table = %+v, want anonymous single-row table", first)
	}

	row := first.Rows[0]
	if row.Key != BodyRowKey || row.TypeLabel != "[string]" {
		t.Fatalf("body row = %+v", row)
	}
}

func TestTablesForResponseObjectHasNoBodyRow(t *testing.T) {
	t.Parallel()

	tables, err := TablesForResponse(mustYAML(t, `
type: object
title: Response
properties:
  next_batch:
    type: string
`))
	if err != nil {
		t.Fatalf("tables: %v", err)
	}

	for _, table := range tables {
		for _, row := range table.Rows {
			if row.Key == BodyRowKey {
				t.Fatalf("unexpected body row in %+v", tables)
			}
		}
	}
}

func TestCheckTablesAcceptsResolvedLabels(t *testing.T) {
	t.Parallel()

	tables := []TypeTable{
		{Title: "Outer", Rows: []TypeTableRow{{Key: "inner", TypeLabel: "{Inner}"}}},
		{Title: "Inner", Rows: []TypeTableRow{{Key: "leaf", TypeLabel: "string"}}},
	}

	if err := CheckTables(tables); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestCheckTablesRejectsDanglingLabel(t *testing.T) {
	t.Parallel()

	tables := []TypeTable{
		{Title: "Outer", Rows: []TypeTableRow{{Key: "inner", TypeLabel: "{Missing}"}}},
	}

	err := CheckTables(tables)
	if !errors.Is(err, ErrDanglingTable) {
		t.Fatalf("err = %v, want ErrDanglingTable", err)
	}
}

func TestCheckTablesIgnoresMapLabels(t *testing.T) {
	t.Parallel()

	tables := []TypeTable{
		{Title: "Outer", Rows: []TypeTableRow{{Key: "aliases", TypeLabel: "{string: [string]}"}}},
	}

	if err := CheckTables(tables); err != nil {
		t.Fatalf("map labels are not table references: %v", err)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"errors"
	"testing"
)

func TestFormatTypePrimitive(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: string
description: A display name.
`), false)

	if info.Label != "string" {
		t.Fatalf("label = %q, want string", info.Label)
	}

	if info.Description != "A display name." {
		t.Fatalf("description = %q", info.Description)
	}
}

func TestFormatTypeRequiredMarkerPrefixesDescription(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: string
description: A display name.
`), true)

	want := "**Required.** A display name."
	if info.Description != want {
		t.Fatalf("description = %q, want %q", info.Description, want)
	}
}

func TestFormatTypeSingleValueEnumKeepsPrimitiveLabel(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: string
description: The membership state.
enum: [join]
`), false)

	if info.Label != "string" {
		t.Fatalf("label = %q, want string", info.Label)
	}

	want := "The membership state. Must be 'join'."
	if info.Description != want {
		t.Fatalf("description = %q, want %q", info.Description, want)
	}
}

func TestFormatTypeMultiValueEnum(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: string
description: The visibility.
enum: [public, private]
`), false)

	if info.Label != "enum" {
		t.Fatalf("label = %q, want enum", info.Label)
	}

	want := `The visibility. One of: ["public", "private"]`
	if info.Description != want {
		t.Fatalf("description = %q, want %q", info.Description, want)
	}
}

func TestFormatTypeTitledEnumUsesTitleAsLabel(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: string
title: Membership
enum: [join, leave]
`), false)

	if info.Label != "Membership" {
		t.Fatalf("label = %q, want Membership", info.Label)
	}
}

func TestFormatTypeArrayOfPrimitives(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: array
items:
  type: string
`), false)

	if info.Label != "[string]" {
		t.Fatalf("label = %q, want [string]", info.Label)
	}
}

func TestFormatTypeTupleArray(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: array
items:
  - type: string
  - type: integer
`), false)

	if info.Label != "[string, integer]" {
		t.Fatalf("label = %q, want [string, integer]", info.Label)
	}
}

func TestFormatTypeArrayOfObjectsCollectsTables(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: array
items:
  type: object
  title: StateEvent
  properties:
    state_key:
      type: string
`), false)

	if info.Label != "[StateEvent]" {
		t.Fatalf("label = %q, want [StateEvent]", info.Label)
	}

	if len(info.Tables) != 1 || info.Tables[0].Title != "StateEvent" {
		t.Fatalf("tables = %+v, want one StateEvent table", info.Tables)
	}
}

func TestFormatTypeUnionJoinsAlternatives(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
type: [string, integer]
`), false)

	if info.Label != "string or integer" {
		t.Fatalf("label = %q, want %q", info.Label, "string or integer")
	}
}

func TestFormatTypeOneOfEnumClauseIsQualified(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
oneOf:
  - type: string
    enum: [alpha, beta]
  - type: integer
description: A flexible field.
`), false)

	assertContains(t, info.Description, `One of: ["alpha", "beta"] if the type is enum`)
}

func TestFormatTypeMergesParentsFirst(t *testing.T) {
	t.Parallel()

	info := mustFormat(t, mustYAML(t, `
allOf:
  - type: string
    description: Inherited.
`), false)

	if info.Label != "string" {
		t.Fatalf("label = %q, want string", info.Label)
	}

	if info.Description != "Inherited." {
		t.Fatalf("description = %q, want Inherited.", info.Description)
	}
}

func TestFormatTypeMissingTypeFails(t *testing.T) {
	t.Parallel()

	_, err := FormatType(mustYAML(t, "description: no type here"), false, false)
	if !errors.Is(err, ErrMissingType) {
		t.Fatalf("err = %v, want ErrMissingType", err)
	}
}

// mustFormat formats a node with the default extractor and no title
// enforcement.
func mustFormat(t *testing.T, node any, required bool) TypeInfo {
	t.Helper()

	info, err := FormatType(node, required, false)
	if err != nil {
		t.Fatalf("format type: %v", err)
	}

	return info
}

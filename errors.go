// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import "errors"

var (
	// ErrReadSchemaFile is returned when a schema file cannot be read from disk.
	ErrReadSchemaFile = errors.New("read schema file")
	// ErrDecodeSchema is returned when schema YAML/JSON decoding fails.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrReferenceNotFound is returned when a $ref target file does not exist.
	ErrReferenceNotFound = errors.New("reference target not found")
	// ErrCyclicReference is returned when $ref resolution detects a reference cycle.
	ErrCyclicReference = errors.New("cyclic reference")
	// ErrBadFragment is returned when a $ref fragment does not resolve inside the target document.
	ErrBadFragment = errors.New("reference fragment not found")
	// ErrNotAnObject is returned when field extraction is invoked on a non-object schema.
	ErrNotAnObject = errors.New("schema is not an object")
	// ErrMissingType is returned when a schema node declares neither type nor oneOf.
	ErrMissingType = errors.New("schema has no type")
	// ErrMissingTitle is returned in strict mode when a schema that needs a title has none.
	ErrMissingTitle = errors.New("schema has no title")
	// ErrUnsynthesizableType is returned when example synthesis hits a type it cannot fabricate.
	ErrUnsynthesizableType = errors.New("cannot synthesize example for type")
	// ErrMissingExampleSource is returned when object/array synthesis has no properties/items and no example.
	ErrMissingExampleSource = errors.New("schema has neither structure nor example")
	// ErrMissingStateKeyDescription is returned when a state event schema lacks a state_key description.
	ErrMissingStateKeyDescription = errors.New("missing description for state_key")
	// ErrDanglingTable is returned when a row references an object table absent from the emitted list.
	ErrDanglingTable = errors.New("row references a table that is not emitted")
	// ErrUnknownBuiltinTemplate is returned when requested built-in template name is not registered.
	ErrUnknownBuiltinTemplate = errors.New("unknown built-in template")
	// ErrReadBuiltinTemplate is returned when built-in template file loading fails.
	ErrReadBuiltinTemplate = errors.New("read built-in template")
	// ErrParseBuiltinTemplate is returned when built-in template parsing fails.
	ErrParseBuiltinTemplate = errors.New("parse built-in template")
	// ErrExecuteTemplate is returned when markdown template execution fails.
	ErrExecuteTemplate = errors.New("execute markdown template")
	// ErrEncodeExampleJSON is returned when example JSON encoding fails.
	ErrEncodeExampleJSON = errors.New("encode example json")
)

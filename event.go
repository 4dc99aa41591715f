// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// roomEventRef marks schemas inheriting the message event base.
	roomEventRef = "core-event-schema/room_event.yaml"
	// stateEventRef marks schemas inheriting the state event base.
	stateEventRef = "core-event-schema/state_event.yaml"

	// TypeOfMessageEvent labels schemas derived from the room event base.
	TypeOfMessageEvent = "Message Event"
	// TypeOfStateEvent labels schemas derived from the state event base.
	TypeOfStateEvent = "State Event"
)

// EventSchema is the documentation-ready description of one event type.
type EventSchema struct {
	// Type is the event type identifier, e.g. "m.room.member".
	Type string
	// TypeOf is "Message Event", "State Event" or empty.
	TypeOf string
	// TypeOfInfo carries extra kind information, e.g. the state_key meaning.
	TypeOfInfo string
	// Title and Description come from the schema root.
	Title       string
	Description string
	// MsgType is the msgtype constant for message-content events, if any.
	MsgType string
	// TypeWithMsgType is a display form combining Type and MsgType.
	TypeWithMsgType string
	// ContentFields are the deduplicated type tables for the event content.
	ContentFields []TypeTable
}

// ReadEventSchema parses and resolves one event schema file.
func (build *Build) ReadEventSchema(path string) (EventSchema, error) {
	raw, err := LoadFile(path)
	if err != nil {
		return EventSchema{}, err
	}

	out := EventSchema{TypeOf: baseEventKind(raw)}

	resolved, err := build.Resolver.Resolve(path, raw)
	if err != nil {
		return EventSchema{}, err
	}

	// The root is read unmerged: every event schema must declare its own
	// type enum and state_key description rather than inherit generic ones.
	root, ok := asObject(resolved)
	if !ok {
		return EventSchema{}, fmt.Errorf("%w: event schema root is not a mapping", ErrDecodeSchema)
	}

	typeEnum, _ := walkPath(root, "properties/type/enum")
	typeValues := asSlice(typeEnum)
	if len(typeValues) == 0 {
		return EventSchema{}, fmt.Errorf("event schema %q has no properties/type/enum", path)
	}

	out.Type = asString(typeValues[0])
	out.Title = objectString(root, "title")
	out.Description = objectString(root, "description")

	content, ok := walkPath(root, "properties/content")
	if !ok {
		return EventSchema{}, fmt.Errorf("event schema %q has no properties/content", path)
	}

	out.ContentFields, err = build.Extractor.TablesForSchema(content)
	if err != nil {
		return EventSchema{}, fmt.Errorf("event content of %q: %w", path, err)
	}

	if msgtype, ok := walkPath(root, "properties/content/properties/msgtype/enum"); ok {
		if values := asSlice(msgtype); len(values) > 0 {
			out.MsgType = asString(values[0])
			out.TypeWithMsgType = out.Type + " (" + out.MsgType + ")"
		}
	}

	if out.Type == "m.room.message" && out.MsgType == "" {
		out.Description += " For more information on `msgtypes`, see [m.room.message msgtypes](#mroommessage-msgtypes)."
	}

	// key verification start events are displayed per handshake method
	if out.Type == "m.key.verification.start" {
		if methods, ok := walkPath(root, "properties/content/properties/method/enum"); ok {
			if values := asSlice(methods); len(values) > 0 {
				out.TypeWithMsgType = out.Type + " (" + asString(values[0]) + ")"
			}
		}
	}

	if out.TypeOf == TypeOfStateEvent {
		description, _ := walkPath(root, "properties/state_key/description")
		stateKeyDesc := asString(description)
		if stateKeyDesc == "" {
			return EventSchema{}, fmt.Errorf("%w in %q", ErrMissingStateKeyDescription, path)
		}

		out.TypeOfInfo = "`state_key`: " + stateKeyDesc
	}

	return out, nil
}

// baseEventKind inspects the first allOf reference of a raw, unresolved
// schema: inheriting from one of the core event bases classifies the event.
func baseEventKind(raw any) string {
	root, ok := asObject(raw)
	if !ok {
		return ""
	}

	parents := objectSlice(root, "allOf")
	if len(parents) == 0 {
		return ""
	}

	first, ok := asObject(parents[0])
	if !ok {
		return ""
	}

	switch objectString(first, "$ref") {
	case roomEventRef:
		return TypeOfMessageEvent
	case stateEventRef:
		return TypeOfStateEvent
	default:
		return ""
	}
}

// LoadEventSchemas reads every m.* schema file in dir. Per-file failures
// are collected and reported together so one broken schema does not hide
// unrelated failures; the successfully parsed schemas are still returned.
func (build *Build) LoadEventSchemas(dir string) (map[string]EventSchema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read event schema dir: %w", err)
	}

	out := make(map[string]EventSchema)
	var failures []error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "m.") {
			continue
		}

		path := filepath.Join(dir, name)
		build.logger().Info("reading event schema", "path", path)

		schema, err := build.ReadEventSchema(path)
		if err != nil {
			failures = append(failures, fmt.Errorf("event schema %s: %w", path, err))
			continue
		}

		out[strings.TrimSuffix(name, ".yaml")] = schema
	}

	return out, errors.Join(failures...)
}

// LoadEventExamples reads every m.* example file in dir. A "$"-suffixed
// file name like "m.foo$bar" registers the example under both its full
// name and the base event name. Examples are JSON documents and may
// themselves contain references.
func (build *Build) LoadEventExamples(dir string) (map[string][]any, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read event example dir: %w", err)
	}

	out := make(map[string][]any)
	var failures []error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "m.") {
			continue
		}

		path := filepath.Join(dir, name)
		build.logger().Info("reading event example", "path", path)

		example, err := build.readEventExample(path)
		if err != nil {
			failures = append(failures, fmt.Errorf("event example %s: %w", path, err))
			continue
		}

		out[name] = append(out[name], example)
		if base, _, cut := strings.Cut(name, "$"); cut {
			out[base] = append(out[base], example)
		}
	}

	return out, errors.Join(failures...)
}

// readEventExample parses one example file and resolves references inside it.
func (build *Build) readEventExample(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadSchemaFile, path, err)
	}

	raw, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}

	return build.Resolver.Resolve(path, raw)
}

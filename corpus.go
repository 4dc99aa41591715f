// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// unsafeNameChars matches every character that may not appear in a
// definition group name.
var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Definition is one reusable schema definition with its derived tables.
type Definition struct {
	// Title is the definition title, or NO_TITLE when the schema has none.
	Title string
	// Description comes from the schema root.
	Description string
	// Tables are the deduplicated type tables for the definition.
	Tables []TypeTable
	// Examples holds the synthesized example, when one could be built.
	Examples []any
}

// CorpusConfig names the directories of one specification corpus.
type CorpusConfig struct {
	// EventSchemaDir holds the m.* event schema files.
	EventSchemaDir string
	// EventExampleDir holds the m.* event example files.
	EventExampleDir string
	// CommonEventSchemaDir holds the shared base event schemas.
	CommonEventSchemaDir string
	// APIDirs maps a Swagger API directory to its group-name suffix,
	// e.g. "api/client-server" -> "cs".
	APIDirs map[string]string
	// DefinitionDirs maps a definitions directory to its group-name
	// prefix, e.g. "event-schemas/schema" -> "event".
	DefinitionDirs map[string]string
}

// Units is everything a corpus build produces for rendering.
type Units struct {
	// Events maps event schema file stems to their processed schemas.
	Events map[string]EventSchema
	// EventExamples maps event names to their example documents.
	EventExamples map[string][]any
	// CommonEventFields maps base schema names to their type info.
	CommonEventFields map[string]TypeInfo
	// APIs maps group names to their processed API descriptions.
	APIs map[string]*APIGroup
	// Definitions maps group names to reusable schema definitions.
	Definitions map[string]Definition
}

// LoadCorpus processes every configured directory. Failures in one unit do
// not stop the others; everything that failed is reported together and the
// successfully loaded units are still returned.
func (build *Build) LoadCorpus(config CorpusConfig) (*Units, error) {
	units := &Units{}

	var failures []error

	if config.EventSchemaDir != "" {
		events, err := build.LoadEventSchemas(config.EventSchemaDir)
		if err != nil {
			failures = append(failures, err)
		}

		units.Events = events
	}

	if config.EventExampleDir != "" {
		examples, err := build.LoadEventExamples(config.EventExampleDir)
		if err != nil {
			failures = append(failures, err)
		}

		units.EventExamples = examples
	}

	if config.CommonEventSchemaDir != "" {
		common, err := build.LoadCommonEventFields(config.CommonEventSchemaDir)
		if err != nil {
			failures = append(failures, err)
		}

		units.CommonEventFields = common
	}

	if len(config.APIDirs) > 0 {
		apis, err := build.LoadSwaggerAPIs(config.APIDirs)
		if err != nil {
			failures = append(failures, err)
		}

		units.APIs = apis
	}

	if len(config.DefinitionDirs) > 0 {
		definitions, err := build.LoadSwaggerDefinitions(config.DefinitionDirs)
		if err != nil {
			failures = append(failures, err)
		}

		units.Definitions = definitions
	}

	return units, errors.Join(failures...)
}

// LoadSwaggerAPIs reads every .yaml API file in the configured directories.
// The group name is the file stem with dashes replaced by underscores plus
// the directory suffix, e.g. "rooms.yaml" in a "cs" directory becomes
// "rooms_cs".
func (build *Build) LoadSwaggerAPIs(dirs map[string]string) (map[string]*APIGroup, error) {
	out := make(map[string]*APIGroup)
	var failures []error

	for dir, suffix := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			failures = append(failures, fmt.Errorf("read swagger API dir: %w", err))
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
				continue
			}

			path := filepath.Join(dir, name)
			build.logger().Info("reading swagger API", "path", path)

			groupName := strings.ReplaceAll(strings.TrimSuffix(name, ".yaml"), "-", "_") + "_" + suffix

			api, err := build.LoadSwaggerAPI(path, groupName)
			if err != nil {
				failures = append(failures, fmt.Errorf("swagger API %s: %w", path, err))
				continue
			}

			out[groupName] = api
		}
	}

	return out, errors.Join(failures...)
}

// LoadSwaggerDefinitions reads every .yaml definition file in the
// configured directories, descending one subdirectory level. Files whose
// schema has no "type" are skipped; a definition whose example cannot be
// synthesized still documents, just without one.
func (build *Build) LoadSwaggerDefinitions(dirs map[string]string) (map[string]Definition, error) {
	out := make(map[string]Definition)
	var failures []error

	for dir, prefix := range dirs {
		if err := build.loadDefinitionDir(out, dir, prefix, true); err != nil {
			failures = append(failures, err)
		}
	}

	return out, errors.Join(failures...)
}

func (build *Build) loadDefinitionDir(out map[string]Definition, dir, prefix string, recurse bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("read swagger definition dir: %w", err)
	}

	var failures []error

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			if recurse {
				dirPrefix := prefix + "_" + unsafeNameChars.ReplaceAllString(name, "_")
				if err := build.loadDefinitionDir(out, path, dirPrefix, false); err != nil {
					failures = append(failures, err)
				}
			}

			continue
		}

		if !strings.HasSuffix(name, ".yaml") {
			continue
		}

		build.logger().Info("reading swagger definition", "path", path)

		groupName := prefix + "_" + unsafeNameChars.ReplaceAllString(strings.TrimSuffix(name, ".yaml"), "_")

		definition, err := build.readDefinition(path)
		if err != nil {
			failures = append(failures, fmt.Errorf("swagger definition %s: %w", path, err))
			continue
		}

		if definition != nil {
			out[groupName] = *definition
		}
	}

	return errors.Join(failures...)
}

// readDefinition resolves one definition file into a Definition, or nil
// when the file holds no typed schema.
func (build *Build) readDefinition(path string) (*Definition, error) {
	resolved, err := build.Resolver.ResolveFile(path)
	if err != nil {
		return nil, err
	}

	schema, ok := asObject(resolved)
	if !ok || !schema.Has("type") {
		return nil, nil
	}

	out := Definition{
		Title:       objectString(schema, "title"),
		Description: objectString(schema, "description"),
	}
	if out.Title == "" {
		out.Title = NoTitle
	}

	if example, err := ExampleForSchema(schema); err == nil {
		out.Examples = append(out.Examples, example)
	}

	out.Tables, err = build.Extractor.TablesForSchema(schema)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// LoadCommonEventFields derives type info for every shared base event
// schema in dir, keyed by file stem. Base schemas are always expected to
// carry a title.
func (build *Build) LoadCommonEventFields(dir string) (map[string]TypeInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read common event schema dir: %w", err)
	}

	out := make(map[string]TypeInfo)
	var failures []error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		path := filepath.Join(dir, name)
		build.logger().Info("reading event schema", "path", path)

		resolved, err := build.Resolver.ResolveFile(path)
		if err != nil {
			failures = append(failures, fmt.Errorf("common event schema %s: %w", path, err))
			continue
		}

		info, err := build.Extractor.FormatType(resolved, false, true)
		if err != nil {
			failures = append(failures, fmt.Errorf("common event schema %s: %w", path, err))
			continue
		}

		out[strings.TrimSuffix(name, ".yaml")] = info
	}

	return out, errors.Join(failures...)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

/*
Package specdoc renders CommonMark documentation from Matrix specification
schemas: JSON Schema event definitions and Swagger API descriptions.

Schemas are loaded with their key order preserved, $ref targets are
resolved relative to the referencing file, and allOf inheritance is merged
child-last before field tables are derived. The derived tables, examples
and endpoint descriptions render through built-in templates ("event",
"api") or custom template text.

Render one event schema:

	build := specdoc.NewBuild(specdoc.BuildOptions{})

	schema, err := build.ReadEventSchema("event-schemas/schema/m.room.member")
	if err != nil {
		return err
	}

	md, err := specdoc.RenderEvent(schema, nil, specdoc.RenderOptions{})
	if err != nil {
		return err
	}

	fmt.Println(md)

Render one Swagger API description:

	group, err := build.LoadSwaggerAPI("api/client-server/rooms.yaml", "rooms_cs")
	if err != nil {
		return err
	}

	md, err := specdoc.RenderAPI(group, specdoc.RenderOptions{})
	if err != nil {
		return err
	}

	fmt.Println(md)

Derive field tables from any resolved schema:

	resolved, err := build.Resolver.ResolveFile("schema.yaml")
	if err != nil {
		return err
	}

	tables, err := specdoc.TablesForSchema(resolved)
	if err != nil {
		return err
	}

	for _, table := range tables {
		fmt.Println(table.Title, len(table.Rows))
	}

Process a whole corpus, collecting every loading failure:

	units, err := build.LoadCorpus(specdoc.CorpusConfig{
		EventSchemaDir:  "event-schemas/schema",
		EventExampleDir: "event-schemas/examples",
		APIDirs:         map[string]string{"api/client-server": "cs"},
	})
	if err != nil {
		log.Printf("corpus loaded with errors: %v", err)
	}

	fmt.Println(len(units.Events), len(units.APIs))
*/
package specdoc

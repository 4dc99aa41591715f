// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var updateGolden = flag.Bool("update", false, "update golden files")

func testEventSchema() EventSchema {
	return EventSchema{
		Type:        "m.example.topic",
		TypeOf:      TypeOfStateEvent,
		TypeOfInfo:  "`state_key`: A zero-length string.",
		Title:       "Topic",
		Description: "A topic change.",
		ContentFields: []TypeTable{{
			Title: "TopicContent",
			Rows: []TypeTableRow{{
				Key:         "topic",
				TypeLabel:   "string",
				Required:    true,
				Description: "**Required.** The topic text.",
			}},
		}},
	}
}

func TestRenderEventMarkdown(t *testing.T) {
	t.Parallel()

	example := NewObject()
	example.Set("type", "m.example.topic")

	rendered, err := RenderEvent(testEventSchema(), []any{example}, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	assertContains(t, rendered, "## `m.example.topic`")
	assertContains(t, rendered, "*State Event*")
	assertContains(t, rendered, "### TopicContent")
	assertContains(t, rendered, "| `topic` | string | Required | **Required.** The topic text. |")
	assertContains(t, rendered, "### Examples")
	assertContains(t, rendered, `"type": "m.example.topic"`)

	if !strings.HasSuffix(rendered, "\n") {
		t.Fatal("rendered output must end with a newline")
	}
}

func TestRenderEventRejectsDanglingTableReference(t *testing.T) {
	t.Parallel()

	schema := testEventSchema()
	schema.ContentFields[0].Rows[0].TypeLabel = "{Missing}"

	if _, err := RenderEvent(schema, nil, RenderOptions{}); err == nil {
		t.Fatal("dangling table reference should fail the render")
	}
}

func TestRenderEventCustomTemplate(t *testing.T) {
	t.Parallel()

	rendered, err := RenderEvent(testEventSchema(), nil, RenderOptions{
		TemplateText: "event: {{ .Schema.Type }}",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if strings.TrimSpace(rendered) != "event: m.example.topic" {
		t.Fatalf("rendered = %q", rendered)
	}
}

func TestRenderEventHTML(t *testing.T) {
	t.Parallel()

	rendered, err := RenderEvent(testEventSchema(), nil, RenderOptions{HTML: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	assertContains(t, rendered, "<table>")
	assertContains(t, rendered, "<code>m.example.topic</code>")
	assertNotContains(t, rendered, "| ---")
}

func TestRenderAPIMarkdown(t *testing.T) {
	t.Parallel()

	group := &APIGroup{
		BasePath:  "/_matrix/client/r0",
		GroupName: "join_cs",
		Endpoints: []Endpoint{{
			Title:        "Join a room.",
			Description:  "Joins the room by its identifier.",
			Method:       "POST",
			Path:         "/_matrix/client/r0/rooms/{roomId}/join",
			RequiresAuth: true,
			RateLimited:  true,
			ReqParamByLoc: map[string][]TypeTableRow{
				"path": {{
					Key:         "roomId",
					TypeLabel:   "string",
					Required:    true,
					Description: "**Required.** The room to join.",
				}},
			},
			Responses: []ResponseInfo{{
				Code:        "200",
				Description: "The room was joined.",
				Example:     "{\n  \"room_id\": \"!abc:example.org\"\n}",
			}},
			Example: RequestExample{
				Req: "POST /_matrix/client/r0/rooms/!abc:example.org/join HTTP/1.1\n\n",
			},
		}},
	}

	rendered, err := RenderAPI(group, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	assertContains(t, rendered, "# join_cs")
	assertContains(t, rendered, "## POST /_matrix/client/r0/rooms/{roomId}/join")
	assertContains(t, rendered, "| Rate-limited | Yes |")
	assertContains(t, rendered, "| Requires authentication | Yes |")
	assertContains(t, rendered, "**path parameters**")
	assertContains(t, rendered, "| `roomId` | string | Required |")
	assertContains(t, rendered, "**Example request**")
	assertContains(t, rendered, "**Example 200 response**")
}

func TestRenderEventGolden(t *testing.T) {
	schemaPath := filepath.Join("testdata", "m.example.flag")
	schema, err := newTestBuild().ReadEventSchema(schemaPath)
	if err != nil {
		t.Fatalf("ReadEventSchema: %v", err)
	}

	content := NewObject()
	content.Set("reason", "spam")
	example := NewObject()
	example.Set("type", "m.example.flag")
	example.Set("content", content)

	got, err := RenderEvent(schema, []any{example}, RenderOptions{})
	if err != nil {
		t.Fatalf("RenderEvent: %v", err)
	}

	goldenPath := filepath.Join("testdata", "event.golden.md")
	if *updateGolden {
		if err := os.WriteFile(goldenPath, []byte(got), 0o600); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}

	wantBytes, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}

	if got != string(wantBytes) {
		t.Fatalf("golden mismatch; run `go test . -run TestRenderEventGolden -update`")
	}
}

func TestBuiltinTemplateNames(t *testing.T) {
	t.Parallel()

	names := BuiltinTemplateNames()
	if strings.Join(names, ",") != "api,event" {
		t.Fatalf("names = %v", names)
	}
}

func TestBuiltinTemplateUnknownName(t *testing.T) {
	t.Parallel()

	if _, err := BuiltinTemplate("nope"); err == nil {
		t.Fatal("unknown template name should fail")
	}
}

func TestTableCellFlattensAndEscapes(t *testing.T) {
	t.Parallel()

	got := tableCell("multi\nline | with pipe")
	want := "multi line \\| with pipe"
	if got != want {
		t.Fatalf("cell = %q, want %q", got, want)
	}
}

func TestHeadingAnchorSlugs(t *testing.T) {
	t.Parallel()

	got := headingAnchor("m.room.message msgtypes")
	want := "mroommessage-msgtypes"
	if got != want {
		t.Fatalf("anchor = %q, want %q", got, want)
	}
}

func TestNormalizeMarkdownOutputCollapsesBlankRuns(t *testing.T) {
	t.Parallel()

	got := normalizeMarkdownOutput("a\n\n\n\nb\n```\nx\n\n\ny\n```\n")
	assertContains(t, got, "a\n\nb")
	assertContains(t, got, "x\n\n\ny")
}

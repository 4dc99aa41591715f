// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// templateFS stores built-in markdown templates embedded into the package.
//
//go:embed templates/*.md.gotmpl
var templateFS embed.FS

// builtInTemplateFiles maps template aliases to embedded file paths.
var builtInTemplateFiles = map[string]string{
	templateEventName: "templates/event.md.gotmpl",
	templateAPIName:   "templates/api.md.gotmpl",
}

const (
	templateEventName = "event"
	templateAPIName   = "api"
)

// RenderOptions configures markdown rendering.
type RenderOptions struct {
	// TemplateText overrides the built-in template when non-empty.
	TemplateText string
	// HTML converts the rendered markdown to HTML.
	HTML bool
}

// eventView is the root view model for the event template.
type eventView struct {
	Schema   EventSchema
	Examples []any
}

// apiView is the root view model for the API template.
type apiView struct {
	Group *APIGroup
}

// RenderEvent renders one processed event schema, with its examples, into
// a CommonMark document.
func RenderEvent(schema EventSchema, examples []any, opt RenderOptions) (string, error) {
	if err := CheckTables(schema.ContentFields); err != nil {
		return "", fmt.Errorf("event %s: %w", schema.Type, err)
	}

	return render(templateEventName, eventView{Schema: schema, Examples: examples}, opt)
}

// RenderAPI renders one processed API group into a CommonMark document.
func RenderAPI(group *APIGroup, opt RenderOptions) (string, error) {
	for _, endpoint := range group.Endpoints {
		tables := append(append([]TypeTable{}, endpoint.ReqBodyTables...), endpoint.ResTables...)
		if err := CheckTables(tables); err != nil {
			return "", fmt.Errorf("endpoint %s %s: %w", endpoint.Method, endpoint.Path, err)
		}
	}

	return render(templateAPIName, apiView{Group: group}, opt)
}

// render executes the named built-in template, or the override text, over
// the view model.
func render(name string, view any, opt RenderOptions) (string, error) {
	parsed, err := resolveTemplate(name, opt.TemplateText)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := parsed.Execute(&out, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteTemplate, err)
	}

	markdown := ensureTrailingNewline(normalizeMarkdownOutput(out.String()))
	if opt.HTML {
		return MarkdownToHTML(markdown), nil
	}

	return markdown, nil
}

// resolveTemplate resolves either custom or built-in template text into a
// parsed template.
func resolveTemplate(name, templateText string) (*template.Template, error) {
	if text := strings.TrimSpace(templateText); text != "" {
		return template.New("custom").Funcs(templateFuncs()).Parse(text)
	}

	templateText, err := BuiltinTemplate(name)
	if err != nil {
		return nil, err
	}

	parsed, err := template.New(name).Funcs(templateFuncs()).Parse(templateText)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseBuiltinTemplate, name, err)
	}

	return parsed, nil
}

// templateFuncs provides utility functions available inside markdown templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"cell": tableCell,
		"jsonInline": func(value any) string {
			return escapeInline(mustJSONInline(value))
		},
		"jsonIndent":    jsonIndent,
		"headingAnchor": headingAnchor,
		"requiredMark": func(required bool) string {
			if required {
				return "Required"
			}

			return ""
		},
	}
}

// BuiltinTemplateNames returns all available built-in template names.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtInTemplateFiles))
	for name := range builtInTemplateFiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// BuiltinTemplate returns one built-in template by name.
func BuiltinTemplate(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	path, ok := builtInTemplateFiles[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownBuiltinTemplate, name)
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadBuiltinTemplate, err)
	}

	return string(data), nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// jsonBodyLocation is the synthetic parameter location holding the
// top-level rows of a JSON request body.
const jsonBodyLocation = "JSON body"

// APIGroup is one merged Swagger API description ready for rendering.
type APIGroup struct {
	// BasePath is the API base path with any trailing slash removed.
	BasePath string
	// GroupName identifies the group in rendered output, e.g. "rooms_cs".
	GroupName string
	// Endpoints lists every operation in path-then-method declaration order.
	Endpoints []Endpoint
}

// ResponseInfo describes one documented response status.
type ResponseInfo struct {
	Code        string
	Description string
	// Example is a JSON-rendered example body, empty when none applies.
	Example string
}

// RequestExample is a literal formatted example HTTP request.
type RequestExample struct {
	Req string
}

// Endpoint is the documentation-ready description of one API operation.
type Endpoint struct {
	Title       string
	Description string
	Deprecated  bool
	Method      string
	Path        string
	// RequiresAuth is set when the operation declares a security policy.
	RequiresAuth bool
	// RateLimited is set when the operation documents a 429 response.
	RateLimited bool
	// ReqParamByLoc groups request parameter rows by location: "path",
	// "query", "header" or the synthetic "JSON body".
	ReqParamByLoc map[string][]TypeTableRow
	// ReqBodyTables describes nested object shapes inside the request body.
	ReqBodyTables []TypeTable
	// ResTables describes the 200 response body.
	ResTables []TypeTable
	// ResHeaders describes the 200 response headers, when documented.
	ResHeaders *TypeTable
	// Responses lists every documented status in ascending code order.
	Responses []ResponseInfo
	// Example carries the formatted example request.
	Example RequestExample
}

// LoadSwaggerAPI loads, resolves and processes one Swagger API file into a
// renderable group.
func (build *Build) LoadSwaggerAPI(path, groupName string) (*APIGroup, error) {
	resolved, err := build.Resolver.ResolveFile(path)
	if err != nil {
		return nil, err
	}

	api, ok := asObject(resolved)
	if !ok {
		return nil, fmt.Errorf("%w: swagger document %q is not a mapping", ErrDecodeSchema, path)
	}

	return build.ProcessSwaggerAPI(api, groupName)
}

// ProcessSwaggerAPI derives the endpoint descriptions for one resolved
// Swagger document. The document must be fully dereferenced.
func (build *Build) ProcessSwaggerAPI(api *Object, groupName string) (*APIGroup, error) {
	basePath := strings.TrimRight(objectString(api, "basePath"), "/")
	group := &APIGroup{
		BasePath:  basePath,
		GroupName: groupName,
	}

	paths := objectChild(api, "paths")
	for _, path := range paths.Keys() {
		methods := objectChild(paths, path)
		if methods == nil {
			continue
		}

		for _, method := range methods.Keys() {
			operation := objectChild(methods, method)
			if operation == nil {
				continue
			}

			build.logger().Info("processing endpoint", "method", method, "path", path)
			endpoint, err := build.processEndpoint(operation, method, basePath+path)
			if err != nil {
				return nil, fmt.Errorf("endpoint %s %s: %w", strings.ToUpper(method), path, err)
			}

			group.Endpoints = append(group.Endpoints, endpoint)
		}
	}

	return group, nil
}

// processEndpoint builds one endpoint description from its operation object.
func (build *Build) processEndpoint(operation *Object, method, path string) (Endpoint, error) {
	responses := objectChild(operation, "responses")

	description := objectString(operation, "description")
	if description == "" {
		description = objectString(operation, "summary")
	}

	endpoint := Endpoint{
		Title:         objectString(operation, "summary"),
		Description:   description,
		Deprecated:    objectBool(operation, "deprecated"),
		Method:        strings.ToUpper(method),
		Path:          strings.TrimSpace(path),
		RequiresAuth:  operation.Has("security"),
		RateLimited:   responses.Has("429"),
		ReqParamByLoc: make(map[string][]TypeTableRow),
	}

	pathTemplate := endpoint.Path
	var queryParams []queryExample
	exampleBody := ""
	exampleMime := "application/json"

	for _, raw := range objectSlice(operation, "parameters") {
		param, ok := asObject(raw)
		if !ok {
			continue
		}

		name := objectString(param, "name")
		location := objectString(param, "in")

		if location == "body" {
			if err := build.handleBodyParam(param, &endpoint); err != nil {
				return Endpoint{}, err
			}

			body, err := exampleForParam(param)
			if err != nil {
				return Endpoint{}, fmt.Errorf("parameter %q: %w", name, err)
			}

			exampleBody = asString(body)
			continue
		}

		if location == "header" && name == "Content-Type" {
			if mime := objectString(param, "x-example"); mime != "" {
				exampleMime = mime
			}
		}

		row, err := paramRow(param, name)
		if err != nil {
			return Endpoint{}, fmt.Errorf("parameter %q: %w", name, err)
		}

		endpoint.ReqParamByLoc[location] = append(endpoint.ReqParamByLoc[location], row)

		example, err := exampleForParam(param)
		if err != nil {
			return Endpoint{}, fmt.Errorf("parameter %q: %w", name, err)
		}

		if example == nil {
			continue
		}

		switch location {
		case "path":
			pathTemplate = strings.ReplaceAll(pathTemplate,
				"{"+name+"}", url.PathEscape(stringifyExample(example)))
		case "query":
			if values := asSlice(example); values != nil {
				for _, value := range values {
					queryParams = append(queryParams, queryExample{name, stringifyExample(value)})
				}
			} else {
				queryParams = append(queryParams, queryExample{name, stringifyExample(example)})
			}
		}
	}

	if err := build.collectResponses(responses, &endpoint); err != nil {
		return Endpoint{}, err
	}

	endpoint.Example.Req = formatExampleRequest(
		endpoint.Method, pathTemplate, queryParams, exampleMime, exampleBody)
	return endpoint, nil
}

// paramRow builds the type table row for one non-body parameter.
func paramRow(param *Object, name string) (TypeTableRow, error) {
	required := objectBool(param, "required")

	label := objectString(param, "type")
	if label == "array" {
		if items, ok := param.Get("items"); ok {
			label = arrayParamLabel(items)
		}
	}

	enumClause := ""
	if values := objectSlice(param, "enum"); len(values) > 0 {
		label = "enum"
		enumClause = "One of: " + jsonListInline(values)
	}

	return TypeTableRow{
		Key:         name,
		TypeLabel:   label,
		Required:    required,
		Description: composeDescription(required, objectString(param, "description"), enumClause),
	}, nil
}

// arrayParamLabel renders the type of an array parameter from its items.
func arrayParamLabel(items any) string {
	if tuple := asSlice(items); tuple != nil {
		labels := make([]string, 0, len(tuple))
		for _, item := range tuple {
			child, _ := asObject(item)
			labels = append(labels, objectString(child, "type"))
		}

		return "[" + strings.Join(labels, ", ") + "]"
	}

	child, _ := asObject(items)
	return "[" + objectString(child, "type") + "]"
}

// handleBodyParam folds the request body schema into the endpoint: the
// top-level rows join the "JSON body" parameter group and the nested
// object tables become request body tables.
func (build *Build) handleBodyParam(param *Object, endpoint *Endpoint) error {
	schema, err := MergeParents(objectChild(param, "schema"))
	if err != nil {
		return fmt.Errorf("body of %s %s: %w", endpoint.Method, endpoint.Path, err)
	}

	body, ok := asObject(schema)
	if !ok {
		return fmt.Errorf("body of %s %s is not a mapping", endpoint.Method, endpoint.Path)
	}

	if kind := objectString(body, "type"); kind != "object" {
		build.logger().Warn("unsupported body type", "type", kind,
			"method", endpoint.Method, "path", endpoint.Path)
		return nil
	}

	tables, err := build.Extractor.TablesForSchema(body)
	if err != nil {
		return fmt.Errorf("body of %s %s: %w", endpoint.Method, endpoint.Path, err)
	}

	if len(tables) == 0 {
		return nil
	}

	endpoint.ReqParamByLoc[jsonBodyLocation] = append(
		endpoint.ReqParamByLoc[jsonBodyLocation], tables[0].Rows...)
	endpoint.ReqBodyTables = append(endpoint.ReqBodyTables, tables[1:]...)
	return nil
}

// collectResponses fills the per-status response list and derives body and
// header tables from the 200 response. An example that cannot be
// synthesized leaves that response without one instead of failing the
// whole endpoint.
func (build *Build) collectResponses(responses *Object, endpoint *Endpoint) error {
	codes := responses.Keys()
	slices.Sort(codes)

	for _, code := range codes {
		response := objectChild(responses, code)
		if response == nil {
			continue
		}

		example, err := ExampleForResponse(response)
		if err != nil {
			if !errors.Is(err, ErrUnsynthesizableType) && !errors.Is(err, ErrMissingExampleSource) {
				return fmt.Errorf("response %s: %w", code, err)
			}

			build.logger().Warn("no example for response", "code", code, "reason", err)
			example = ""
		}

		endpoint.Responses = append(endpoint.Responses, ResponseInfo{
			Code:        code,
			Description: objectString(response, "description"),
			Example:     example,
		})

		if code != "200" {
			continue
		}

		if schema, ok := response.Get("schema"); ok {
			endpoint.ResTables, err = build.Extractor.TablesForResponse(schema)
			if err != nil {
				return fmt.Errorf("response %s body: %w", code, err)
			}
		}

		if headers := objectChild(response, "headers"); headers != nil {
			endpoint.ResHeaders = headersTable(headers)
		}
	}

	return nil
}

// headersTable builds the response headers table in declaration order.
func headersTable(headers *Object) *TypeTable {
	table := &TypeTable{}
	for _, name := range headers.Keys() {
		header := objectChild(headers, name)
		table.Rows = append(table.Rows, TypeTableRow{
			Key:         name,
			TypeLabel:   objectString(header, "type"),
			Description: objectString(header, "description"),
		})
	}

	return table
}

// queryExample is one example query string pair, order preserved.
type queryExample struct {
	name  string
	value string
}

// formatExampleRequest renders the literal example HTTP request.
func formatExampleRequest(method, path string, query []queryExample, mime, body string) string {
	queryString := ""
	if len(query) > 0 {
		pairs := make([]string, 0, len(query))
		for _, pair := range query {
			pairs = append(pairs, url.QueryEscape(pair.name)+"="+url.QueryEscape(pair.value))
		}

		queryString = "?" + strings.Join(pairs, "&")
	}

	if body == "" {
		return fmt.Sprintf("%s %s%s HTTP/1.1\n\n", method, path, queryString)
	}

	return fmt.Sprintf("%s %s%s HTTP/1.1\nContent-Type: %s\n\n%s",
		method, path, queryString, mime, body)
}

// stringifyExample renders one example value for URL substitution.
func stringifyExample(value any) string {
	if text, ok := value.(string); ok {
		return text
	}

	return mustJSONInline(value)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"testing"
)

const joinRoomAPI = `
basePath: /_matrix/client/r0
paths:
  "/rooms/{roomId}/join":
    post:
      summary: Join a room.
      description: Joins the room by its identifier.
      security:
        - accessToken: []
      parameters:
        - in: path
          name: roomId
          type: string
          required: true
          description: The room to join.
          x-example: "!d41d8cd:example.org"
        - in: query
          name: limit
          type: integer
          description: Maximum number of events.
          x-example: 10
        - in: body
          name: body
          schema:
            type: object
            title: JoinRequest
            properties:
              reason:
                type: string
                description: Why the user joins.
              third_party_signed:
                type: object
                title: ThirdPartySigned
                properties:
                  token:
                    type: string
                    description: The token.
            required: [reason]
            example:
              reason: Wanted to.
      responses:
        "200":
          description: The room was joined.
          schema:
            type: object
            title: JoinResponse
            properties:
              room_id:
                type: string
                description: The joined room ID.
          headers:
            X-RateLimit-Remaining:
              type: integer
              description: Remaining requests.
        "429":
          description: The request was rate-limited.
`

func loadJoinRoomEndpoint(t *testing.T) Endpoint {
	t.Helper()

	dir := t.TempDir()
	path := writeFixture(t, dir, "join.yaml", joinRoomAPI)

	group, err := newTestBuild().LoadSwaggerAPI(path, "join_cs")
	if err != nil {
		t.Fatalf("load swagger API: %v", err)
	}

	if group.BasePath != "/_matrix/client/r0" {
		t.Fatalf("base path = %q", group.BasePath)
	}

	if len(group.Endpoints) != 1 {
		t.Fatalf("endpoints = %d, want 1", len(group.Endpoints))
	}

	return group.Endpoints[0]
}

func TestProcessEndpointBasics(t *testing.T) {
	t.Parallel()

	endpoint := loadJoinRoomEndpoint(t)

	if endpoint.Method != "POST" {
		t.Fatalf("method = %q", endpoint.Method)
	}

	if endpoint.Path != "/_matrix/client/r0/rooms/{roomId}/join" {
		t.Fatalf("path = %q", endpoint.Path)
	}

	if !endpoint.RequiresAuth {
		t.Fatal("security declaration must set RequiresAuth")
	}

	if !endpoint.RateLimited {
		t.Fatal("a 429 response must set RateLimited")
	}
}

func TestProcessEndpointGroupsParametersByLocation(t *testing.T) {
	t.Parallel()

	endpoint := loadJoinRoomEndpoint(t)

	pathParams := endpoint.ReqParamByLoc["path"]
	if len(pathParams) != 1 || pathParams[0].Key != "roomId" {
		t.Fatalf("path params = %+v", pathParams)
	}

	assertContains(t, pathParams[0].Description, "**Required.**")

	queryParams := endpoint.ReqParamByLoc["query"]
	if len(queryParams) != 1 || queryParams[0].TypeLabel != "integer" {
		t.Fatalf("query params = %+v", queryParams)
	}

	assertNotContains(t, queryParams[0].Description, "**Required.**")
}

func TestProcessEndpointFoldsBodyIntoJSONBodyGroup(t *testing.T) {
	t.Parallel()

	endpoint := loadJoinRoomEndpoint(t)

	bodyRows := endpoint.ReqParamByLoc["JSON body"]
	if len(bodyRows) != 2 {
		t.Fatalf("JSON body rows = %+v, want reason and third_party_signed", bodyRows)
	}

	if bodyRows[0].Key != "reason" || !bodyRows[0].Required {
		t.Fatalf("first body row = %+v", bodyRows[0])
	}

	if bodyRows[1].TypeLabel != "{ThirdPartySigned}" {
		t.Fatalf("nested body label = %q", bodyRows[1].TypeLabel)
	}

	if len(endpoint.ReqBodyTables) != 1 || endpoint.ReqBodyTables[0].Title != "ThirdPartySigned" {
		t.Fatalf("body tables = %+v", endpoint.ReqBodyTables)
	}
}

func TestProcessEndpointExampleRequest(t *testing.T) {
	t.Parallel()

	endpoint := loadJoinRoomEndpoint(t)

	assertContains(t, endpoint.Example.Req, "POST /_matrix/client/r0/rooms/")
	assertContains(t, endpoint.Example.Req, "/join?limit=10 HTTP/1.1")
	assertContains(t, endpoint.Example.Req, "Content-Type: application/json")
	assertContains(t, endpoint.Example.Req, `"reason": "Wanted to."`)
	assertNotContains(t, endpoint.Example.Req, "{roomId}")
}

func TestProcessEndpointResponses(t *testing.T) {
	t.Parallel()

	endpoint := loadJoinRoomEndpoint(t)

	if len(endpoint.Responses) != 2 {
		t.Fatalf("responses = %+v", endpoint.Responses)
	}

	if endpoint.Responses[0].Code != "200" || endpoint.Responses[1].Code != "429" {
		t.Fatalf("response order = %+v", endpoint.Responses)
	}

	assertContains(t, endpoint.Responses[0].Example, `"room_id"`)

	if endpoint.Responses[1].Example != "" {
		t.Fatalf("429 example = %q, want empty", endpoint.Responses[1].Example)
	}

	if len(endpoint.ResTables) == 0 || endpoint.ResTables[0].Title != "JoinResponse" {
		t.Fatalf("response tables = %+v", endpoint.ResTables)
	}

	if endpoint.ResHeaders == nil || endpoint.ResHeaders.Rows[0].Key != "X-RateLimit-Remaining" {
		t.Fatalf("response headers = %+v", endpoint.ResHeaders)
	}
}

func TestLoadSwaggerAPIsDerivesGroupNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "room-membership.yaml", joinRoomAPI)

	apis, err := newTestBuild().LoadSwaggerAPIs(map[string]string{dir: "cs"})
	if err != nil {
		t.Fatalf("load swagger APIs: %v", err)
	}

	if _, ok := apis["room_membership_cs"]; !ok {
		t.Fatalf("group names = %v, want room_membership_cs", apis)
	}
}

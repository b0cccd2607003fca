// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/leaders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leaders"],
                "summary": "List the caller's circle leaders",
                "parameters": [
                    {"type": "string", "description": "Forwarded user", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Campus (case-insensitive)", "name": "campus", "in": "query"},
                    {"type": "string", "description": "Status", "name": "status", "in": "query"},
                    {"type": "string", "description": "Name or email search", "name": "q", "in": "query"},
                    {"type": "boolean", "description": "Only leaders flagged for follow-up", "name": "follow_up", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CircleLeader"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["leaders"],
                "summary": "Add a circle leader",
                "parameters": [
                    {"type": "string", "description": "Forwarded user", "name": "X-User-ID", "in": "header", "required": true},
                    {"description": "Leader", "name": "leader", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.createLeaderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.CircleLeader"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/leaders/{id}/trends": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scorecards"],
                "summary": "Weekly trend report per dimension",
                "parameters": [
                    {"type": "string", "description": "Forwarded user", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Leader ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Keep only the most recent N weeks", "name": "max_weeks", "in": "query"},
                    {"type": "boolean", "description": "Include the week still in progress", "name": "include_current", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.WeeklyTrends"}}
                }
            }
        },
        "/todos": {
            "post": {
                "description": "A repeat_rule turns the to-do into a series; its occurrences up to\nrepeat_until (default one year) are created with it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Create a to-do, optionally recurring",
                "parameters": [
                    {"type": "string", "description": "Forwarded user", "name": "X-User-ID", "in": "header", "required": true},
                    {"description": "To-do", "name": "todo", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.createTodoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.createTodoResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/todos/due": {
            "get": {
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Overdue and due-today to-dos",
                "parameters": [
                    {"type": "string", "description": "Forwarded user", "name": "X-User-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.DueTodos"}}
                }
            }
        },
        "/todos/preview": {
            "get": {
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Preview the due dates a repeat rule would generate",
                "parameters": [
                    {"type": "string", "description": "First due date (YYYY-MM-DD)", "name": "start", "in": "query", "required": true},
                    {"type": "string", "description": "daily, weekly, monthly or yearly", "name": "rule", "in": "query", "required": true},
                    {"type": "integer", "description": "Repeat every N units (default 1)", "name": "interval", "in": "query"},
                    {"type": "string", "description": "Horizon, inclusive (YYYY-MM-DD)", "name": "until", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.previewResponse"}}
                }
            }
        },
        "/digest/run": {
            "post": {
                "produces": ["application/json"],
                "tags": ["digest"],
                "summary": "Queue today's digest for every opted-in user",
                "parameters": [
                    {"type": "string", "description": "Shared cron secret", "name": "X-Cron-Secret", "in": "header", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/digest/complete": {
            "get": {
                "produces": ["application/json"],
                "tags": ["digest"],
                "summary": "Mark a to-do done from a digest email link",
                "parameters": [
                    {"type": "string", "description": "Signed action token", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Todo"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.CircleLeader": {"type": "object"},
        "domain.Todo": {"type": "object"},
        "domain.WeeklyTrends": {"type": "object"},
        "services.DueTodos": {"type": "object"},
        "http.createLeaderRequest": {"type": "object", "required": ["name"]},
        "http.createTodoRequest": {"type": "object", "required": ["text"]},
        "http.createTodoResponse": {"type": "object"},
        "http.previewResponse": {"type": "object"},
        "http.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Circle Leader Engine API",
	Description:      "Circle leader tracking, recurring to-dos, scorecard trends and the daily digest.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

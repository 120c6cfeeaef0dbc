// Package docs registers the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/events": {
            "get": {"tags": ["events"], "summary": "List published events", "responses": {"200": {"description": "OK"}}}
        },
        "/events/{eventID}": {
            "get": {"tags": ["events"], "summary": "Get a published event", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/events/{eventID}/registrations": {
            "post": {"tags": ["registrations"], "summary": "Register a student", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/events/{eventID}/outer-registrations": {
            "post": {"tags": ["outer-registrations"], "summary": "Register an outer-college participant or team", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Admin log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/admin/events": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List events visible to the admin", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create an event", "responses": {"201": {"description": "Created"}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Campus Events API",
	Description:      "College event management: events, student registrations and outer-college registrations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

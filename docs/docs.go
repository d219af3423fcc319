// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/analyze": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Submit a CV batch",
                "parameters": [
                    {"type": "file", "description": "CV files", "name": "files", "in": "formData", "required": true},
                    {"type": "string", "description": "Comma separated keywords or a JSON array of strings", "name": "keywords", "in": "formData"},
                    {"type": "string", "description": "Saved keyword list to use instead of keywords", "name": "keyword_list_id", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Batch accepted"},
                    "400": {"description": "Missing files or keywords"},
                    "401": {"description": "Unauthorized"},
                    "402": {"description": "No credits left"},
                    "403": {"description": "Keyword list belongs to another user"},
                    "413": {"description": "File too large"}
                }
            }
        },
        "/results/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Poll batch results",
                "parameters": [
                    {"type": "string", "description": "Submission ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Set to 'details' to embed detail rows", "name": "include", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Results"},
                    "202": {"description": "Still processing"},
                    "404": {"description": "Unknown submission"}
                }
            }
        },
        "/results/{id}/cvs/{cvId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Get one analyzed CV",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "cvId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "CV result"}, "404": {"description": "Not found"}}
            }
        },
        "/results/{id}/export": {
            "get": {
                "tags": ["analysis"],
                "summary": "Export batch results",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "csv or xlsx", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "Export file"}, "202": {"description": "Still processing"}}
            }
        },
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new account", "responses": {"201": {"description": "Account created"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "Token pair"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh tokens", "responses": {"200": {"description": "Token pair"}}}},
        "/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "Current user"}}}},
        "/submissions": {"get": {"security": [{"BearerAuth": []}], "tags": ["submissions"], "summary": "List submissions", "responses": {"200": {"description": "List of submissions"}}}},
        "/keyword-lists": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["keyword-lists"], "summary": "List keyword lists", "responses": {"200": {"description": "Keyword lists"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["keyword-lists"], "summary": "Create a keyword list", "responses": {"201": {"description": "Keyword list created"}}}
        },
        "/keyword-lists/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["keyword-lists"], "summary": "Get a keyword list", "responses": {"200": {"description": "Keyword list"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["keyword-lists"], "summary": "Delete a keyword list", "responses": {"200": {"description": "Deleted"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "CV Screening API",
	Description:      "Batch CV analysis against job keywords.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

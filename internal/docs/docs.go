// Package docs registers the OpenAPI document served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/auth/register": {
            "post": {
                "tags": ["auth"], "summary": "Create an account",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Email or password missing, or user already exists", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Exchange credentials for an access and refresh token",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
                "responses": {"200": {"description": "accessToken and refreshToken"}, "400": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/api/auth/refresh": {
            "post": {
                "tags": ["auth"], "summary": "Issue a new access token",
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "accessToken"}, "401": {"description": "No refresh token provided"}, "403": {"description": "Invalid refresh token"}}
            }
        },
        "/api/esg/submit": {
            "post": {
                "tags": ["esg"], "summary": "Score and store an ESG submission", "security": [{"BearerAuth": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "ESG data submitted successfully"}, "400": {"description": "Missing or invalid field", "schema": {"$ref": "#/definitions/Error"}}, "429": {"description": "Rate limit exceeded"}}
            }
        },
        "/api/esg/calculate": {
            "post": {
                "tags": ["esg"], "summary": "Score an ESG submission without storing it", "security": [{"BearerAuth": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "scores and environmentalCalculations"}, "400": {"description": "Missing or invalid field", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/api/esg/latest": {
            "get": {
                "tags": ["esg"], "summary": "Latest ESG record of the caller", "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "record"}, "404": {"description": "No ESG data found", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/api/esg/trend": {
            "get": {
                "tags": ["esg"], "summary": "Most recent scores of the caller, oldest first", "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "limit", "type": "integer", "description": "number of points, capped at 100"}],
                "responses": {"200": {"description": "trend points"}}
            }
        },
        "/api/esg/benchmarks": {
            "get": {
                "tags": ["esg"], "summary": "Active emission factors, benchmark ranges and weights",
                "produces": ["application/json"],
                "responses": {"200": {"description": "scoring tables"}}
            }
        },
        "/health": {
            "get": {"tags": ["system"], "summary": "Service and store health", "produces": ["application/json"], "responses": {"200": {"description": "ok"}, "503": {"description": "degraded"}}}
        }
    },
    "definitions": {
        "Credentials": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "Error": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}, "code": {"type": "string"}, "category": {"type": "string"},
                "field": {"type": "string"}, "request_id": {"type": "string"}, "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ESG Scoring API",
	Description:      "Scores environmental, social and governance submissions and keeps a per-user history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

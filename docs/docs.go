// Package docs registers the OpenAPI document served under /swagger with swag.
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
        "/files": {
            "get": {
                "description": "Fetches the file data objects, publishes them and starts enrichment in the background.",
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Load the file list",
                "parameters": [
                    {"type": "string", "description": "Upstream index filter", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/filelist.View"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/files/current": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Current file list",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/datastore.Snapshot"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/files/current/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "One record of the current file list",
                "parameters": [
                    {"type": "string", "description": "File _id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/files/export": {
            "post": {
                "description": "Writes the current file list to object storage and returns a presigned download URL.",
                "produces": ["application/json"],
                "tags": ["exports"],
                "summary": "Export the current file list",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.ExportResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/files/exports/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["exports"],
                "summary": "Download an exported file list",
                "parameters": [
                    {"type": "string", "description": "Export file name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "tags": ["exports"],
                "summary": "Delete an exported file list",
                "parameters": [
                    {"type": "string", "description": "Export file name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Pings the database and the upstream API when they are configured.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/loads": {
            "get": {
                "produces": ["application/json"],
                "tags": ["loads"],
                "summary": "Load history",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.LoadListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/loads/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["loads"],
                "summary": "One load of the history",
                "parameters": [
                    {"type": "string", "description": "Load ID (uuid)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Load"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "datastore.Snapshot": {
            "type": "object",
            "properties": {
                "files": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "generation": {"type": "integer"},
                "loaded_at": {"type": "string"}
            }
        },
        "filelist.View": {
            "type": "object",
            "properties": {
                "files": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "state": {"$ref": "#/definitions/model.Route"}
            }
        },
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "model.Load": {
            "type": "object",
            "properties": {
                "completed_at": {"type": "string"},
                "enrich_failed": {"type": "integer"},
                "enriched": {"type": "integer"},
                "error": {"type": "string"},
                "file_count": {"type": "integer"},
                "id": {"type": "string"},
                "query": {"type": "string"},
                "started_at": {"type": "string"},
                "status": {"type": "string", "enum": ["published", "failed"]}
            }
        },
        "model.Route": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "params": {"type": "object", "additionalProperties": {"type": "string"}},
                "path": {"type": "string"}
            }
        },
        "service.ExportResult": {
            "type": "object",
            "properties": {
                "file_count": {"type": "integer"},
                "generation": {"type": "integer"},
                "key": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "service.LoadListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Load"}},
                "total": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "File View API",
	Description:      "File list view over the analysis server REST API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package apidocs registers the OpenAPI description of the HTTP API with
// swag so gin-swagger can serve it.
package apidocs

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
        "/validate": {
            "post": {
                "description": "Report every schema violation in a candidate bundle. Findings are data, so the status is 200 either way.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Validate a bundle",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/BundleRequest"}}],
                "responses": {
                    "200": {"description": "Validation result", "schema": {"$ref": "#/definitions/ValidationResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/repair": {
            "post": {
                "description": "Repair a candidate bundle, or the first JSON object found in raw_text, into a valid bundle with recomputed totals.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Repair a bundle",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/BundleRequest"}}],
                "responses": {
                    "200": {"description": "Repaired DocumentBundle, see GET /schema", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "UNREPAIRABLE_DOCUMENT", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/compute/totals": {
            "post": {
                "description": "Repair a single draft and recompute its line and document totals.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Compute draft totals",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/DraftRequest"}}],
                "responses": {
                    "200": {"description": "{\"draft\": DocDraft}", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/upi/deeplink": {
            "post": {
                "description": "Build a upi://pay deep link and QR payload.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Build a UPI deep link",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/UPIRequest"}}],
                "responses": {
                    "200": {"description": "Deep link", "schema": {"$ref": "#/definitions/UPILinkResponse"}},
                    "400": {"description": "INVALID_UPI_REQUEST", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/export/{format}": {
            "post": {
                "description": "Repair a bundle and render it as a file.",
                "consumes": ["application/json"],
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "tags": ["exports"],
                "summary": "Export a bundle",
                "parameters": [
                    {"type": "string", "enum": ["pdf", "xlsx", "csv"], "in": "path", "name": "format", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/BundleRequest"}}
                ],
                "responses": {
                    "200": {"description": "File attachment", "schema": {"type": "file"}},
                    "400": {"description": "UNSUPPORTED_FORMAT or invalid request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/schema": {
            "get": {
                "description": "JSON Schema of DocumentBundle, without the response envelope.",
                "produces": ["application/schema+json"],
                "tags": ["documents"],
                "summary": "Bundle JSON Schema",
                "responses": {"200": {"description": "JSON Schema", "schema": {"type": "object"}}}
            }
        }
    },
    "definitions": {
        "BundleRequest": {
            "type": "object",
            "properties": {
                "bundle": {"type": "object", "description": "Untrusted candidate DocumentBundle"},
                "raw_text": {"type": "string", "description": "Free text holding a JSON bundle (repair only)"}
            }
        },
        "DraftRequest": {
            "type": "object",
            "properties": {"draft": {"type": "object", "description": "Untrusted candidate DocDraft"}}
        },
        "UPIRequest": {
            "type": "object",
            "required": ["upi_id", "payee_name"],
            "properties": {
                "upi_id": {"type": "string", "example": "acme@upi"},
                "payee_name": {"type": "string", "example": "Acme Solutions"},
                "amount": {"type": "number", "example": 43660},
                "currency": {"type": "string", "example": "INR"},
                "note": {"type": "string"},
                "txn_ref": {"type": "string"},
                "callback_url": {"type": "string"}
            }
        },
        "Finding": {
            "type": "object",
            "properties": {"path": {"type": "string", "example": "/drafts/0/items/0/qty"}, "message": {"type": "string"}}
        },
        "Envelope": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "data": {"type": "object"}}
        },
        "ValidationResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "ok": {"type": "boolean"},
                        "errors": {"type": "array", "items": {"$ref": "#/definitions/Finding"}}
                    }
                }
            }
        },
        "UPILinkResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {"deeplink": {"type": "string"}, "qr_payload": {"type": "string"}}
                }
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {
                    "type": "object",
                    "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
                }
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
	Title:            "draftdesk API",
	Description:      "Normalizes, repairs and totals quotation, tax invoice and project brief bundles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI document built from the handler
// annotations. Regenerate with `swag init` after changing an endpoint.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "Contact Support"},
        "license": {"name": "MIT", "url": "https://mit-license.org/"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/notification/triggers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notification"],
                "summary": "Trigger notification",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/inbound.TriggerRequest"}}
                ],
                "responses": {
                    "200": {"description": "Already handled", "schema": {"$ref": "#/definitions/inbound.TriggerResponse"}},
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/inbound.TriggerResponse"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "422": {"description": "Rejected or validation error", "schema": {"$ref": "#/definitions/inbound.TriggerResponse"}}
                }
            }
        },
        "/api/v1/notification/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notification"],
                "summary": "List message logs",
                "parameters": [
                    {"type": "integer", "description": "Page number, default 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size, default 20, max 100", "name": "page_size", "in": "query"},
                    {"type": "string", "description": "PENDING, SENT, FAILED or RETRYING", "name": "status", "in": "query"},
                    {"type": "string", "description": "Event type", "name": "event_type", "in": "query"},
                    {"type": "string", "description": "Phone or customer name", "name": "search", "in": "query"},
                    {"type": "string", "description": "First day, YYYY-MM-DD", "name": "date_from", "in": "query"},
                    {"type": "string", "description": "Last day, YYYY-MM-DD", "name": "date_to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Message logs", "schema": {"type": "object", "properties": {"logs": {"type": "array", "items": {"$ref": "#/definitions/inbound.MessageLogResponse"}}}}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/api/v1/notification/logs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notification"],
                "summary": "Get message log",
                "parameters": [
                    {"type": "integer", "description": "Message log ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Message log", "schema": {"$ref": "#/definitions/inbound.MessageLogResponse"}},
                    "404": {"description": "Message log not found", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/api/v1/notification/logs/{id}/retry": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notification"],
                "summary": "Retry message",
                "parameters": [
                    {"type": "integer", "description": "Message log ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "202": {"description": "Retry queued", "schema": {"$ref": "#/definitions/inbound.MessageLogResponse"}},
                    "400": {"description": "Invalid id or message already sent", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "404": {"description": "Message log not found", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "409": {"description": "Delivery already in progress", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "422": {"description": "Message has no content", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/api/v1/notification/exports": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notification"],
                "summary": "Export message logs",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/inbound.ExportLogsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Download link", "schema": {"$ref": "#/definitions/inbound.ExportLogsResponse"}},
                    "422": {"description": "Too many rows or validation error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/api/v1/notification/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notification"],
                "summary": "Message log summary",
                "responses": {
                    "200": {"description": "Counters", "schema": {"$ref": "#/definitions/inbound.SummaryResponse"}}
                }
            }
        },
        "/api/v1/notification/event-types": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notification"],
                "summary": "List event types",
                "responses": {
                    "200": {"description": "Event types", "schema": {"type": "object", "properties": {"event_types": {"type": "array", "items": {"$ref": "#/definitions/inbound.EventTypeResponse"}}}}}
                }
            }
        },
        "/api/v1/notification/references/{type}/{id}/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notification"],
                "summary": "Logs for a business record",
                "parameters": [
                    {"type": "string", "description": "enquiry, complaint or stock_movement", "name": "type", "in": "path", "required": true},
                    {"type": "integer", "description": "Record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Logs and flagged events", "schema": {"type": "object", "properties": {"logs": {"type": "array", "items": {"$ref": "#/definitions/inbound.MessageLogResponse"}}, "flagged_events": {"type": "array", "items": {"type": "string"}}}}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness with database and redis ping",
                "responses": {
                    "200": {"description": "Healthy"},
                    "503": {"description": "A dependency is unavailable", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "router.errorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error": {"type": "object"}
            }
        },
        "inbound.TriggerRequest": {
            "type": "object",
            "properties": {
                "event_type": {"type": "string", "example": "service_created"},
                "reference_type": {"type": "string", "example": "complaint"},
                "reference_id": {"type": "integer", "example": 42},
                "customer_name": {"type": "string"},
                "customer_phone": {"type": "string", "example": "9876543210"},
                "payload": {"type": "object"}
            }
        },
        "inbound.TriggerResponse": {
            "type": "object",
            "properties": {
                "result": {"type": "string", "example": "ACCEPTED"},
                "log_id": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "inbound.MessageLogResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "event_type": {"type": "string"},
                "event_label": {"type": "string"},
                "customer_phone": {"type": "string"},
                "customer_name": {"type": "string"},
                "message_content": {"type": "string"},
                "status": {"type": "string"},
                "reference_type": {"type": "string"},
                "reference_id": {"type": "integer"},
                "error_message": {"type": "string"},
                "retry_count": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "sent_at": {"type": "string"}
            }
        },
        "inbound.ExportLogsRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "event_type": {"type": "string"},
                "search": {"type": "string"},
                "date_from": {"type": "string", "example": "2026-01-01"},
                "date_to": {"type": "string", "example": "2026-01-31"}
            }
        },
        "inbound.ExportLogsResponse": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "expires_at": {"type": "string"},
                "rows": {"type": "integer"}
            }
        },
        "inbound.SummaryResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "sent": {"type": "integer"},
                "failed": {"type": "integer"},
                "pending": {"type": "integer"},
                "retrying": {"type": "integer"},
                "today": {"type": "integer"},
                "last_7_days": {"type": "integer"}
            }
        },
        "inbound.EventTypeResponse": {
            "type": "object",
            "properties": {
                "value": {"type": "string"},
                "label": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Gonotif API",
	Description:      "Gonotif dispatches WhatsApp customer notifications and exposes the delivery audit log.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

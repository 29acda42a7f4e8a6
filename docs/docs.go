// Package docs serves the OpenAPI description of the invoicegen API.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user's profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Update the caller's profile",
                "description": "Only non-empty fields are changed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.ProfilePatch"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/invoices": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["invoices"],
                "summary": "List the caller's invoices",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["invoices"],
                "summary": "Create an invoice",
                "description": "Totals are computed from the line items; status starts as Unpaid.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.InvoiceInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/invoices/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["invoices"],
                "summary": "Get one invoice",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["invoices"],
                "summary": "Update an invoice",
                "description": "Only supplied fields change. Totals are recomputed when items are supplied.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.InvoicePatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["invoices"],
                "summary": "Delete an invoice",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/invoices/{id}/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["invoices"],
                "summary": "Download an invoice as PDF",
                "produces": ["application/pdf"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["invoices"],
                "summary": "Archive an invoice PDF",
                "description": "Renders the invoice, stores it in object storage and returns a presigned link.",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PDFLinkResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/ai/parse-text": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ai"],
                "summary": "Extract invoice data from free text",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ParseTextRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.InvoiceDraft"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/ai/generate-reminder": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ai"],
                "summary": "Draft a payment reminder email",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ReminderRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReminderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/ai/dashboard-summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ai"],
                "summary": "Insights over the caller's invoices",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.InsightsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/ai/models": {
            "get": {
                "tags": ["ai"],
                "summary": "Available generation models",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ModelsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "details": {"type": "string"}}
        },
        "handlers.RegisterRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"},
                "businessName": {"type": "string"}, "address": {"type": "string"}, "phone": {"type": "string"},
                "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}, "token": {"type": "string"}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handlers.PDFLinkResponse": {
            "type": "object",
            "properties": {"url": {"type": "string"}}
        },
        "handlers.ParseTextRequest": {
            "type": "object",
            "properties": {"text": {"type": "string"}}
        },
        "handlers.ReminderRequest": {
            "type": "object",
            "properties": {"invoiceId": {"type": "string"}}
        },
        "handlers.ReminderResponse": {
            "type": "object",
            "properties": {"reminderText": {"type": "string"}}
        },
        "handlers.InsightsResponse": {
            "type": "object",
            "properties": {"insights": {"type": "array", "items": {"type": "string"}}}
        },
        "handlers.ModelsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "models": {"type": "array", "items": {"$ref": "#/definitions/models.ModelInfo"}}
            }
        },
        "models.ModelInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "displayName": {"type": "string"}, "description": {"type": "string"},
                "supportedMethods": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.Party": {
            "type": "object",
            "properties": {"clientName": {"type": "string"}, "email": {"type": "string"}, "address": {"type": "string"}}
        },
        "models.LineItem": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "quantity": {"type": "number"},
                "unitPrice": {"type": "number"}, "taxPercent": {"type": "number"}
            }
        },
        "models.InvoiceInput": {
            "type": "object",
            "properties": {
                "invoiceNumber": {"type": "string"},
                "invoiceDate": {"type": "string", "format": "date"},
                "dueDate": {"type": "string", "format": "date"},
                "billFrom": {"$ref": "#/definitions/models.Party"},
                "billTo": {"$ref": "#/definitions/models.Party"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.LineItem"}},
                "notes": {"type": "string"},
                "paymentTerms": {"type": "string"}
            }
        },
        "models.InvoicePatch": {
            "type": "object",
            "properties": {
                "invoiceNumber": {"type": "string"},
                "invoiceDate": {"type": "string", "format": "date"},
                "dueDate": {"type": "string", "format": "date"},
                "billFrom": {"$ref": "#/definitions/models.Party"},
                "billTo": {"$ref": "#/definitions/models.Party"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.LineItem"}},
                "notes": {"type": "string"},
                "paymentTerms": {"type": "string"},
                "status": {"type": "string", "enum": ["Unpaid", "Pending", "Paid"]}
            }
        },
        "models.ProfilePatch": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "businessName": {"type": "string"},
                "address": {"type": "string"}, "phone": {"type": "string"}
            }
        },
        "models.InvoiceDraft": {
            "type": "object",
            "properties": {
                "clientName": {"type": "string"}, "email": {"type": "string"}, "address": {"type": "string"},
                "items": {"type": "array", "items": {"type": "object", "properties": {
                    "name": {"type": "string"}, "quantity": {"type": "number"}, "unitPrice": {"type": "number"}
                }}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "invoicegen API",
	Description:      "Invoices, authentication and AI-assisted drafting for small businesses.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

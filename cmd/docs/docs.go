// Package docs holds the OpenAPI document served under /swagger. It mirrors
// the handler annotations in internal/handlers; regenerate with
// `swag init -g cmd/swa_backend/main.go -o cmd/docs` after route changes.
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
        "/access/{kind}/{resourceID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["access"],
                "summary": "Check whether the caller may access a resource",
                "parameters": [
                    {"type": "string", "description": "project, task, quote, transaction or site_measurement", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Resource ID", "name": "resourceID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccessCheckResponse"}},
                    "400": {"description": "Unknown resource kind"}
                }
            }
        },
        "/projects": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Create a project",
                "parameters": [
                    {"description": "Project", "name": "project", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateProjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ProjectResponse"}},
                    "400": {"description": "Validation failed"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/projects/{projectID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Get a project",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProjectResponse"}},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/projects/{projectID}/progress": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Compute a project's weighted progress",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/projects/{projectID}/financials": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Ledger and manual transaction totals for a project",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/projects/{projectID}/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List a project's tasks",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a task",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true},
                    {"description": "Task", "name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.TaskResponse"}},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/tasks/{taskID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a task",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "taskID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TaskResponse"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/tasks/{taskID}/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Submit a task for review with proofs",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "taskID", "in": "path", "required": true},
                    {"description": "Proofs", "name": "submission", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TaskResponse"}},
                    "400": {"description": "Proof validation failed"},
                    "409": {"description": "Task not in a submittable status"}
                }
            }
        },
        "/tasks/{taskID}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Approve a task under review and settle its payout",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "taskID", "in": "path", "required": true},
                    {"description": "Optional penalty", "name": "approval", "in": "body", "schema": {"$ref": "#/definitions/dto.ApproveTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ApprovalResponse"}},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Task not under review"}
                }
            }
        },
        "/tasks/{taskID}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Reject a task under review",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "taskID", "in": "path", "required": true},
                    {"description": "Reason", "name": "rejection", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RejectTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TaskResponse"}},
                    "400": {"description": "Reason missing"},
                    "409": {"description": "Task not under review"}
                }
            }
        },
        "/projects/{projectID}/ledger": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "List a project's ledger entries",
                "description": "Entries are returned oldest first; pass nextToken to continue",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Continuation token", "name": "nextToken", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/projects/{projectID}/ledger/adjustments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "Append a correcting ledger entry",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true},
                    {"description": "Adjustment", "name": "adjustment", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordAdjustmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Idempotency key already used"}
                }
            }
        },
        "/projects/{projectID}/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List a project's transactions",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Continuation token", "name": "nextToken", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Record a manual transaction",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "projectID", "in": "path", "required": true},
                    {"description": "Transaction", "name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordTransactionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failed"}
                }
            }
        }
    },
    "definitions": {
        "dto.AccessCheckResponse": {"type": "object"},
        "dto.CreateProjectRequest": {"type": "object"},
        "dto.ProjectResponse": {"type": "object"},
        "dto.CreateTaskRequest": {"type": "object"},
        "dto.TaskResponse": {"type": "object"},
        "dto.SubmitTaskRequest": {"type": "object"},
        "dto.ApproveTaskRequest": {"type": "object"},
        "dto.ApprovalResponse": {"type": "object"},
        "dto.RejectTaskRequest": {"type": "object"},
        "dto.RecordAdjustmentRequest": {"type": "object"},
        "dto.RecordTransactionRequest": {"type": "object"}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Site Workflow Backend API",
	Description:      "Task lifecycle, settlement and access control for construction projects.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

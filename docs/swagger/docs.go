// Package swagger holds the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/api/main.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/customers": {
            "post": {
                "summary": "Create customer",
                "tags": [
                    "customers"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/IDResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateCustomerRequest"
                        }
                    }
                ]
            },
            "get": {
                "summary": "List customers",
                "tags": [
                    "customers"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/CustomerResponse"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/jobs": {
            "post": {
                "summary": "Create job",
                "tags": [
                    "jobs"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/CreateJobResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Customer not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "description": "Creates a quoted job and assigns it a JOB- number.",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateJobRequest"
                        }
                    }
                ]
            },
            "get": {
                "summary": "List jobs",
                "tags": [
                    "jobs"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/JobResponse"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/jobs/{id}": {
            "get": {
                "summary": "Get job",
                "tags": [
                    "jobs"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/JobResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Job ID"
                    }
                ]
            },
            "patch": {
                "summary": "Update job",
                "tags": [
                    "jobs"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/JobResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "description": "Status and completion date are not patchable; use PUT /jobs/{id}/status.",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Job ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateJobRequest"
                        }
                    }
                ]
            }
        },
        "/jobs/{id}/status": {
            "put": {
                "summary": "Change job status",
                "tags": [
                    "jobs"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/StatusChangeResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Invalid transition",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "description": "Allowed steps are quoted to in_progress and in_progress to completed.",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Job ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ChangeStatusRequest"
                        }
                    }
                ]
            }
        },
        "/jobs/{id}/inventory-usage": {
            "post": {
                "summary": "Record inventory usage",
                "tags": [
                    "inventory"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/RecordUsageResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Insufficient stock",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "description": "Decrements stock atomically; fails with 409 when stock is insufficient.",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Job ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RecordUsageRequest"
                        }
                    }
                ]
            },
            "get": {
                "summary": "List inventory usage for a job",
                "tags": [
                    "inventory"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/UsageResponse"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Job ID"
                    }
                ]
            }
        },
        "/inventory": {
            "post": {
                "summary": "Create inventory item",
                "tags": [
                    "inventory"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/IDResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateInventoryRequest"
                        }
                    }
                ]
            },
            "get": {
                "summary": "List inventory",
                "tags": [
                    "inventory"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/InventoryResponse"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/inventory/low-stock": {
            "get": {
                "summary": "List low-stock inventory",
                "tags": [
                    "inventory"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/InventoryResponse"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/inventory/{id}": {
            "patch": {
                "summary": "Adjust inventory item",
                "tags": [
                    "inventory"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/InventoryResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Inventory ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AdjustInventoryRequest"
                        }
                    }
                ]
            }
        },
        "/quality-checks": {
            "post": {
                "summary": "Record quality check",
                "tags": [
                    "quality-checks"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/IDResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateQualityCheckRequest"
                        }
                    }
                ]
            }
        },
        "/quality-checks/{jobId}": {
            "get": {
                "summary": "List quality checks for a job",
                "tags": [
                    "quality-checks"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/QualityCheckResponse"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "jobId",
                        "in": "path",
                        "required": true,
                        "description": "Job ID"
                    }
                ]
            }
        },
        "/invoices": {
            "post": {
                "summary": "Create invoice",
                "tags": [
                    "invoices"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/CreateInvoiceResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Job not completed",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                },
                "description": "Only completed jobs can be invoiced. A job may be invoiced more than once.",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateInvoiceRequest"
                        }
                    }
                ]
            },
            "get": {
                "summary": "List invoices",
                "tags": [
                    "invoices"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/InvoiceResponse"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/dashboard": {
            "get": {
                "summary": "Dashboard statistics",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/DashboardResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "job 7 not found"
                },
                "details": {
                    "type": "object",
                    "additionalProperties": true
                }
            }
        },
        "IDResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                }
            }
        },
        "CreateCustomerRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Acme Fabrication"
                },
                "email": {
                    "type": "string",
                    "example": "ops@acme.test"
                },
                "phone": {
                    "type": "string",
                    "example": "+1 555 0100"
                },
                "address": {
                    "type": "string",
                    "example": "1 Foundry Lane"
                }
            },
            "required": [
                "name"
            ]
        },
        "CustomerResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                },
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "CreateJobRequest": {
            "type": "object",
            "properties": {
                "customer_id": {
                    "type": "integer",
                    "example": 1
                },
                "description": {
                    "type": "string",
                    "example": "Weld trailer hitch"
                },
                "quoted_price": {
                    "type": "string",
                    "example": "120.50"
                },
                "scheduled_date": {
                    "type": "string",
                    "example": "2026-11-02"
                },
                "notes": {
                    "type": "string"
                }
            },
            "required": [
                "description"
            ]
        },
        "CreateJobResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                },
                "job_number": {
                    "type": "string",
                    "example": "JOB-1791990245123"
                }
            }
        },
        "UpdateJobRequest": {
            "type": "object",
            "properties": {
                "customer_id": {
                    "type": "integer"
                },
                "description": {
                    "type": "string"
                },
                "quoted_price": {
                    "type": "string"
                },
                "actual_price": {
                    "type": "string"
                },
                "scheduled_date": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "ChangeStatusRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "quoted",
                        "in_progress",
                        "completed"
                    ],
                    "example": "in_progress"
                },
                "actual_price": {
                    "type": "string",
                    "example": "95.00"
                }
            },
            "required": [
                "status"
            ]
        },
        "StatusChangeResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                },
                "status": {
                    "type": "string",
                    "example": "completed"
                },
                "completion_date": {
                    "type": "string",
                    "example": "2026-10-14"
                },
                "actual_price": {
                    "type": "string",
                    "example": "95.00"
                },
                "allowed_transitions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "JobResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                },
                "job_number": {
                    "type": "string",
                    "example": "JOB-1791990245123"
                },
                "customer_id": {
                    "type": "integer"
                },
                "customer_name": {
                    "type": "string",
                    "example": "Acme Fabrication"
                },
                "description": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "example": "quoted"
                },
                "quoted_price": {
                    "type": "string",
                    "example": "120.50"
                },
                "actual_price": {
                    "type": "string"
                },
                "quoted_date": {
                    "type": "string",
                    "example": "2026-10-14"
                },
                "scheduled_date": {
                    "type": "string"
                },
                "completion_date": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "allowed_transitions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "CreateInventoryRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Steel sheet 2mm"
                },
                "type": {
                    "type": "string",
                    "example": "sheet"
                },
                "quantity_in_stock": {
                    "type": "integer",
                    "example": 40
                },
                "unit_cost": {
                    "type": "string",
                    "example": "12.75"
                },
                "supplier": {
                    "type": "string",
                    "example": "Northern Metals"
                },
                "reorder_level": {
                    "type": "integer",
                    "example": 10
                }
            },
            "required": [
                "name"
            ]
        },
        "AdjustInventoryRequest": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string"
                },
                "quantity_in_stock": {
                    "type": "integer"
                },
                "unit_cost": {
                    "type": "string"
                },
                "supplier": {
                    "type": "string"
                },
                "reorder_level": {
                    "type": "integer"
                }
            }
        },
        "InventoryResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                },
                "name": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "quantity_in_stock": {
                    "type": "integer"
                },
                "unit_cost": {
                    "type": "string"
                },
                "supplier": {
                    "type": "string"
                },
                "reorder_level": {
                    "type": "integer"
                },
                "low_stock": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "RecordUsageRequest": {
            "type": "object",
            "properties": {
                "inventory_id": {
                    "type": "integer",
                    "example": 1
                },
                "quantity_used": {
                    "type": "integer",
                    "example": 3
                },
                "cost_per_unit": {
                    "type": "string",
                    "example": "12.75"
                }
            },
            "required": [
                "inventory_id",
                "quantity_used"
            ]
        },
        "RecordUsageResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                },
                "remaining_stock": {
                    "type": "integer",
                    "example": 37
                },
                "low_stock": {
                    "type": "boolean"
                }
            }
        },
        "UsageResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "job_id": {
                    "type": "integer"
                },
                "inventory_id": {
                    "type": "integer"
                },
                "quantity_used": {
                    "type": "integer"
                },
                "cost_per_unit": {
                    "type": "string"
                },
                "line_cost": {
                    "type": "string",
                    "example": "38.25"
                },
                "recorded_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "CreateQualityCheckRequest": {
            "type": "object",
            "properties": {
                "job_id": {
                    "type": "integer",
                    "example": 1
                },
                "check_type": {
                    "type": "string",
                    "example": "weld penetration"
                },
                "result": {
                    "type": "string",
                    "example": "pass"
                },
                "notes": {
                    "type": "string"
                },
                "checked_by": {
                    "type": "string",
                    "example": "sam"
                }
            },
            "required": [
                "job_id",
                "check_type",
                "result"
            ]
        },
        "QualityCheckResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "job_id": {
                    "type": "integer"
                },
                "check_type": {
                    "type": "string"
                },
                "result": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "checked_by": {
                    "type": "string"
                },
                "checked_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "CreateInvoiceRequest": {
            "type": "object",
            "properties": {
                "job_id": {
                    "type": "integer",
                    "example": 1
                },
                "amount": {
                    "type": "string",
                    "example": "95.00"
                },
                "due_date": {
                    "type": "string",
                    "example": "2026-11-13"
                }
            },
            "required": [
                "job_id",
                "amount"
            ]
        },
        "CreateInvoiceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                },
                "invoice_number": {
                    "type": "string",
                    "example": "INV-1791990311942"
                }
            }
        },
        "InvoiceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "job_id": {
                    "type": "integer"
                },
                "job_number": {
                    "type": "string"
                },
                "customer_name": {
                    "type": "string"
                },
                "invoice_number": {
                    "type": "string"
                },
                "amount": {
                    "type": "string",
                    "example": "95.00"
                },
                "status": {
                    "type": "string",
                    "example": "pending"
                },
                "issue_date": {
                    "type": "string"
                },
                "due_date": {
                    "type": "string"
                },
                "paid_date": {
                    "type": "string"
                }
            }
        },
        "DashboardResponse": {
            "type": "object",
            "properties": {
                "total_jobs": {
                    "type": "integer",
                    "example": 12
                },
                "in_progress_jobs": {
                    "type": "integer",
                    "example": 3
                },
                "completed_jobs": {
                    "type": "integer",
                    "example": 7
                },
                "total_revenue": {
                    "type": "string",
                    "example": "4210.00"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Lenos Shop API",
	Description:      "Job lifecycle, inventory and billing for a fabrication and repair shop.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Gradebook API",
        "description": "Weighted grade computation and class statistics",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Gradebook", "description": "Grading ladder"},
        {"name": "Roster", "description": "Students of a subject/class context"},
        {"name": "Weights", "description": "Assessment weight configuration"},
        {"name": "Scores", "description": "Raw assessment scores"},
        {"name": "Results", "description": "Final results, statistics and exports"}
    ],
    "paths": {
        "/grade-bands": {
            "get": {
                "tags": ["Gradebook"],
                "summary": "Grade ladder used for letters and badge colours",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "List the roster of a context",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Roster"],
                "summary": "Replace the roster of a context",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceRosterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate student id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/weights": {
            "get": {
                "tags": ["Weights"],
                "summary": "Weights in force for a context",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Weights"],
                "summary": "Override the weights of a context",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateWeightsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid weights", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Weights"],
                "summary": "Restore default weights",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/students/{studentId}/scores/{type}": {
            "put": {
                "tags": ["Scores"],
                "summary": "Store one score; out-of-range input is clamped",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "type", "in": "path", "required": true, "type": "string", "enum": ["test", "assignment", "midexam", "finalexam"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown assessment type", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/students/{studentId}/scores": {
            "get": {
                "tags": ["Scores"],
                "summary": "Stored scores of a student",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/students/{studentId}/result": {
            "get": {
                "tags": ["Results"],
                "summary": "Weighted final result of a student",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/scores/bulk": {
            "post": {
                "tags": ["Scores"],
                "summary": "Store many scores; invalid items are reported",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkScoresRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/scores/import": {
            "post": {
                "tags": ["Scores"],
                "summary": "Import an XLSX score sheet",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unreadable sheet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/results": {
            "get": {
                "tags": ["Results"],
                "summary": "Class results table in roster order",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/statistics": {
            "get": {
                "tags": ["Results"],
                "summary": "Class statistics; data is null when no student scored above zero",
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contexts/{contextId}/export": {
            "get": {
                "tags": ["Results"],
                "summary": "Download the class results table",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "contextId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "ReplaceRosterRequest": {
            "type": "object",
            "properties": {
                "students": {"type": "array", "items": {"$ref": "#/definitions/Student"}}
            }
        },
        "UpdateWeightsRequest": {
            "type": "object",
            "required": ["weights"],
            "properties": {
                "weights": {"type": "object", "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}}
            }
        },
        "ScoreInput": {
            "type": "object",
            "properties": {
                "score": {"description": "Number or numeric string; anything else is stored as 0"}
            }
        },
        "BulkScoreItem": {
            "type": "object",
            "required": ["student_id", "assessment_type"],
            "properties": {
                "student_id": {"type": "string"},
                "assessment_type": {"type": "string"},
                "score": {"description": "Number or numeric string"}
            }
        },
        "BulkScoresRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/BulkScoreItem"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

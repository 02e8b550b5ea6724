package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "FieldOps API",
        "description": "Geofencing and work-integrity engine for municipal field workers",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "GPS check-in/check-out and manual entry review"},
        {"name": "Tasks", "description": "Completion verification and distance policy controls"},
        {"name": "Appeals", "description": "Appeals against automated rejections"},
        {"name": "Zones", "description": "Boundary imports and location diagnostics"},
        {"name": "Reports", "description": "Attendance reporting"}
    ],
    "paths": {
        "/attendance/check-in": {
            "post": {
                "tags": ["Attendance"],
                "summary": "GPS check-in for the current day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckInRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already checked in"},
                    "422": {"description": "Location validation failed"}
                }
            }
        },
        "/attendance/manual": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Manual check-in without GPS verification",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ManualCheckInRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/check-out": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Close the active session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No active session"}
                }
            }
        },
        "/attendance/today": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Current day's session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/history": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Caller's session history",
                "parameters": [
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/manual/pending": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Manual entries awaiting review",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/manual/{id}/resolve": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Approve or reject a manual entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ManualApprovalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Entry already resolved"}
                }
            }
        },
        "/tasks/{id}/complete": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Submit task completion with a GPS reading",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TaskCompletionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Task state does not allow completion"}
                }
            }
        },
        "/tasks/{id}/progress": {
            "patch": {
                "tags": ["Tasks"],
                "summary": "Update completion percentage",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TaskProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{id}/extend": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Move a task deadline",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TaskExtensionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{id}/reset": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Reopen a rejected task with cleared strikes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Task is not rejected"}
                }
            }
        },
        "/tasks/location-warnings": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Tasks flagged by a first-strike distance failure",
                "parameters": [
                    {"name": "municipalityId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appeals": {
            "post": {
                "tags": ["Appeals"],
                "summary": "Open an appeal against an automated rejection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AppealRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "An open appeal already exists"}
                }
            }
        },
        "/appeals/pending": {
            "get": {
                "tags": ["Appeals"],
                "summary": "Appeals awaiting review",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appeals/{id}/review": {
            "post": {
                "tags": ["Appeals"],
                "summary": "Record the terminal appeal decision",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AppealReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Appeal already reviewed"}
                }
            }
        },
        "/zones/import": {
            "post": {
                "tags": ["Zones"],
                "summary": "Import zone boundaries from GeoJSON or shapefile",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "municipality_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "format", "in": "formData", "required": true, "type": "string"},
                    {"name": "notes", "in": "formData", "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "dbf", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/zones/validate-location": {
            "post": {
                "tags": ["Zones"],
                "summary": "Run the validation pipeline for one GPS sample",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateLocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/attendance": {
            "get": {
                "tags": ["Reports"],
                "summary": "Attendance summary report as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        }
    },
    "definitions": {
        "CheckInRequest": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "accuracy": {"type": "number"}
            },
            "required": ["lat", "lon"]
        },
        "ManualCheckInRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            },
            "required": ["reason"]
        },
        "ManualApprovalRequest": {
            "type": "object",
            "properties": {
                "approve": {"type": "boolean"},
                "reason": {"type": "string"}
            },
            "required": ["approve"]
        },
        "TaskCompletionRequest": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "accuracy": {"type": "number"},
                "notes": {"type": "string"}
            },
            "required": ["lat", "lon"]
        },
        "TaskProgressRequest": {
            "type": "object",
            "properties": {
                "progress": {"type": "integer"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "accuracy": {"type": "number"},
                "notes": {"type": "string"}
            },
            "required": ["progress"]
        },
        "TaskExtensionRequest": {
            "type": "object",
            "properties": {
                "deadline": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["deadline"]
        },
        "AppealRequest": {
            "type": "object",
            "properties": {
                "entity_type": {"type": "string", "enum": ["TaskRejection", "AttendanceFailure"]},
                "entity_id": {"type": "string"},
                "reason": {"type": "string"}
            },
            "required": ["entity_type", "entity_id", "reason"]
        },
        "AppealReviewRequest": {
            "type": "object",
            "properties": {
                "approve": {"type": "boolean"},
                "notes": {"type": "string"},
                "disposition": {"type": "string", "enum": ["Completed", "Pending"]}
            },
            "required": ["approve"]
        },
        "ValidateLocationRequest": {
            "type": "object",
            "properties": {
                "municipality_id": {"type": "string"},
                "user_id": {"type": "string"},
                "sample": {"$ref": "#/definitions/LocationSample"}
            },
            "required": ["sample"]
        },
        "LocationSample": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "accuracy": {"type": "number"}
            },
            "required": ["lat", "lon"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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

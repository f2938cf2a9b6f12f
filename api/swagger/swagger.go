package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Fire Company Administration API",
        "description": "Positions, assignments, citations and attendance for a volunteer fire company",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Positions", "description": "Position catalog and assignment ledger"},
        {"name": "Events", "description": "Citation scheduling and lifecycle"},
        {"name": "Attendance", "description": "Attendance recording and reporting"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Unavailable"}
                }
            }
        },
        "/positions": {
            "get": {
                "tags": ["Positions"],
                "summary": "List catalog positions with current holders",
                "parameters": [
                    {"name": "branch", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Positions"],
                "summary": "Create position",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePositionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/positions/stats": {
            "get": {
                "tags": ["Positions"],
                "summary": "Catalog occupancy statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/positions/{id}": {
            "get": {
                "tags": ["Positions"],
                "summary": "Get position detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Positions"],
                "summary": "Update position",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePositionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Positions"],
                "summary": "Delete position without active assignments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Active assignment exists"}
                }
            }
        },
        "/positions/{id}/assign": {
            "post": {
                "tags": ["Positions"],
                "summary": "Assign a firefighter to the position",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignPositionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already assigned or capacity exceeded"}
                }
            }
        },
        "/positions/{id}/release": {
            "put": {
                "tags": ["Positions"],
                "summary": "Release the active assignment on the position",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ReleasePositionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No active assignment"}
                }
            }
        },
        "/positions/{id}/holder": {
            "get": {
                "tags": ["Positions"],
                "summary": "Current holder of the position",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/positions/{id}/history": {
            "get": {
                "tags": ["Positions"],
                "summary": "Full assignment history of the position",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List citations",
                "parameters": [
                    {"name": "state", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Schedule a citation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid attendee"}
                }
            }
        },
        "/events/stats": {
            "get": {
                "tags": ["Events"],
                "summary": "Citation statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get citation detail with roster",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Events"],
                "summary": "Edit a scheduled citation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Event is no longer scheduled"}
                }
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Delete a citation that was never realized",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Realized events cannot be deleted"}
                }
            }
        },
        "/events/{id}/cancel": {
            "post": {
                "tags": ["Events"],
                "summary": "Cancel a scheduled citation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/events/{id}/roster": {
            "put": {
                "tags": ["Events"],
                "summary": "Replace the attendee roster of a citation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceRosterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid attendee"}
                }
            }
        },
        "/events/{id}/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Event roster with recorded outcomes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/attendees/{firefighterId}/attendance": {
            "put": {
                "tags": ["Attendance"],
                "summary": "Record attendance for one roster member",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "firefighterId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetAttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not on roster"}
                }
            }
        },
        "/events/{id}/attendance/bulk": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record attendance for many roster members",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkAttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/attendance/summary": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Derived attendance totals",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/attendance/sheet": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Printable attendance sheet",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "CreatePositionRequest": {
            "type": "object",
            "required": ["name", "branch", "hierarchy"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "branch": {"type": "string", "enum": ["ADMINISTRATIVE", "OPERATIONAL", "COUNCIL"]},
                "hierarchy": {"type": "integer"},
                "maxOccupants": {"type": "integer"}
            }
        },
        "UpdatePositionRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "branch": {"type": "string"},
                "hierarchy": {"type": "integer"},
                "maxOccupants": {"type": "integer"},
                "active": {"type": "boolean"}
            }
        },
        "AssignPositionRequest": {
            "type": "object",
            "required": ["firefighterId"],
            "properties": {
                "firefighterId": {"type": "string"},
                "startDate": {"type": "string", "format": "date-time"},
                "periodYear": {"type": "integer"},
                "notes": {"type": "string"}
            }
        },
        "ReleasePositionRequest": {
            "type": "object",
            "properties": {
                "endDate": {"type": "string", "format": "date-time"},
                "notes": {"type": "string"}
            }
        },
        "CreateEventRequest": {
            "type": "object",
            "required": ["title", "date", "time", "location", "reason"],
            "properties": {
                "title": {"type": "string"},
                "date": {"type": "string", "format": "date-time"},
                "time": {"type": "string", "example": "19:30"},
                "location": {"type": "string"},
                "reason": {"type": "string"},
                "attendeeIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpdateEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "date": {"type": "string", "format": "date-time"},
                "time": {"type": "string"},
                "location": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "ReplaceRosterRequest": {
            "type": "object",
            "required": ["attendeeIds"],
            "properties": {
                "attendeeIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SetAttendanceRequest": {
            "type": "object",
            "required": ["attended"],
            "properties": {
                "attended": {"type": "boolean"},
                "notes": {"type": "string"}
            }
        },
        "BulkAttendanceRequest": {
            "type": "object",
            "required": ["entries"],
            "properties": {
                "entries": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "required": ["firefighterId", "attended"],
                        "properties": {
                            "firefighterId": {"type": "string"},
                            "attended": {"type": "boolean"},
                            "notes": {"type": "string"}
                        }
                    }
                }
            }
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

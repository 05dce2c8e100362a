package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Records API",
        "description": "Student, subject and enrollment record keeper",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student roster"},
        {"name": "Subjects", "description": "Subject catalog"},
        {"name": "Enrollments", "description": "Student-subject assignments"},
        {"name": "Exports", "description": "CSV/PDF roster downloads"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "Read students: by id, paginated, or full list",
                "parameters": [
                    {"name": "id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Record, list, or {students,total}"}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {
                    "201": {"description": "{message,id}"},
                    "400": {"description": "Invalid input"},
                    "409": {"description": "Duplicate email"},
                    "500": {"description": "Persistence failure"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "responses": {
                    "200": {"description": "{message}"},
                    "409": {"description": "Duplicate email"},
                    "500": {"description": "Persistence failure"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "responses": {
                    "200": {"description": "{message}"},
                    "409": {"description": "Dependency conflict with enrollment count"},
                    "500": {"description": "Persistence failure"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Read subjects: by id, paginated, or full list",
                "parameters": [
                    {"name": "id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Record, list, or {subjects,total}"}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "responses": {
                    "201": {"description": "{message,id}"},
                    "409": {"description": "Duplicate name"}
                }
            },
            "put": {
                "tags": ["Subjects"],
                "summary": "Update subject",
                "responses": {
                    "200": {"description": "{message}"}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete subject",
                "responses": {
                    "200": {"description": "{message}"},
                    "400": {"description": "Missing id"},
                    "404": {"description": "Subject not found"},
                    "409": {"description": "Assignment conflict with count and type"}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Read enrollments: by id, by student, paginated, or full list",
                "parameters": [
                    {"name": "id", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Record, list, or {enrollments,total}"}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Assign subject to student",
                "responses": {
                    "201": {"description": "{message,id}"}
                }
            },
            "put": {
                "tags": ["Enrollments"],
                "summary": "Update enrollment",
                "responses": {
                    "200": {"description": "{message}"}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Remove enrollment",
                "responses": {
                    "200": {"description": "{message}"}
                }
            }
        }
    },
    "definitions": {
        "StudentPayload": {
            "type": "object",
            "required": ["fullname", "email", "age"],
            "properties": {
                "fullname": {"type": "string"},
                "email": {"type": "string"},
                "age": {"type": "integer"}
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

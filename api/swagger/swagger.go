package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Civic Service Portal API",
        "description": "Citizen service request portal: applications, review, payments and notifications",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Login and citizen registration"},
        {"name": "Catalog", "description": "Departments and services open for applications"},
        {"name": "Requests", "description": "Service request lifecycle"},
        {"name": "Notifications", "description": "User inbox"},
        {"name": "Dashboard", "description": "Admin aggregates"},
        {"name": "Users", "description": "Profiles and staff provisioning"},
        {"name": "Exports", "description": "CSV listings and PDF receipts"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register citizen account",
                "responses": {
                    "201": {"description": "Account created"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/services": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List services open for applications",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/requests": {
            "get": {
                "tags": ["Requests"],
                "summary": "List visible requests",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Requests"],
                "summary": "Submit a service request",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Request created"},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/requests/{id}": {
            "get": {
                "tags": ["Requests"],
                "summary": "Get request detail",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/requests/{id}/review": {
            "post": {
                "tags": ["Requests"],
                "summary": "Begin reviewing a request",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Under review"},
                    "409": {"description": "Not awaiting review"}
                }
            }
        },
        "/requests/{id}/decision": {
            "post": {
                "tags": ["Requests"],
                "summary": "Approve or reject a request",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Decision recorded"},
                    "409": {"description": "Already finalized"}
                }
            }
        },
        "/requests/{id}/receipt": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a payment receipt",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "PDF receipt"}}
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List inbox notifications",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/read-all": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark all notifications read",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Portal-wide aggregates",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/users": {
            "post": {
                "tags": ["Users"],
                "summary": "Provision a staff account",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/profile": {
            "get": {
                "tags": ["Users"],
                "summary": "Get own profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update own profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/exports/requests.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export requests as CSV",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "CSV export"}}
            }
        }
    },
    "definitions": {
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

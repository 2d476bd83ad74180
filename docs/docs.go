// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.readinessResponse"}}
                }
            }
        },
        "/v1/listings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Browse listings, newest first",
                "parameters": [
                    {"type": "integer", "description": "Page number (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Only listings of this owner", "name": "owner_id", "in": "query"},
                    {"enum": ["Petrol", "Diesel", "Electric", "Hybrid", "CNG"], "type": "string", "description": "Fuel type", "name": "fuel_type", "in": "query"},
                    {"enum": ["Manual", "Automatic"], "type": "string", "description": "Transmission", "name": "transmission", "in": "query"},
                    {"type": "integer", "description": "Model year", "name": "year", "in": "query"},
                    {"type": "number", "description": "Minimum price", "name": "price_min", "in": "query"},
                    {"type": "number", "description": "Maximum price", "name": "price_max", "in": "query"},
                    {"type": "string", "description": "Search title, make and model", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listListingsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Create a listing",
                "parameters": [
                    {"description": "Listing details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createListingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.listingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/listings/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Get a listing",
                "parameters": [
                    {"type": "string", "description": "Listing id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Update a listing",
                "parameters": [
                    {"type": "string", "description": "Listing id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateListingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Delete a listing",
                "parameters": [
                    {"type": "string", "description": "Listing id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.User": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.createListingRequest": {
            "type": "object",
            "required": ["description", "images"],
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "make": {"type": "string", "maxLength": 60},
                "model": {"type": "string", "maxLength": 60},
                "year": {"type": "integer", "minimum": 0},
                "price": {"type": "number", "minimum": 0},
                "mileage": {"type": "integer", "minimum": 0},
                "location": {"type": "string", "maxLength": 120},
                "fuel_type": {"type": "string", "enum": ["Petrol", "Diesel", "Electric", "Hybrid", "CNG"]},
                "transmission": {"type": "string", "enum": ["Manual", "Automatic"]},
                "description": {"type": "string", "maxLength": 5000},
                "features": {"type": "string", "maxLength": 2000},
                "images": {"type": "array", "maxItems": 10, "minItems": 1, "items": {"type": "string"}},
                "tags": {"$ref": "#/definitions/handler.tagsRequest"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.listListingsResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handler.listingResponse"}},
                "pagination": {"$ref": "#/definitions/handler.paginationResponse"}
            }
        },
        "handler.listingLinks": {
            "type": "object",
            "properties": {
                "self": {"type": "string"}
            }
        },
        "handler.listingResponse": {
            "type": "object",
            "properties": {
                "_links": {"$ref": "#/definitions/handler.listingLinks"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "features": {"type": "string"},
                "fuel_type": {"type": "string"},
                "id": {"type": "string"},
                "images": {"type": "array", "items": {"type": "string"}},
                "location": {"type": "string"},
                "make": {"type": "string"},
                "mileage": {"type": "integer"},
                "model": {"type": "string"},
                "owner": {"$ref": "#/definitions/handler.ownerResponse"},
                "owner_id": {"type": "string"},
                "price": {"type": "number"},
                "tags": {"$ref": "#/definitions/handler.tagsResponse"},
                "title": {"type": "string"},
                "transmission": {"type": "string"},
                "updated_at": {"type": "string"},
                "year": {"type": "integer"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handler.ownerResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.paginationResponse": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "page": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "maxLength": 72, "minLength": 8}
            }
        },
        "handler.tagsRequest": {
            "type": "object",
            "properties": {
                "car_type": {"type": "string", "maxLength": 60},
                "company": {"type": "string", "maxLength": 60},
                "dealer": {"type": "string", "maxLength": 120}
            }
        },
        "handler.tagsResponse": {
            "type": "object",
            "properties": {
                "car_type": {"type": "string"},
                "company": {"type": "string"},
                "dealer": {"type": "string"}
            }
        },
        "handler.updateListingRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "make": {"type": "string"},
                "model": {"type": "string"},
                "year": {"type": "integer"},
                "price": {"type": "number"},
                "mileage": {"type": "integer"},
                "location": {"type": "string"},
                "fuel_type": {"type": "string"},
                "transmission": {"type": "string"},
                "description": {"type": "string"},
                "features": {"type": "string"},
                "images": {"type": "array", "items": {"type": "string"}},
                "tags": {"$ref": "#/definitions/handler.tagsRequest"}
            }
        },
        "handlers.dependencyStatus": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handlers.readinessResponse": {
            "type": "object",
            "properties": {
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handlers.dependencyStatus"}},
                "status": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Car Marketplace API",
	Description:      "Browse used car listings and manage your own.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package devbackend holds the Swagger document served at /swagger/ by the
// development backend. Regenerate with:
//
//	swag init -g internal/devbackend/http/router.go -o api/devbackend --parseInternal
package devbackend

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/shiftboard"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/login": {
            "post": {
                "description": "Returns an access token, a rotating refresh token and the account role.\nAccounts enrolled in TOTP must also send the current code in \"otp\".",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "accessToken, refreshToken, expiresIn, role, userId", "schema": {"$ref": "#/definitions/http.TokenResponse"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "invalid_credentials or mfa_required", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/refresh": {
            "post": {
                "description": "Rotates the refresh token. The presented token is revoked and cannot be used again.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Exchange a refresh token",
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.RefreshRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "accessToken, refreshToken, expiresIn, role, userId", "schema": {"$ref": "#/definitions/http.TokenResponse"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "invalid_grant", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the profile of the user the access token was issued to. Any role may call it.",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get the signed-in user",
                "responses": {
                    "200": {"description": "id, email, name, role, businessUnitId", "schema": {"$ref": "#/definitions/http.ProfileResponse"}},
                    "401": {"description": "Invalid or missing access token", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/shifts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Shifts starting within [from, to]. A date-only \"to\" includes the whole day. Both bounds are optional.\n\"start\" is epoch seconds and \"end\" is RFC3339.",
                "produces": ["application/json"],
                "tags": ["Roster"],
                "summary": "List shifts",
                "parameters": [
                    {"type": "string", "description": "Lower bound (date, RFC3339 or epoch)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Upper bound (date, RFC3339 or epoch)", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.ShiftResponse"}}},
                    "400": {"description": "Bad period", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Invalid or missing access token", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "403": {"description": "Role not permitted", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/consumption-items": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "The full catalog. \"updatedAt\" is epoch milliseconds.",
                "produces": ["application/json"],
                "tags": ["Roster"],
                "summary": "List consumption items",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.ItemResponse"}}},
                    "401": {"description": "Invalid or missing access token", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "403": {"description": "Role not permitted", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/payroll/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Hours and gross pay per staff member for shifts starting within [from, to]. Both bounds are required.\n\"periodStart\" is a date and \"periodEnd\" is a [year, month, day] array.",
                "produces": ["application/json"],
                "tags": ["Roster"],
                "summary": "Payroll summary",
                "parameters": [
                    {"type": "string", "description": "First day (date, RFC3339 or epoch)", "name": "from", "in": "query", "required": true},
                    {"type": "string", "description": "Last day (date, RFC3339 or epoch)", "name": "to", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.PayrollResponse"}},
                    "400": {"description": "Bad period", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Invalid or missing access token", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "403": {"description": "Role not permitted", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process runs.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe that checks the database and that a signing key is loaded.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/http.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "signer": {"type": "string"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/http.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "http.ItemResponse": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean"},
                "category": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "unitPrice": {"type": "number"},
                "updatedAt": {"type": "integer"}
            }
        },
        "http.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "otp": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "http.PayrollLineResponse": {
            "type": "object",
            "properties": {
                "gross": {"type": "number"},
                "hours": {"type": "number"},
                "rate": {"type": "number"},
                "staffId": {"type": "string"},
                "staffName": {"type": "string"}
            }
        },
        "http.PayrollResponse": {
            "type": "object",
            "properties": {
                "lines": {"type": "array", "items": {"$ref": "#/definitions/http.PayrollLineResponse"}},
                "periodEnd": {"type": "array", "items": {"type": "integer"}},
                "periodStart": {"type": "string"},
                "totalGross": {"type": "number"},
                "totalHours": {"type": "number"}
            }
        },
        "http.ProfileResponse": {
            "type": "object",
            "properties": {
                "businessUnitId": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "http.RefreshRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            }
        },
        "http.ShiftResponse": {
            "type": "object",
            "properties": {
                "end": {"type": "string"},
                "id": {"type": "string"},
                "notes": {"type": "string"},
                "role": {"type": "string"},
                "staffId": {"type": "string"},
                "staffName": {"type": "string"},
                "start": {"type": "integer"}
            }
        },
        "http.TokenResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "refreshToken": {"type": "string"},
                "role": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "httpx.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Shiftboard Development Backend API",
	Description:      "Stand-in for the dashboard REST backend. Issues EdDSA-signed access tokens and rotating opaque refresh tokens,\nand serves roster, catalog and payroll data with mixed timestamp encodings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

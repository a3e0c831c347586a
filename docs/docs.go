// Package docs registers the OpenAPI document served at /swagger/doc.json.
// The operation list mirrors the handler annotations in api/resources.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"tags": ["utils"], "summary": "Health", "responses": {"200": {"description": "OK"}}}},
        "/utils/health-check/": {"get": {"tags": ["utils"], "summary": "Store health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Store unreachable", "schema": {"$ref": "#/definitions/errors.APIError"}}}}},
        "/utils/events": {"get": {"tags": ["utils"], "summary": "Domain event counts", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "event", "in": "query"}, {"type": "string", "name": "window", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/login/access-token": {"post": {"tags": ["login"], "summary": "Access token", "consumes": ["application/x-www-form-urlencoded"], "parameters": [{"type": "string", "name": "username", "in": "formData", "required": true}, {"type": "string", "name": "password", "in": "formData", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Token"}}, "400": {"description": "Bad credentials", "schema": {"$ref": "#/definitions/errors.APIError"}}}}},
        "/login/test-token": {"post": {"tags": ["login"], "summary": "Test access token", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserPublic"}}}}},
        "/logout": {"post": {"tags": ["login"], "summary": "Logout", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Message"}}}}},
        "/password-recovery/{email}": {"post": {"tags": ["login"], "summary": "Password recovery", "parameters": [{"type": "string", "name": "email", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Message"}}, "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/errors.APIError"}}}}},
        "/reset-password/": {"post": {"tags": ["login"], "summary": "Reset password", "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.NewPassword"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Message"}}}}},
        "/users/": {
            "get": {"tags": ["users"], "summary": "List users", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "skip", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UsersPublic"}}}},
            "post": {"tags": ["users"], "summary": "Create user", "security": [{"BearerAuth": []}], "parameters": [{"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UserCreate"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserPublic"}}}}
        },
        "/users/signup": {"post": {"tags": ["users"], "summary": "Register", "parameters": [{"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UserRegister"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserPublic"}}}}},
        "/users/me": {
            "get": {"tags": ["users"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserPublic"}}}},
            "patch": {"tags": ["users"], "summary": "Update current user", "security": [{"BearerAuth": []}], "parameters": [{"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UserUpdateMe"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserPublic"}}}},
            "delete": {"tags": ["users"], "summary": "Delete current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Message"}}}}
        },
        "/users/me/password": {"patch": {"tags": ["users"], "summary": "Change own password", "security": [{"BearerAuth": []}], "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdatePassword"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Message"}}}}},
        "/users/{id}": {
            "get": {"tags": ["users"], "summary": "Get user", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserPublic"}}}},
            "patch": {"tags": ["users"], "summary": "Update user", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UserUpdate"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserPublic"}}}},
            "delete": {"tags": ["users"], "summary": "Delete user", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Message"}}}}
        },
        "/sensor-data/": {
            "get": {"tags": ["sensor-data"], "summary": "List sensor data", "parameters": [{"type": "integer", "default": 0, "name": "skip", "in": "query"}, {"type": "integer", "default": 100, "description": "Page size, 0 means 100", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SensorReadingsPublic"}}}},
            "post": {"tags": ["sensor-data"], "summary": "Create sensor data", "security": [{"BearerAuth": []}], "parameters": [{"name": "reading", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SensorReadingCreate"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SensorReadingPublic"}}}}
        },
        "/sensor-data/options/equipment": {"get": {"tags": ["sensor-data"], "summary": "Equipment options", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.EquipmentOptions"}}}}},
        "/sensor-data/equipment/{equipment_id}": {"get": {"tags": ["sensor-data"], "summary": "List sensor data of one equipment", "parameters": [{"type": "string", "name": "equipment_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SensorReadingsPublic"}}}}},
        "/sensor-data/dashboard/line-chart": {"post": {"tags": ["dashboard"], "summary": "Line chart", "security": [{"BearerAuth": []}], "parameters": [{"name": "filter", "in": "body", "schema": {"$ref": "#/definitions/models.LineChartRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LineChartPublic"}}}}},
        "/sensor-data/dashboard/bar-chart": {"post": {"tags": ["dashboard"], "summary": "Bar chart", "security": [{"BearerAuth": []}], "parameters": [{"name": "query", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BarChartRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BarChartPublic"}}, "400": {"description": "Invalid fetch mode", "schema": {"$ref": "#/definitions/errors.APIError"}}}}},
        "/sensor-data/csv": {"post": {"tags": ["sensor-data"], "summary": "Import sensor data from CSV", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "parameters": [{"type": "file", "name": "sensor_data_csv_file", "in": "formData", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ImportOutcome"}}, "400": {"description": "Malformed file", "schema": {"$ref": "#/definitions/errors.APIError"}}, "403": {"description": "Not a superuser", "schema": {"$ref": "#/definitions/errors.APIError"}}}}},
        "/sensor-data/{id}": {
            "get": {"tags": ["sensor-data"], "summary": "Get sensor data", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SensorReadingPublic"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errors.APIError"}}}},
            "put": {"tags": ["sensor-data"], "summary": "Update sensor data", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "reading", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SensorReadingUpdate"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SensorReadingPublic"}}}},
            "delete": {"tags": ["sensor-data"], "summary": "Delete sensor data", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Message"}}}}
        }
    },
    "definitions": {
        "errors.APIError": {"type": "object", "properties": {"type": {"type": "string"}, "detail": {"type": "string"}, "code": {"type": "integer"}, "request_id": {"type": "string"}}},
        "models.Message": {"type": "object", "properties": {"message": {"type": "string"}}},
        "models.Token": {"type": "object", "properties": {"access_token": {"type": "string"}, "token_type": {"type": "string"}}},
        "models.NewPassword": {"type": "object", "properties": {"token": {"type": "string"}, "new_password": {"type": "string"}}},
        "models.UpdatePassword": {"type": "object", "properties": {"current_password": {"type": "string"}, "new_password": {"type": "string"}}},
        "models.UserPublic": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "full_name": {"type": "string"}, "is_active": {"type": "boolean"}, "is_superuser": {"type": "boolean"}}},
        "models.UsersPublic": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.UserPublic"}}, "count": {"type": "integer"}}},
        "models.UserCreate": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "full_name": {"type": "string"}, "is_active": {"type": "boolean"}, "is_superuser": {"type": "boolean"}}},
        "models.UserRegister": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "full_name": {"type": "string"}}},
        "models.UserUpdate": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "full_name": {"type": "string"}, "is_active": {"type": "boolean"}, "is_superuser": {"type": "boolean"}}},
        "models.UserUpdateMe": {"type": "object", "properties": {"email": {"type": "string"}, "full_name": {"type": "string"}}},
        "models.SensorReadingCreate": {"type": "object", "properties": {"equipment_id": {"type": "string"}, "value": {"type": "number"}, "timestamp": {"type": "string", "format": "date-time"}}},
        "models.SensorReadingUpdate": {"type": "object", "properties": {"equipment_id": {"type": "string"}, "value": {"type": "number"}, "timestamp": {"type": "string", "format": "date-time"}}},
        "models.SensorReadingPublic": {"type": "object", "properties": {"id": {"type": "string"}, "equipment_id": {"type": "string"}, "value": {"type": "number"}, "timestamp": {"type": "string", "format": "date-time"}}},
        "models.SensorReadingsPublic": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.SensorReadingPublic"}}, "count": {"type": "integer"}}},
        "models.EquipmentOptions": {"type": "object", "properties": {"data": {"type": "array", "items": {"type": "object", "properties": {"value": {"type": "string"}, "label": {"type": "string"}}}}}},
        "models.LineChartRequest": {"type": "object", "properties": {"equipment_ids": {"type": "array", "items": {"type": "string"}}}},
        "models.LineChartPublic": {"type": "object", "properties": {"data": {"type": "array", "items": {"type": "object", "properties": {"equipment_id": {"type": "string"}, "hour_bucket": {"type": "string", "format": "date-time"}, "avg_value": {"type": "number"}}}}}},
        "models.BarChartRequest": {"type": "object", "properties": {"skip": {"type": "integer"}, "limit": {"type": "integer"}, "fetch_mode": {"type": "integer", "enum": [1, 2, 3, 4]}, "equipment_ids": {"type": "array", "items": {"type": "string"}}}},
        "models.BarChartPublic": {"type": "object", "properties": {"data": {"type": "array", "items": {"type": "object", "properties": {"equipment_id": {"type": "string"}, "avg_value": {"type": "number"}}}}, "count": {"type": "integer"}}},
        "models.ImportOutcome": {"type": "object", "properties": {"count_success": {"type": "integer"}, "count_fail": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "sensorhub API",
	Description:      "Sensor readings store with dashboard aggregates and CSV import.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

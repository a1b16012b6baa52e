// Package docs holds the OpenAPI description of the inkmatch HTTP API,
// served by swaggo under /swagger/.
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
        "/api/search-sketches": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Recommend sketches for questionnaire answers",
                "parameters": [
                    {
                        "description": "Questionnaire answers",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.UserResponse"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/worker.searchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/worker.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/worker.errorResponse"}}
                }
            },
            "get": {
                "produces": ["application/json"],
                "tags": ["reactions"],
                "summary": "List reactions for a session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "session_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/worker.reactionsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/worker.errorResponse"}}
                }
            }
        },
        "/api/update-session": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Attach an email to a search session",
                "parameters": [
                    {
                        "description": "Session and email",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/worker.updateSessionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/worker.updateSessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/worker.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/worker.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/worker.errorResponse"}}
                }
            }
        },
        "/api/reactions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reactions"],
                "summary": "List reactions for a session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "session_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/worker.reactionsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/worker.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reactions"],
                "summary": "Set or withdraw a reaction to a sketch",
                "parameters": [
                    {
                        "description": "Reaction",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/worker.reactionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/worker.reactionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/worker.errorResponse"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/worker.healthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.UserResponse": {
            "type": "object",
            "properties": {
                "tattooExperience": {"type": "string", "example": "first-time"},
                "size": {"type": "number"},
                "sizeDescription": {"type": "string"},
                "bodyPart": {"type": "string"},
                "customBodyPart": {"type": "string"},
                "visibility": {"type": "number"},
                "visibilityDescription": {"type": "string"},
                "meaningLevel": {"type": "number"},
                "meaningDescription": {"type": "string"},
                "chaosOrder": {"type": "number"},
                "chaosOrderDescription": {"type": "string"},
                "customLettering": {"type": "string"},
                "userInput": {"type": "string"},
                "customText": {"type": "string"},
                "voiceTranscript": {"type": "string"},
                "moodboardDescription": {"type": "string"}
            }
        },
        "models.SketchRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "artist_name": {"type": "string"},
                "artist_bio": {"type": "string"},
                "description": {"type": "string"},
                "visual_description": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "size": {"type": "string"},
                "style": {"type": "string"},
                "complexity": {"type": "string"},
                "meaning": {"type": "string"},
                "visibility": {"type": "string"},
                "chaos_order": {"type": "string"},
                "price": {"type": "number"},
                "image_filename": {"type": "string"},
                "similarity": {"type": "number"},
                "image_url": {"type": "string"}
            }
        },
        "models.Reaction": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "session_id": {"type": "string"},
                "sketch_id": {"type": "string"},
                "reaction_type": {"type": "string", "enum": ["like", "dislike", "bad_response"]}
            }
        },
        "models.SessionRecord": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "generated_prompt": {"type": "string"},
                "email": {"type": "string"},
                "recommended_sketch_ids": {"type": "array", "items": {"type": "string"}},
                "responses": {"$ref": "#/definitions/models.UserResponse"},
                "is_authenticated": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "worker.errorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "worker.searchResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "session_id": {"type": "string"},
                "sketches": {"type": "array", "items": {"$ref": "#/definitions/models.SketchRecord"}},
                "count": {"type": "integer"}
            }
        },
        "worker.updateSessionRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "worker.updateSessionResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "session": {"$ref": "#/definitions/models.SessionRecord"}
            }
        },
        "worker.reactionRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "sketch_id": {"type": "string"},
                "reaction_type": {"type": "string", "enum": ["like", "dislike", "bad_response"]},
                "action": {"type": "string", "enum": ["upsert", "delete"]}
            }
        },
        "worker.reactionResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "action": {"type": "string"},
                "reaction_type": {"type": "string"},
                "sketch_id": {"type": "string"},
                "session_id": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "worker.reactionsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "session_id": {"type": "string"},
                "reactions": {"type": "array", "items": {"$ref": "#/definitions/models.Reaction"}}
            }
        },
        "worker.healthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "service": {"type": "string"},
                "version": {"type": "string"},
                "uptime": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "inkmatch API",
	Description:      "Tattoo sketch recommendations from questionnaire answers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

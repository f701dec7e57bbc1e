// Package docs registers the forum's OpenAPI document with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Home page",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/server.HomePage"}}}
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Search posts",
                "parameters": [{"type": "string", "name": "term", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.SearchPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/topics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["topics"],
                "summary": "List topics",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Topic"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["topics"],
                "summary": "Create a topic",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.TopicForm"}}],
                "responses": {
                    "303": {"description": "See Other", "schema": {"$ref": "#/definitions/service.FormState"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/service.FormState"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/service.FormState"}}
                }
            }
        },
        "/topics/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["topics"],
                "summary": "Topic page",
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.TopicPage"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/topics/{slug}/posts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"type": "string", "name": "slug", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.PostForm"}}
                ],
                "responses": {
                    "303": {"description": "See Other", "schema": {"$ref": "#/definitions/service.FormState"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/service.FormState"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/service.FormState"}}
                }
            }
        },
        "/topics/{slug}/posts/{postId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Post page",
                "parameters": [
                    {"type": "string", "name": "slug", "in": "path", "required": true},
                    {"type": "integer", "name": "postId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.PostPage"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{postId}/comments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "List comments of a post",
                "parameters": [{"type": "integer", "name": "postId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/server.CommentsPage"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Comment on a post",
                "parameters": [
                    {"type": "integer", "name": "postId", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"content": {"type": "string"}, "parentId": {"type": "integer"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.FormState"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/service.FormState"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/service.FormState"}}
                }
            }
        },
        "/auth/github": {
            "get": {"tags": ["auth"], "summary": "Sign in with GitHub", "responses": {"302": {"description": "Found"}}}
        },
        "/auth/github/callback": {
            "get": {
                "tags": ["auth"],
                "summary": "GitHub OAuth callback",
                "parameters": [
                    {"type": "string", "name": "code", "in": "query", "required": true},
                    {"type": "string", "name": "state", "in": "query", "required": true}
                ],
                "responses": {"303": {"description": "See Other"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/signout": {
            "post": {"produces": ["application/json"], "tags": ["auth"], "summary": "Sign out", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/session": {
            "get": {"produces": ["application/json"], "tags": ["auth"], "summary": "Current session", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "details": {"type": "string"}, "error": {"type": "string"}}
        },
        "models.Topic": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "slug": {"type": "string"}, "description": {"type": "string"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}
        },
        "models.PostSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "title": {"type": "string"}, "content": {"type": "string"},
                "topic_id": {"type": "integer"}, "topic_slug": {"type": "string"}, "user_id": {"type": "integer"},
                "author_name": {"type": "string"}, "author_image": {"type": "string"},
                "comments_count": {"type": "integer"}, "created_at": {"type": "string"}
            }
        },
        "server.HomePage": {
            "type": "object",
            "properties": {
                "top_posts": {"type": "array", "items": {"$ref": "#/definitions/models.PostSummary"}},
                "topics": {"type": "array", "items": {"$ref": "#/definitions/models.Topic"}}
            }
        },
        "server.TopicPage": {
            "type": "object",
            "properties": {
                "topic": {"$ref": "#/definitions/models.Topic"},
                "posts": {"type": "array", "items": {"$ref": "#/definitions/models.PostSummary"}}
            }
        },
        "server.PostPage": {
            "type": "object",
            "properties": {"post": {"$ref": "#/definitions/models.PostSummary"}, "comments": {"type": "array", "items": {"type": "object"}}}
        },
        "server.CommentsPage": {
            "type": "object",
            "properties": {"comments": {"type": "array", "items": {"type": "object"}}, "thread": {"type": "array", "items": {"type": "object"}}}
        },
        "server.SearchPage": {
            "type": "object",
            "properties": {"term": {"type": "string"}, "posts": {"type": "array", "items": {"$ref": "#/definitions/models.PostSummary"}}}
        },
        "service.FormState": {
            "type": "object",
            "properties": {
                "errors": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "success": {"type": "boolean"}
            }
        },
        "validation.TopicForm": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}}
        },
        "validation.PostForm": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "content": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8375",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Agora API",
	Description:      "Discussion forum API with topics, posts and threaded comments",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

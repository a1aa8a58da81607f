// Package docs registers the OpenAPI description of the reminders API with
// swag. It follows the layout swag init emits for the annotations in
// internal/transport/http; keep the two in step when a route changes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/events": {
            "get": {
                "description": "Server-sent events; each \"reminder\" event carries {\"title\", \"message\"}.",
                "produces": [
                    "text/event-stream"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Stream fired reminders",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/notify.Event"
                        }
                    }
                }
            }
        },
        "/reminders": {
            "get": {
                "description": "Returns every pending reminder in the order it was scheduled.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reminders"
                ],
                "summary": "List reminders",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.ListResult"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResult"
                        }
                    }
                }
            },
            "post": {
                "description": "Parses a sentence such as \"call mom at 5:30 pm\" into a title and a time of day.\nThe reminder fires the next time the scheduler sees that time has passed.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reminders"
                ],
                "summary": "Schedule a reminder",
                "parameters": [
                    {
                        "description": "Sentence containing a 12-hour time",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/http.CreateInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/http.CreateResult"
                        }
                    },
                    "400": {
                        "description": "Invalid request body",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResult"
                        }
                    },
                    "422": {
                        "description": "No time recognized",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResult"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResult"
                        }
                    },
                    "500": {
                        "description": "Saving failed",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResult"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "http.CreateInput": {
            "type": "object",
            "properties": {
                "utterance": {
                    "type": "string",
                    "example": "call mom at 5:30 pm"
                }
            }
        },
        "http.CreateResult": {
            "type": "object",
            "properties": {
                "reminder": {
                    "$ref": "#/definitions/http.Reminder"
                }
            }
        },
        "http.ErrorResult": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                }
            }
        },
        "http.ListResult": {
            "type": "object",
            "properties": {
                "reminders": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/http.Reminder"
                    }
                }
            }
        },
        "http.Reminder": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "example": "5f0c8a39-1f7e-4b8e-9a59-0a3c3c1d2b7e"
                },
                "time": {
                    "type": "string",
                    "example": "17:30"
                },
                "title": {
                    "type": "string",
                    "example": "call mom"
                }
            }
        },
        "notify.Event": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "chime reminders API",
	Description:      "Schedule, list and cancel time-of-day reminders, and stream them as they fire.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI description served under /swagger.
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
        "/api/v1/jobs/{jobId}": {
            "get": {
                "description": "Returns the job row and, once completed, its analysis result.",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Get resume job status",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "jobId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.JobStatusResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handlers.WebhookResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/handlers.WebhookResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/handlers.WebhookResponse"}
                    }
                }
            }
        },
        "/api/v1/webhooks/sns": {
            "get": {
                "description": "Returns a static payload so load balancers and operators can check the webhook route without side effects.",
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "SNS webhook liveness",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.WebhookResponse"}
                    }
                }
            },
            "post": {
                "description": "Authenticates an SNS envelope, confirms subscriptions and applies resume processing events to the matching job.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Receive an SNS push delivery",
                "parameters": [
                    {
                        "description": "SNS envelope",
                        "name": "envelope",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.Envelope"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Processed, confirmed or ignored",
                        "schema": {"$ref": "#/definitions/handlers.WebhookResponse"}
                    },
                    "400": {
                        "description": "Malformed envelope, wrong topic or unparseable payload",
                        "schema": {"$ref": "#/definitions/handlers.WebhookResponse"}
                    },
                    "403": {
                        "description": "Signature verification failed",
                        "schema": {"$ref": "#/definitions/handlers.WebhookResponse"}
                    },
                    "500": {
                        "description": "Persistence or confirmation failure",
                        "schema": {"$ref": "#/definitions/handlers.WebhookResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "handlers.JobStatusResponse": {
            "type": "object",
            "properties": {
                "job": {"$ref": "#/definitions/models.ResumeJob"},
                "result": {"$ref": "#/definitions/models.AnalysisResult"}
            }
        },
        "models.ResumeJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "object_key": {"type": "string"},
                "user_id": {"type": "string"},
                "guest_session_id": {"type": "string"},
                "client_ip": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "PROCESSING", "COMPLETED", "FAILED"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.AnalysisResult": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "overall_score": {"type": "number"},
                "ats_compatibility": {"type": "number"},
                "content_quality": {"type": "number"},
                "contact_score": {"type": "number"},
                "summary_score": {"type": "number"},
                "experience_score": {"type": "number"},
                "education_score": {"type": "number"},
                "skills_score": {"type": "number"},
                "formatting_score": {"type": "number"},
                "keyword_density": {"type": "number"},
                "extracted_skills": {"type": "array", "items": {"type": "string"}},
                "recommendations": {"type": "array", "items": {"type": "string"}},
                "strengths": {"type": "array", "items": {"type": "string"}},
                "improvement_areas": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handlers.WebhookResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "models.Envelope": {
            "type": "object",
            "required": ["Message", "MessageId", "Signature", "SignatureVersion", "SigningCertURL", "Timestamp", "TopicArn", "Type"],
            "properties": {
                "Message": {"type": "string"},
                "MessageId": {"type": "string"},
                "Signature": {"type": "string"},
                "SignatureVersion": {"type": "string"},
                "SigningCertURL": {"type": "string"},
                "Subject": {"type": "string"},
                "SubscribeURL": {"type": "string"},
                "Timestamp": {"type": "string"},
                "Token": {"type": "string"},
                "TopicArn": {"type": "string"},
                "Type": {
                    "type": "string",
                    "enum": ["SubscriptionConfirmation", "Notification", "UnsubscribeConfirmation"]
                },
                "UnsubscribeURL": {"type": "string"}
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
	Title:            "Resume ingest gateway",
	Description:      "Receives resume processing results published to SNS.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

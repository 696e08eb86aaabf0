package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Ticket Assigner",
    "description": "Reads tickets and agents and assigns Auto Assign tickets to the least loaded agent on shift",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/tickets": {
      "get": {"tags": ["tickets"], "summary": "List tickets", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "500": {"description": "Store unavailable"}}}
    },
    "/tickets/agents": {
      "get": {"tags": ["tickets"], "summary": "Ticket count per assigned agent", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "500": {"description": "Store unavailable"}}}
    },
    "/tickets/auto-assign": {
      "post": {"tags": ["tickets"], "summary": "Auto-assign tickets", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "500": {"description": "Store unavailable or run in progress"}}}
    },
    "/agents": {
      "get": {"tags": ["agents"], "summary": "List agents", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "500": {"description": "Store unavailable"}}}
    },
    "/runs/latest": {
      "get": {"tags": ["runs"], "summary": "Latest auto-assign run", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "404": {"description": "No runs yet"}}}
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}

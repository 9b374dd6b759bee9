// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package docs registers the OpenAPI description of the service
// so it can be served by gin-swagger under /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "summary": "RootAction is just an information action about the service",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "CreateDocument analyzes an engine-annotated document and stores the result",
                "parameters": [
                    {"in": "body", "name": "document", "required": true, "description": "Annotated document", "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/documents/{docId}": {
            "get": {
                "produces": ["application/json"],
                "summary": "GetDocument returns a stored analysis",
                "parameters": [
                    {"in": "path", "name": "docId", "type": "string", "required": true, "description": "Document ID"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "summary": "DeleteDocument removes a stored analysis",
                "parameters": [
                    {"in": "path", "name": "docId", "type": "string", "required": true, "description": "Document ID"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/phrases": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Phrases extracts phrases from a sentence's constituency tree",
                "parameters": [
                    {"in": "body", "name": "args", "required": true, "description": "Annotated sentence", "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/head": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Head finds a head token of the token range [begin, end)",
                "parameters": [
                    {"in": "body", "name": "args", "required": true, "description": "Annotated sentence and token range", "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/dependents": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Dependents collects dependents of a node up to the maxDepth levels",
                "parameters": [
                    {"in": "body", "name": "args", "required": true, "description": "Annotated sentence and origin node", "schema": {"type": "object"}},
                    {"in": "query", "name": "maxDepth", "type": "integer", "description": "Max. traversal depth"},
                    {"in": "query", "name": "includeOrigin", "type": "boolean", "default": true, "description": "Include the origin node"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/coref": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Coref assembles coreference clusters out of mentions with representatives flagged",
                "parameters": [
                    {"in": "body", "name": "args", "required": true, "description": "Mentions", "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/conll": {
            "post": {
                "consumes": ["text/plain"],
                "produces": ["application/json"],
                "summary": "CoNLL reads a CoNLL-U (or CoNLL-X) request body",
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "default": "u", "description": "Input format (u or x)"},
                    {"in": "query", "name": "lang", "type": "string", "description": "Language of relation labels"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/relations": {
            "get": {
                "produces": ["application/json"],
                "summary": "Relations lists the universal relations and all the relations resolved so far",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/relations/{lang}/{label}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Resolve resolves a single relation label for a language",
                "parameters": [
                    {"in": "path", "name": "lang", "type": "string", "required": true, "description": "Language"},
                    {"in": "path", "name": "label", "type": "string", "required": true, "description": "Relation label"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "localhost",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "UNIANNO - unified annotation conversion and query service",
	Description:      "Normalizes NLP engine annotations (tokens, constituency trees, dependency graphs, coreference) and answers structural queries over them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

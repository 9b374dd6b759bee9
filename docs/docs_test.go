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

package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocIsValidJSON(t *testing.T) {
	SwaggerInfo.Version = "1.2.3"
	SwaggerInfo.Host = "127.0.0.1:8080"
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		Host  string                    `json:"host"`
		Info  map[string]any            `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "127.0.0.1:8080", parsed.Host)
	assert.Equal(t, "1.2.3", parsed.Info["version"])
	for _, path := range []string{
		"/", "/documents", "/documents/{docId}", "/phrases", "/head",
		"/dependents", "/coref", "/conll", "/relations", "/relations/{lang}/{label}",
	} {
		assert.Contains(t, parsed.Paths, path)
	}
	assert.Contains(t, parsed.Paths["/documents/{docId}"], "delete")
}

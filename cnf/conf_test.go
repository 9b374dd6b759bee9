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

package cnf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONConfig(t *testing.T) {
	conf, err := parseConfig("conf.json", []byte(`{
		"listenPort": 9090,
		"language": "cs",
		"db": {"type": "sqlite", "name": "/tmp/x.db"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 9090, conf.ListenPort)
	assert.Equal(t, "cs", conf.Language)
	require.NotNil(t, conf.DB)
	assert.Equal(t, "sqlite", conf.DB.Type)
}

func TestParseYAMLConfig(t *testing.T) {
	conf, err := parseConfig("conf.yaml", []byte(
		"listenPort: 9090\nmaxDependentsDepth: 3\nvertical:\n  sentenceStruct: p\n  headColIdx: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 9090, conf.ListenPort)
	assert.Equal(t, 3, conf.MaxDependentsDepth)
	require.NotNil(t, conf.Vertical)
	assert.Equal(t, "p", conf.Vertical.SentenceStruct)
	assert.Equal(t, 5, conf.Vertical.HeadColIdx)
}

func TestApplyDefaults(t *testing.T) {
	conf := &Conf{MaxDependentsDepth: 2}
	ApplyDefaults(conf)
	assert.Equal(t, dfltListenPort, conf.ListenPort)
	assert.Equal(t, dfltLanguage, conf.Language)
	assert.Equal(t, 2, conf.MaxDependentsDepth)
	assert.Greater(t, conf.MaxParallelSentences, 0)
	assert.LessOrEqual(t, conf.MaxParallelSentences, 4)
	require.NotNil(t, conf.Vertical)
	assert.Equal(t, "s", conf.Vertical.SentenceStruct)
}

func TestApplyEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, envFileName), []byte(envListenPort+"=7777\n"), 0644))
	t.Setenv(envListenPort, "")
	require.NoError(t, os.Unsetenv(envListenPort))
	t.Setenv(envDBPassword, "secret")
	conf, err := parseConfig(confPath, []byte(`{"db": {"type": "mysql"}}`))
	require.NoError(t, err)
	ApplyEnvOverrides(conf)
	assert.Equal(t, 7777, conf.ListenPort)
	assert.Equal(t, "secret", conf.DB.Password)
}

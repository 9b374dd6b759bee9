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

package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaybeZeroValueIsEmpty(t *testing.T) {
	var m Maybe[int]
	assert.True(t, m.Empty())
	_, ok := m.Value()
	assert.False(t, ok)
	assert.Equal(t, 7, m.ValueOr(7))
	assert.Equal(t, "", m.String())
}

func TestMaybeJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Maybe[int] `json:"a"`
		B Maybe[int] `json:"b"`
	}{A: NewMaybe(0)})
	assert.NoError(t, err)
	assert.Equal(t, `{"a":0,"b":null}`, string(data))

	var v struct {
		A Maybe[int] `json:"a"`
		B Maybe[int] `json:"b"`
	}
	assert.NoError(t, json.Unmarshal([]byte(`{"a":3,"b":null}`), &v))
	a, ok := v.A.Value()
	assert.True(t, ok)
	assert.Equal(t, 3, a)
	assert.True(t, v.B.Empty())
}

func TestMin(t *testing.T) {
	assert.Equal(t, 1, Min(3, 1, 2))
	assert.Equal(t, 4, Min(4))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []int{1, 2, 5}, SortedKeys(map[int]bool{5: true, 1: false, 2: true}))
}

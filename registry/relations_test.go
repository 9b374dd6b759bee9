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

package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniversalRelationIsLanguageIndependent(t *testing.T) {
	reg := NewRegistry()
	en := reg.Resolve("root", "en")
	fr := reg.Resolve("root", "fr")
	assert.Same(t, en, fr)
	assert.True(t, en.Universal)
	assert.True(t, reg.IsUniversal("KILL"))
	assert.False(t, reg.IsUniversal("kill"))
}

func TestResolveIsCached(t *testing.T) {
	reg := NewRegistry()
	first := reg.Resolve("nmod:poss", "en")
	second := reg.Resolve("nmod:poss", "en")
	assert.Same(t, first, second)
	assert.NotSame(t, first, reg.Resolve("nsubj", "en"))
	assert.Equal(t, "en", first.Language)
	assert.False(t, first.Universal)
}

func TestResolveIsLanguageScoped(t *testing.T) {
	reg := NewRegistry()
	en := reg.Resolve("nsubj", "en")
	fr := reg.Resolve("nsubj", "fr")
	assert.NotSame(t, en, fr)
	assert.Same(t, en, reg.Resolve("nsubj", "EN"))
}

func TestCanonicalLanguage(t *testing.T) {
	assert.Equal(t, "en", CanonicalLanguage("EN"))
	assert.Equal(t, "en-US", CanonicalLanguage("en_us"))
	assert.Equal(t, UndefinedLanguage, CanonicalLanguage(" "))
	assert.Equal(t, "not a tag!", CanonicalLanguage("Not a tag!"))
}

func TestConcurrentResolve(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	results := make([]*Relation, 64)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = reg.Resolve("obl:tmod", "en")
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Len(t, reg.Cached(), 1)
}

func TestCachedListing(t *testing.T) {
	reg := NewRegistry()
	reg.Resolve("obj", "fr")
	reg.Resolve("amod", "fr")
	reg.Resolve("obj", "en")
	reg.Resolve("root", "en")
	cached := reg.Cached()
	assert.Len(t, cached, 3)
	assert.Equal(t, "en", cached[0].Language)
	assert.Equal(t, "amod", cached[1].Name)
	assert.Equal(t, "obj", cached[2].Name)
	assert.Len(t, reg.Universal(), 4)
}

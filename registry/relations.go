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
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

const (
	// UndefinedLanguage is used for relations resolved without
	// any language specified
	UndefinedLanguage = "und"
)

// Relation is a resolved grammatical relation. Relations are
// compared by identity - a registry never creates two instances
// for the same (language, label) pair.
type Relation struct {
	Name      string `json:"name"`
	LongName  string `json:"longName,omitempty"`
	Language  string `json:"language,omitempty"`
	Universal bool   `json:"universal"`
}

func (r *Relation) String() string {
	return r.Name
}

type relationKey struct {
	language string
	label    string
}

// Registry resolves relation labels to Relation instances.
// The registry is append-only; once a label is resolved, the same
// instance is returned for the lifetime of the registry.
// It is safe for concurrent use. Reads of already resolved
// labels do not lock.
type Registry struct {
	universal map[string]*Relation
	cache     sync.Map

	// missMu guards creation of new cache entries
	missMu sync.Mutex
}

// Resolve returns a relation for the provided label. Universal relations
// (root, dep, gov, KILL) are language independent, all other labels
// are scoped by the language. Unknown labels always resolve
// to a newly registered relation.
func (reg *Registry) Resolve(label, lang string) *Relation {
	if rel, ok := reg.universal[label]; ok {
		return rel
	}
	key := relationKey{language: CanonicalLanguage(lang), label: label}
	if rel, ok := reg.cache.Load(key); ok {
		return rel.(*Relation)
	}
	reg.missMu.Lock()
	defer reg.missMu.Unlock()
	if rel, ok := reg.cache.Load(key); ok {
		return rel.(*Relation)
	}
	rel := &Relation{Name: label, Language: key.language}
	reg.cache.Store(key, rel)
	return rel
}

// IsUniversal tests whether the label belongs to the fixed
// set of language independent relations.
func (reg *Registry) IsUniversal(label string) bool {
	_, ok := reg.universal[label]
	return ok
}

// Universal returns the fixed language independent relations
// sorted by name.
func (reg *Registry) Universal() []*Relation {
	ans := make([]*Relation, 0, len(reg.universal))
	for _, v := range reg.universal {
		ans = append(ans, v)
	}
	sort.Slice(ans, func(i, j int) bool { return ans[i].Name < ans[j].Name })
	return ans
}

// Cached returns all the relations resolved so far (universal ones
// excluded) sorted by language and name.
func (reg *Registry) Cached() []*Relation {
	ans := make([]*Relation, 0, 50)
	reg.cache.Range(func(_, v any) bool {
		ans = append(ans, v.(*Relation))
		return true
	})
	sort.Slice(ans, func(i, j int) bool {
		if ans[i].Language != ans[j].Language {
			return ans[i].Language < ans[j].Language
		}
		return ans[i].Name < ans[j].Name
	})
	return ans
}

// CanonicalLanguage normalizes a BCP 47 language tag (e.g. "EN" -> "en").
// Values which cannot be parsed are used verbatim (lower-cased)
// so resolution never fails.
func CanonicalLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return UndefinedLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	return tag.String()
}

// NewRegistry creates a registry with the universal relations
// registered. An application is expected to create a single
// instance at start and pass it to all the components resolving
// relations.
func NewRegistry() *Registry {
	reg := &Registry{
		universal: make(map[string]*Relation),
	}
	for _, v := range []Relation{
		{Name: "root", LongName: "root"},
		{Name: "dep", LongName: "dependent"},
		{Name: "gov", LongName: "governor"},
		{Name: "KILL", LongName: "dummy relation kill"},
	} {
		rel := v
		rel.Universal = true
		reg.universal[rel.Name] = &rel
	}
	return reg
}

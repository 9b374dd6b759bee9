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

package depgraph

import (
	"fmt"

	"unianno/registry"
)

const (
	rootForm = "ROOT"
)

// WordRef identifies a node within a typed dependency
type WordRef struct {
	ID   int    `json:"id"`
	Form string `json:"form"`
	Tag  string `json:"tag,omitempty"`
}

func (w WordRef) String() string {
	return fmt.Sprintf("%s-%d", w.Form, w.ID)
}

// TypedDependency is a governor-relation-dependent triple with
// the relation resolved via a relation registry.
type TypedDependency struct {
	Relation  *registry.Relation `json:"relation"`
	Governor  WordRef            `json:"governor"`
	Dependent WordRef            `json:"dependent"`
}

func (td TypedDependency) String() string {
	return fmt.Sprintf("%s(%s, %s)", td.Relation, td.Governor, td.Dependent)
}

func (g *Graph) wordRef(id int) WordRef {
	if id == RootID {
		return WordRef{ID: RootID, Form: rootForm}
	}
	n, ok := g.Node(id)
	if !ok {
		return WordRef{ID: id}
	}
	return WordRef{ID: n.ID, Form: n.Form, Tag: n.Tag}
}

// TypedDependencies converts primary arcs into typed dependencies.
// Unattached nodes are skipped.
func (g *Graph) TypedDependencies(reg *registry.Registry, lang string) []TypedDependency {
	ans := make([]TypedDependency, 0, g.Len())
	for _, n := range g.Nodes() {
		gov, ok := n.Governor.Value()
		if !ok {
			continue
		}
		ans = append(ans, TypedDependency{
			Relation:  reg.Resolve(n.Relation, lang),
			Governor:  g.wordRef(gov),
			Dependent: g.wordRef(n.ID),
		})
	}
	return ans
}

// SemanticRoleDependencies converts secondary (semantic role) arcs
// into typed dependencies. A function tag is appended to the arc label
// (e.g. "A0_PAG"). Secondary arcs of unattached nodes are included too.
func (g *Graph) SemanticRoleDependencies(reg *registry.Registry, lang string) []TypedDependency {
	ans := make([]TypedDependency, 0, g.Len())
	for _, n := range g.Nodes() {
		for _, arc := range n.Secondary {
			ans = append(ans, TypedDependency{
				Relation:  reg.Resolve(arc.FullLabel(), lang),
				Governor:  g.wordRef(arc.Governor),
				Dependent: g.wordRef(n.ID),
			})
		}
	}
	return ans
}

// Predicates returns nodes identified as predicates (i.e. the ones
// with a roleset) ordered by id.
func (g *Graph) Predicates() []Node {
	ans := make([]Node, 0, 4)
	for _, n := range g.Nodes() {
		if n.Roleset != "" {
			ans = append(ans, n)
		}
	}
	return ans
}

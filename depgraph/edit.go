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

	"unianno/common"
)

// Arc is a primary dependency arc used to replace
// the existing attachment of a node.
type Arc struct {
	Governor  int    `json:"governor"`
	Dependent int    `json:"dependent"`
	Relation  string `json:"relation"`
}

// WithTags returns a new graph with POS tags replaced by the provided
// ones (e.g. coming from a different tagger). The number of tags must
// match the number of nodes.
func (g *Graph) WithTags(tags []string) (*Graph, error) {
	if len(tags) != g.Len() {
		return nil, fmt.Errorf(
			"cannot replace tags: graph has %d nodes, got %d tags", g.Len(), len(tags))
	}
	nodes := g.Nodes()
	for i := range nodes {
		nodes[i].Tag = tags[i]
	}
	return NewGraph(nodes)
}

// WithArcs returns a new graph with primary arcs of the dependents
// mentioned in arcs replaced. Other nodes keep their attachment.
func (g *Graph) WithArcs(arcs []Arc) (*Graph, error) {
	nodes := g.Nodes()
	for _, arc := range arcs {
		if !g.validID(arc.Dependent) {
			return nil, fmt.Errorf("%w: dependent %d", ErrInvalidNodeID, arc.Dependent)
		}
		if arc.Governor != RootID && !g.validID(arc.Governor) {
			return nil, fmt.Errorf("%w: governor %d", ErrInvalidNodeID, arc.Governor)
		}
		if arc.Relation == "" {
			return nil, fmt.Errorf("%w (node %d)", ErrInconsistentLabel, arc.Dependent)
		}
		nodes[arc.Dependent-1].Governor = common.NewMaybe(arc.Governor)
		nodes[arc.Dependent-1].Relation = arc.Relation
	}
	return NewGraph(nodes)
}

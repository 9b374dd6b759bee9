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

import "unianno/common"

// Dependent is a node found by CollectDependents along with
// its distance from the origin node.
type Dependent struct {
	Node  Node `json:"node"`
	Depth int  `json:"depth"`
}

// Record exports the dependent as a flat NodeRecord
func (d Dependent) Record() NodeRecord {
	return d.Node.Record(d.Depth)
}

// CollectDependents returns descendants of the origin node up to maxDepth
// levels below it. The order is depth-first: each dependent is directly
// followed by its own descendants and only then by its next sibling.
// Siblings are ordered from left to right. With includeOrigin, the origin
// itself comes first with depth 0. The synthetic root (RootID) is a valid
// origin, unknown ids produce an empty result.
func (g *Graph) CollectDependents(originID int, includeOrigin bool, maxDepth int) []Dependent {
	ans := make([]Dependent, 0, 8)
	origin, ok := g.Node(originID)
	if !ok {
		return ans
	}
	if includeOrigin {
		ans = append(ans, Dependent{Node: origin, Depth: 0})
	}
	return g.collectDependents(originID, 0, maxDepth, ans)
}

func (g *Graph) collectDependents(id, depth, maxDepth int, ans []Dependent) []Dependent {
	if depth+1 > maxDepth {
		return ans
	}
	for _, depID := range g.dependents[id] {
		ans = append(ans, Dependent{Node: g.nodes[depID], Depth: depth + 1})
		ans = g.collectDependents(depID, depth+1, maxDepth, ans)
	}
	return ans
}

// NodeRecord is a flat, serialization friendly view of a node
// used by reporting.
type NodeRecord struct {
	ID       int               `json:"id"`
	Form     string            `json:"form"`
	Lemma    string            `json:"lemma"`
	Pos      string            `json:"pos"`
	Depth    int               `json:"depth"`
	Drel     string            `json:"drel,omitempty"`
	Governor common.Maybe[int] `json:"governor"`
	Pb       string            `json:"pb,omitempty"`

	// Srel and Sfunc describe a semantic role arc coming
	// from the node's primary governor (if any)
	Srel  string `json:"srel,omitempty"`
	Sfunc string `json:"sfunc,omitempty"`
}

// Record exports the node as a NodeRecord
func (n Node) Record(depth int) NodeRecord {
	ans := NodeRecord{
		ID:    n.ID,
		Form:  n.Form,
		Lemma: n.Lemma,
		Pos:   n.Tag,
		Depth: depth,
	}
	gov, ok := n.Governor.Value()
	if !ok {
		return ans
	}
	ans.Drel = n.Relation
	ans.Governor = n.Governor
	ans.Pb = n.Roleset
	if arc, ok := n.SecondaryFrom(gov); ok {
		ans.Srel = arc.Label
		ans.Sfunc = arc.FunctionTag
	}
	return ans
}

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

const (
	// RootID is the id of the synthetic root node
	RootID = 0
)

// SecondaryArc is a semantic-role edge layered over
// the primary dependency tree. Secondary arcs may form
// an arbitrary graph.
type SecondaryArc struct {
	Governor    int    `json:"governor"`
	Label       string `json:"label"`
	FunctionTag string `json:"functionTag,omitempty"`
}

// FullLabel returns the arc label with the function tag
// appended (if any), e.g. "A1_PPT"
func (arc SecondaryArc) FullLabel() string {
	if arc.FunctionTag != "" {
		return arc.Label + "_" + arc.FunctionTag
	}
	return arc.Label
}

// Node is a single node of a dependency graph. Governor and
// secondary arcs are ids of other nodes of the same graph.
type Node struct {
	// ID is a 1-based position of the token within its sentence
	ID    int    `json:"id"`
	Form  string `json:"form"`
	Lemma string `json:"lemma"`
	Tag   string `json:"tag"`

	// Governor is empty for root nodes. A value of RootID means
	// the node is attached to the synthetic root.
	Governor common.Maybe[int] `json:"governor"`

	// Relation is set iff Governor is set
	Relation string `json:"relation,omitempty"`

	Secondary []SecondaryArc `json:"secondary,omitempty"`

	// Roleset is a predicate frame identifier (e.g. "run.01")
	// for nodes identified as predicates
	Roleset string `json:"roleset,omitempty"`
}

// HasGovernor tests whether the node is attached to a governor.
// Nodes attached to the synthetic root are considered attached.
func (n Node) HasGovernor() bool {
	return !n.Governor.Empty()
}

// SecondaryFrom returns a secondary arc coming from the specified
// governor. The first matching arc is returned.
func (n Node) SecondaryFrom(governor int) (SecondaryArc, bool) {
	for _, arc := range n.Secondary {
		if arc.Governor == governor {
			return arc, true
		}
	}
	return SecondaryArc{}, false
}

func (n Node) String() string {
	gov, ok := n.Governor.Value()
	if !ok {
		return fmt.Sprintf("%d:%s/%s", n.ID, n.Form, n.Tag)
	}
	return fmt.Sprintf("%d:%s/%s<-%s-%d", n.ID, n.Form, n.Tag, n.Relation, gov)
}

// NewNode is a shorthand for creating a node attached to a governor
func NewNode(id int, form, lemma, tag string, governor int, relation string) Node {
	return Node{
		ID:       id,
		Form:     form,
		Lemma:    lemma,
		Tag:      tag,
		Governor: common.NewMaybe(governor),
		Relation: relation,
	}
}

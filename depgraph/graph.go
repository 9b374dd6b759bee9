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
	"errors"
	"fmt"
	"slices"
)

var (
	ErrCyclicGovernors   = errors.New("governor relation contains a cycle")
	ErrInvalidNodeID     = errors.New("invalid node id")
	ErrInconsistentLabel = errors.New("relation label must be set iff governor is set")
)

// Graph is an immutable dependency graph stored as a flat arena
// of nodes indexed by node id. Index 0 holds the synthetic root.
// All the arcs are ids pointing into the arena.
type Graph struct {
	nodes []Node

	// dependents maps governor id to its dependents ordered
	// from left to right
	dependents [][]int
}

// Len returns the number of real (non-root) nodes
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes) - 1
}

func (g *Graph) validID(id int) bool {
	return g != nil && id > RootID && id < len(g.nodes)
}

// Node returns a node by its 1-based id. The synthetic root
// is available under RootID.
func (g *Graph) Node(id int) (Node, bool) {
	if g == nil || id < RootID || id >= len(g.nodes) {
		return Node{}, false
	}
	ans := g.nodes[id]
	ans.Secondary = slices.Clone(ans.Secondary)
	return ans, true
}

// Nodes returns all the real nodes ordered by id
func (g *Graph) Nodes() []Node {
	if g == nil {
		return []Node{}
	}
	ans := make([]Node, 0, g.Len())
	for id := 1; id < len(g.nodes); id++ {
		n, _ := g.Node(id)
		ans = append(ans, n)
	}
	return ans
}

// DependentsOf returns ids of direct dependents of a node
// in their left-to-right order.
func (g *Graph) DependentsOf(id int) []int {
	if g == nil || id < RootID || id >= len(g.dependents) {
		return []int{}
	}
	return append(make([]int, 0, len(g.dependents[id])), g.dependents[id]...)
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph%v", g.Nodes())
}

func (g *Graph) findCycle() (int, bool) {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]int, len(g.nodes))
	for start := 1; start < len(g.nodes); start++ {
		if state[start] != unvisited {
			continue
		}
		path := make([]int, 0, 8)
		curr := start
		for g.validID(curr) && state[curr] == unvisited {
			state[curr] = inProgress
			path = append(path, curr)
			gov, ok := g.nodes[curr].Governor.Value()
			if !ok {
				curr = -1
				break
			}
			curr = gov
		}
		if g.validID(curr) && state[curr] == inProgress {
			return curr, true
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return 0, false
}

// NewGraph builds a graph from nodes ordered by their ids (1, 2, ...).
// Governors pointing outside the graph are accepted (such nodes cannot
// reach the root), cycles in the primary governor relation are not.
func NewGraph(nodes []Node) (*Graph, error) {
	g := &Graph{
		nodes:      make([]Node, len(nodes)+1),
		dependents: make([][]int, len(nodes)+1),
	}
	g.nodes[RootID] = Node{ID: RootID}
	for i, n := range nodes {
		if n.ID != i+1 {
			return nil, fmt.Errorf("%w: expected %d, found %d", ErrInvalidNodeID, i+1, n.ID)
		}
		if n.HasGovernor() != (n.Relation != "") {
			return nil, fmt.Errorf("%w (node %d)", ErrInconsistentLabel, n.ID)
		}
		n.Secondary = slices.Clone(n.Secondary)
		g.nodes[n.ID] = n
	}
	if id, found := g.findCycle(); found {
		return nil, fmt.Errorf("%w (node %d)", ErrCyclicGovernors, id)
	}
	for id := 1; id < len(g.nodes); id++ {
		gov, ok := g.nodes[id].Governor.Value()
		if ok && gov >= RootID && gov < len(g.nodes) {
			g.dependents[gov] = append(g.dependents[gov], id)
		}
	}
	return g, nil
}

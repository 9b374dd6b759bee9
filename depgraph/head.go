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

import "math"

const (
	// InfiniteDepth is the depth of nodes which cannot reach the root
	InfiniteDepth = math.MaxInt
)

// Depth returns the number of primary arcs between the node
// and the root of its tree. A node without governor or attached
// directly to the synthetic root has depth 0. Unknown ids and nodes
// with a governor chain leaving the graph have InfiniteDepth.
func (g *Graph) Depth(id int) int {
	if !g.validID(id) {
		return InfiniteDepth
	}
	depth := 0
	curr := id
	for steps := 0; steps < len(g.nodes); steps++ {
		gov, ok := g.nodes[curr].Governor.Value()
		if !ok || gov == RootID {
			return depth
		}
		if !g.validID(gov) {
			return InfiniteDepth
		}
		depth++
		curr = gov
	}
	return InfiniteDepth
}

// FindHead returns the 0-based index of the token structurally closest
// to the root within the token range [beginIndex, endIndex). Indices are
// 0-based token positions (node id = index + 1). Ties are resolved in favor
// of the leftmost token. If no token in the range reaches the root (or the
// range is empty), beginIndex is returned.
func (g *Graph) FindHead(beginIndex, endIndex int) int {
	head := beginIndex
	minDepth := InfiniteDepth
	for idx := beginIndex; idx < endIndex; idx++ {
		if d := g.Depth(idx + 1); d < minDepth {
			minDepth = d
			head = idx
		}
	}
	return head
}

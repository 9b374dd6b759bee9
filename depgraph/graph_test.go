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
	"testing"

	"unianno/common"
	"unianno/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samsungGraph creates a graph for "Samsung is a company"
func samsungGraph(t *testing.T) *Graph {
	g, err := NewGraph([]Node{
		NewNode(1, "Samsung", "Samsung", "NNP", 2, "nsubj"),
		NewNode(2, "is", "be", "VBZ", RootID, "root"),
		NewNode(3, "a", "a", "DT", 4, "det"),
		NewNode(4, "company", "company", "NN", 2, "attr"),
	})
	require.NoError(t, err)
	return g
}

// barkGraph creates a graph for "The big dog barked loudly"
func barkGraph(t *testing.T) *Graph {
	g, err := NewGraph([]Node{
		NewNode(1, "The", "the", "DT", 3, "det"),
		NewNode(2, "big", "big", "JJ", 3, "amod"),
		NewNode(3, "dog", "dog", "NN", 4, "nsubj"),
		{
			ID: 4, Form: "barked", Lemma: "bark", Tag: "VBD",
			Governor: common.NewMaybe(RootID), Relation: "root", Roleset: "bark.01",
		},
		NewNode(5, "loudly", "loudly", "RB", 4, "advmod"),
	})
	require.NoError(t, err)
	return g
}

func TestNewGraphIndexesDependents(t *testing.T) {
	g := samsungGraph(t)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []int{2}, g.DependentsOf(RootID))
	assert.Equal(t, []int{1, 4}, g.DependentsOf(2))
	assert.Equal(t, []int{3}, g.DependentsOf(4))
	assert.Equal(t, []int{}, g.DependentsOf(1))
	assert.Equal(t, []int{}, g.DependentsOf(42))
}

func TestNewGraphRejectsCycle(t *testing.T) {
	_, err := NewGraph([]Node{
		NewNode(1, "a", "a", "X", 2, "dep"),
		NewNode(2, "b", "b", "X", 3, "dep"),
		NewNode(3, "c", "c", "X", 1, "dep"),
	})
	assert.ErrorIs(t, err, ErrCyclicGovernors)

	_, err = NewGraph([]Node{NewNode(1, "a", "a", "X", 1, "dep")})
	assert.ErrorIs(t, err, ErrCyclicGovernors)
}

func TestNewGraphAcceptsUnattachedAndOutOfRange(t *testing.T) {
	g, err := NewGraph([]Node{
		{ID: 1, Form: "a", Tag: "X"},
		NewNode(2, "b", "b", "X", 1, "dep"),
		NewNode(3, "c", "c", "X", 17, "dep"),
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{}, g.DependentsOf(RootID))
	assert.Equal(t, []int{2}, g.DependentsOf(1))
}

func TestNewGraphValidatesNodes(t *testing.T) {
	_, err := NewGraph([]Node{NewNode(2, "a", "a", "X", 0, "root")})
	assert.ErrorIs(t, err, ErrInvalidNodeID)

	_, err = NewGraph([]Node{{ID: 1, Form: "a", Relation: "nsubj"}})
	assert.ErrorIs(t, err, ErrInconsistentLabel)

	_, err = NewGraph([]Node{{ID: 1, Form: "a", Governor: common.NewMaybe(0)}})
	assert.ErrorIs(t, err, ErrInconsistentLabel)
}

func TestNodeAccessDoesNotExposeInternals(t *testing.T) {
	g, err := NewGraph([]Node{
		{
			ID: 1, Form: "a", Governor: common.NewMaybe(0), Relation: "root",
			Secondary: []SecondaryArc{{Governor: 1, Label: "A0"}},
		},
	})
	require.NoError(t, err)
	n, ok := g.Node(1)
	require.True(t, ok)
	n.Secondary[0].Label = "changed"
	n2, _ := g.Node(1)
	assert.Equal(t, "A0", n2.Secondary[0].Label)
}

func TestDepth(t *testing.T) {
	g := samsungGraph(t)
	assert.Equal(t, 0, g.Depth(2))
	assert.Equal(t, 1, g.Depth(1))
	assert.Equal(t, 2, g.Depth(3))
	assert.Equal(t, InfiniteDepth, g.Depth(0))
	assert.Equal(t, InfiniteDepth, g.Depth(5))
}

func TestFindHeadWholeSentence(t *testing.T) {
	g := samsungGraph(t)
	assert.Equal(t, 1, g.FindHead(0, 4))
	assert.Equal(t, 3, g.FindHead(2, 4))
}

func TestFindHeadSingleton(t *testing.T) {
	g := samsungGraph(t)
	for i := 0; i < g.Len(); i++ {
		assert.Equal(t, i, g.FindHead(i, i+1))
	}
}

func TestFindHeadTieBreaksToLeftmost(t *testing.T) {
	g := barkGraph(t)
	// "The" and "big" are both attached to "dog"
	assert.Equal(t, 0, g.FindHead(0, 2))
	assert.Equal(t, 3, g.FindHead(2, 5))
	for i := 0; i < 10; i++ {
		assert.Equal(t, 0, g.FindHead(0, 2))
	}
}

func TestFindHeadWithinRange(t *testing.T) {
	g := barkGraph(t)
	for b := 0; b < g.Len(); b++ {
		for e := b + 1; e <= g.Len(); e++ {
			h := g.FindHead(b, e)
			assert.GreaterOrEqual(t, h, b)
			assert.Less(t, h, e)
		}
	}
}

func TestFindHeadUnreachableRoot(t *testing.T) {
	g, err := NewGraph([]Node{
		NewNode(1, "a", "a", "X", 9, "dep"),
		NewNode(2, "b", "b", "X", 1, "dep"),
		NewNode(3, "c", "c", "X", 0, "root"),
	})
	require.NoError(t, err)
	assert.Equal(t, InfiniteDepth, g.Depth(2))
	assert.Equal(t, 2, g.FindHead(0, 3))
	assert.Equal(t, 0, g.FindHead(0, 2))
}

func TestFindHeadFallbacks(t *testing.T) {
	g := samsungGraph(t)
	assert.Equal(t, 3, g.FindHead(3, 3))
	assert.Equal(t, 3, g.FindHead(3, 1))
	assert.Equal(t, 10, g.FindHead(10, 12))
	var nilGraph *Graph
	assert.Equal(t, 2, nilGraph.FindHead(2, 4))
}

func TestCollectDependentsDirectOnly(t *testing.T) {
	g := samsungGraph(t)
	ans := g.CollectDependents(2, true, 1)
	require.Len(t, ans, 3)
	assert.Equal(t, "is", ans[0].Node.Form)
	assert.Equal(t, 0, ans[0].Depth)
	assert.Equal(t, "Samsung", ans[1].Node.Form)
	assert.Equal(t, 1, ans[1].Depth)
	assert.Equal(t, "company", ans[2].Node.Form)
	assert.Equal(t, 1, ans[2].Depth)
}

func TestCollectDependentsZeroDepth(t *testing.T) {
	g := samsungGraph(t)
	assert.Empty(t, g.CollectDependents(2, false, 0))
	ans := g.CollectDependents(2, true, 0)
	require.Len(t, ans, 1)
	assert.Equal(t, 2, ans[0].Node.ID)
	assert.Empty(t, g.CollectDependents(2, false, -3))
}

func TestCollectDependentsSubtreeBeforeSibling(t *testing.T) {
	g := barkGraph(t)
	ans := g.CollectDependents(4, false, 5)
	forms := make([]string, len(ans))
	depths := make([]int, len(ans))
	for i, v := range ans {
		forms[i] = v.Node.Form
		depths[i] = v.Depth
	}
	assert.Equal(t, []string{"dog", "The", "big", "loudly"}, forms)
	assert.Equal(t, []int{1, 2, 2, 1}, depths)

	ans = g.CollectDependents(4, false, 1)
	assert.Len(t, ans, 2)
}

func TestCollectDependentsFromSyntheticRoot(t *testing.T) {
	g := samsungGraph(t)
	ans := g.CollectDependents(RootID, false, 10)
	assert.Len(t, ans, 4)
	assert.Equal(t, "is", ans[0].Node.Form)
	assert.Empty(t, g.CollectDependents(99, true, 3))
}

func TestNodeRecord(t *testing.T) {
	g, err := NewGraph([]Node{
		NewNode(1, "John", "John", "NNP", 2, "nsubj"),
		{
			ID: 2, Form: "runs", Lemma: "run", Tag: "VBZ",
			Governor: common.NewMaybe(RootID), Relation: "root", Roleset: "run.01",
		},
	})
	require.NoError(t, err)
	n, _ := g.Node(1)
	n.Secondary = []SecondaryArc{{Governor: 2, Label: "A0", FunctionTag: "PAG"}}
	rec := n.Record(1)
	assert.Equal(t, "nsubj", rec.Drel)
	assert.Equal(t, "A0", rec.Srel)
	assert.Equal(t, "PAG", rec.Sfunc)
	assert.Equal(t, common.NewMaybe(2), rec.Governor)

	rec = Node{ID: 3, Form: "x", Tag: "X"}.Record(0)
	assert.True(t, rec.Governor.Empty())
	assert.Equal(t, "", rec.Drel)

	deps := g.CollectDependents(2, true, 1)
	assert.Equal(t, "run.01", deps[0].Record().Pb)
}

func TestTypedDependencies(t *testing.T) {
	reg := registry.NewRegistry()
	g := samsungGraph(t)
	ans := g.TypedDependencies(reg, "en")
	require.Len(t, ans, 4)
	assert.Equal(t, "nsubj(is-2, Samsung-1)", ans[0].String())
	assert.Equal(t, "root(ROOT-0, is-2)", ans[1].String())
	assert.True(t, ans[1].Relation.Universal)
	assert.Same(t, reg.Resolve("nsubj", "en"), ans[0].Relation)
}

func TestSemanticRoleDependencies(t *testing.T) {
	reg := registry.NewRegistry()
	g, err := NewGraph([]Node{
		{
			ID: 1, Form: "John", Tag: "NNP", Governor: common.NewMaybe(2), Relation: "nsubj",
			Secondary: []SecondaryArc{{Governor: 2, Label: "A0", FunctionTag: "PAG"}},
		},
		{
			ID: 2, Form: "runs", Tag: "VBZ", Governor: common.NewMaybe(RootID), Relation: "root",
			Roleset: "run.01",
		},
		{
			ID: 3, Form: "away", Tag: "RB",
			Secondary: []SecondaryArc{{Governor: 2, Label: "AM-DIR"}},
		},
	})
	require.NoError(t, err)
	ans := g.SemanticRoleDependencies(reg, "en")
	require.Len(t, ans, 2)
	assert.Equal(t, "A0_PAG(runs-2, John-1)", ans[0].String())
	// "away" has no primary governor but its semantic role is kept
	assert.Equal(t, "AM-DIR(runs-2, away-3)", ans[1].String())
	assert.Same(t, reg.Resolve("AM-DIR", "en"), ans[1].Relation)

	preds := g.Predicates()
	require.Len(t, preds, 1)
	assert.Equal(t, "runs", preds[0].Form)
}

func TestWithTagsKeepsOriginal(t *testing.T) {
	g := samsungGraph(t)
	g2, err := g.WithTags([]string{"NP", "V", "D", "N"})
	require.NoError(t, err)
	n, _ := g2.Node(2)
	assert.Equal(t, "V", n.Tag)
	n, _ = g.Node(2)
	assert.Equal(t, "VBZ", n.Tag)
	assert.Equal(t, []int{1, 4}, g2.DependentsOf(2))

	_, err = g.WithTags([]string{"X"})
	assert.Error(t, err)
}

func TestWithArcs(t *testing.T) {
	g := samsungGraph(t)
	g2, err := g.WithArcs([]Arc{{Governor: 2, Dependent: 3, Relation: "det"}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, g2.DependentsOf(2))
	assert.Equal(t, []int{3}, g.DependentsOf(4))

	_, err = g.WithArcs([]Arc{{Governor: 1, Dependent: 2, Relation: "dep"}})
	assert.ErrorIs(t, err, ErrCyclicGovernors)
	_, err = g.WithArcs([]Arc{{Governor: 8, Dependent: 2, Relation: "dep"}})
	assert.ErrorIs(t, err, ErrInvalidNodeID)
}

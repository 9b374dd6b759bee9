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

package coref

import (
	"errors"
	"testing"

	"unianno/annot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mention(id, cluster, sent, begin, end int, text string) Mention {
	return Mention{
		ID:            id,
		ClusterID:     cluster,
		MentionType:   "PROPER",
		Span:          annot.Span{Begin: begin, End: end},
		Text:          text,
		SentenceIndex: sent,
	}
}

func TestAssembleRepresentativeFirst(t *testing.T) {
	m2 := mention(2, 1, 0, 0, 7, "Samsung")
	repr := mention(1, 1, 1, 20, 31, "the company")
	m3 := mention(3, 1, 2, 0, 2, "it")
	clusters, err := Assemble(
		[]Mention{m2, repr, m3},
		map[int]Mention{1: repr},
	)
	require.NoError(t, err)
	assert.Equal(t, []Mention{repr, m2, m3}, clusters[1])
}

func TestAssembleTextualOrder(t *testing.T) {
	repr := mention(1, 5, 0, 0, 4, "John")
	a := mention(2, 5, 2, 10, 12, "he")
	b := mention(3, 5, 1, 30, 33, "him")
	c := mention(4, 5, 1, 3, 6, "his")
	clusters, err := Assemble([]Mention{a, b, c}, map[int]Mention{5: repr})
	require.NoError(t, err)
	assert.Equal(t, []Mention{repr, c, b, a}, clusters[5])
}

func TestAssembleRepresentativeOnly(t *testing.T) {
	repr := mention(1, 3, 0, 0, 4, "Mary")
	clusters, err := Assemble(nil, map[int]Mention{3: repr})
	require.NoError(t, err)
	assert.Equal(t, []Mention{repr}, clusters[3])
}

func TestAssembleOrphanCluster(t *testing.T) {
	repr := mention(1, 1, 0, 0, 4, "John")
	orphan := mention(2, 2, 0, 10, 14, "Mary")
	clusters, err := Assemble(
		[]Mention{repr, orphan, mention(3, 7, 1, 0, 3, "she")},
		map[int]Mention{1: repr},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrphanCluster))
	var orphErr *OrphanClusterError
	require.True(t, errors.As(err, &orphErr))
	assert.Equal(t, []int{2, 7}, orphErr.ClusterIDs)
	assert.Equal(t, []int{1}, clusters.IDs())
	assert.Equal(t, []Mention{repr}, clusters[1])
}

func TestAssembleFlagged(t *testing.T) {
	repr := mention(1, 1, 1, 20, 31, "the company")
	repr.Representative = true
	m2 := mention(2, 1, 0, 0, 7, "Samsung")
	clusters, err := AssembleFlagged([]Mention{m2, repr})
	require.NoError(t, err)
	assert.Equal(t, []Mention{repr, m2}, clusters[1])

	r, ok := clusters.Representative(1)
	assert.True(t, ok)
	assert.Equal(t, repr, r)
	_, ok = clusters.Representative(100)
	assert.False(t, ok)
}

func TestAssembleFlaggedAmbiguous(t *testing.T) {
	a := mention(1, 1, 0, 0, 4, "John")
	a.Representative = true
	b := mention(2, 1, 1, 0, 2, "he")
	b.Representative = true
	_, err := AssembleFlagged([]Mention{a, b})
	assert.True(t, errors.Is(err, ErrAmbiguousRepresentative))
}

func TestAnnotate(t *testing.T) {
	tokens := [][]annot.Token{
		{
			{Span: annot.Span{Begin: 0, End: 4}, Form: "John"},
			{Span: annot.Span{Begin: 5, End: 10}, Form: "sleeps", Index: 1},
		},
	}
	repr := mention(1, 4, 0, 0, 4, "John")
	clusters, err := Assemble([]Mention{repr}, map[int]Mention{4: repr})
	require.NoError(t, err)
	ans := clusters.Annotate(tokens)
	assert.Equal(t, 4, ans[0][0].CorefClusterID.ValueOr(-1))
	assert.True(t, ans[0][1].CorefClusterID.Empty())
	assert.True(t, tokens[0][0].CorefClusterID.Empty())
}

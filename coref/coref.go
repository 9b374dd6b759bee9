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
	"fmt"
	"sort"
	"strings"

	"unianno/annot"
	"unianno/common"
)

var (
	ErrOrphanCluster           = errors.New("coreference cluster without representative mention")
	ErrAmbiguousRepresentative = errors.New("coreference cluster with more than one representative mention")
)

// OrphanClusterError reports clusters for which no representative
// mention has been provided. Such clusters are not assembled.
type OrphanClusterError struct {
	ClusterIDs []int
}

func (err *OrphanClusterError) Error() string {
	ids := common.MapSlice(err.ClusterIDs, func(v int, _ int) string { return fmt.Sprint(v) })
	return fmt.Sprintf("%s: %s", ErrOrphanCluster, strings.Join(ids, ", "))
}

func (err *OrphanClusterError) Is(target error) bool {
	return target == ErrOrphanCluster
}

// Mention is a single mention of an entity as reported
// by a coreference engine.
type Mention struct {
	ID             int        `json:"id"`
	ClusterID      int        `json:"clusterId"`
	MentionType    string     `json:"mentionType"`
	Span           annot.Span `json:"span"`
	Text           string     `json:"text"`
	SentenceIndex  int        `json:"sentenceIndex"`
	HeadIndex      int        `json:"headIndex"`
	Representative bool       `json:"representative"`
}

// Same tests whether both values describe the same mention.
// The representative flag is not considered.
func (m Mention) Same(other Mention) bool {
	return m.ID == other.ID &&
		m.ClusterID == other.ClusterID &&
		m.SentenceIndex == other.SentenceIndex &&
		m.Span == other.Span
}

func (m Mention) String() string {
	return fmt.Sprintf("%q (cluster %d, sentence %d, %s)", m.Text, m.ClusterID, m.SentenceIndex, m.Span)
}

// Clusters maps cluster ids to their mentions. The first mention
// of each cluster is always the representative one.
type Clusters map[int][]Mention

// IDs returns cluster ids in ascending order
func (c Clusters) IDs() []int {
	return common.SortedKeys(c)
}

// Representative returns the representative mention of a cluster
func (c Clusters) Representative(clusterID int) (Mention, bool) {
	mentions := c[clusterID]
	if len(mentions) == 0 {
		return Mention{}, false
	}
	return mentions[0], true
}

// Annotate returns copies of sentence tokens with coreference
// back-references set for tokens covered by a mention. The provided
// tokens are not modified.
func (c Clusters) Annotate(sentences [][]annot.Token) [][]annot.Token {
	ans := make([][]annot.Token, len(sentences))
	for i, sent := range sentences {
		ans[i] = make([]annot.Token, len(sent))
		copy(ans[i], sent)
	}
	for _, clusterID := range c.IDs() {
		for _, m := range c[clusterID] {
			if m.SentenceIndex < 0 || m.SentenceIndex >= len(ans) {
				continue
			}
			sent := ans[m.SentenceIndex]
			for j, tok := range sent {
				if m.Span.Contains(tok.Span) {
					sent[j] = tok.WithCorefCluster(clusterID)
				}
			}
		}
	}
	return ans
}

func groupByCluster(mentions []Mention) map[int][]Mention {
	ans := make(map[int][]Mention)
	for _, m := range mentions {
		ans[m.ClusterID] = append(ans[m.ClusterID], m)
	}
	for _, group := range ans {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].SentenceIndex != group[j].SentenceIndex {
				return group[i].SentenceIndex < group[j].SentenceIndex
			}
			return group[i].Span.Begin < group[j].Span.Begin
		})
	}
	return ans
}

// Assemble groups mentions by their cluster ids. Each cluster
// starts with its representative mention (as provided by
// representatives) followed by the remaining mentions in textual
// order (sentence, then position within the sentence). In case
// some clusters have no representative, the function still returns
// all the other clusters along with an *OrphanClusterError.
func Assemble(mentions []Mention, representatives map[int]Mention) (Clusters, error) {
	groups := groupByCluster(mentions)
	for clusterID := range representatives {
		if _, ok := groups[clusterID]; !ok {
			groups[clusterID] = []Mention{}
		}
	}
	ans := make(Clusters)
	orphans := make([]int, 0, 4)
	for _, clusterID := range common.SortedKeys(groups) {
		repr, ok := representatives[clusterID]
		if !ok {
			orphans = append(orphans, clusterID)
			continue
		}
		items := make([]Mention, 1, len(groups[clusterID])+1)
		items[0] = repr
		for _, m := range groups[clusterID] {
			if !m.Same(repr) {
				items = append(items, m)
			}
		}
		ans[clusterID] = items
	}
	if len(orphans) > 0 {
		return ans, &OrphanClusterError{ClusterIDs: orphans}
	}
	return ans, nil
}

// AssembleFlagged works like Assemble but it takes representatives
// from mentions with the Representative flag set.
func AssembleFlagged(mentions []Mention) (Clusters, error) {
	reprs := make(map[int]Mention)
	for _, m := range mentions {
		if !m.Representative {
			continue
		}
		if curr, ok := reprs[m.ClusterID]; ok && !curr.Same(m) {
			return nil, fmt.Errorf("%w: cluster %d", ErrAmbiguousRepresentative, m.ClusterID)
		}
		reprs[m.ClusterID] = m
	}
	return Assemble(mentions, reprs)
}

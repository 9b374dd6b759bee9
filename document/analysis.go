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

package document

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"unianno/annot"
	"unianno/common"
	"unianno/coref"
	"unianno/ctree"
	"unianno/depgraph"
	"unianno/registry"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SentenceAnalysis contains all the derived annotations of a sentence
type SentenceAnalysis struct {
	Index         int                        `json:"index"`
	Tokens        []annot.Token              `json:"tokens"`
	Phrases       []annot.Phrase             `json:"phrases"`
	Dependencies  []depgraph.TypedDependency `json:"dependencies"`
	SemanticRoles []depgraph.TypedDependency `json:"semanticRoles"`
	Predicates    []depgraph.NodeRecord      `json:"predicates"`
	Error         string                     `json:"error,omitempty"`
}

// Analysis is a result of document analysis
type Analysis struct {
	ID             string             `json:"id,omitempty"`
	Language       string             `json:"language"`
	Text           string             `json:"text"`
	Created        time.Time          `json:"created"`
	Sentences      []SentenceAnalysis `json:"sentences"`
	Coref          coref.Clusters     `json:"coref"`
	OrphanClusters []int              `json:"orphanClusters"`
	CorefError     string             `json:"corefError,omitempty"`
}

// NumFailedSentences returns the number of sentences which
// could not be analyzed
func (a *Analysis) NumFailedSentences() int {
	var ans int
	for _, s := range a.Sentences {
		if s.Error != "" {
			ans++
		}
	}
	return ans
}

// DefaultMaxParallel returns a default limit of concurrently
// analyzed sentences
func DefaultMaxParallel() int {
	return common.Min(4, runtime.NumCPU())
}

// Analyzer derives phrases, typed dependencies and coreference
// clusters from normalized documents. It is safe for concurrent use.
type Analyzer struct {
	registry        *registry.Registry
	maxParallel     int
	defaultLanguage string
}

func (a *Analyzer) analyzeSentence(doc *Document, lang string, sent Sentence) SentenceAnalysis {
	ans := SentenceAnalysis{
		Index:         sent.Index,
		Tokens:        sent.Tokens,
		Phrases:       []annot.Phrase{},
		Dependencies:  []depgraph.TypedDependency{},
		SemanticRoles: []depgraph.TypedDependency{},
		Predicates:    []depgraph.NodeRecord{},
	}
	if sent.Err != nil {
		ans.Error = sent.Err.Error()
		return ans
	}
	if sent.Tree != nil {
		phrases, err := ctree.ExtractPhrases(sent.Tree, sent.Graph, doc.Text)
		if err != nil {
			log.Warn().Err(err).Int("sentence", sent.Index).Msg("failed to extract phrases")
			ans.Error = err.Error()
			return ans
		}
		ans.Phrases = phrases
	}
	if sent.Graph != nil {
		ans.Dependencies = sent.Graph.TypedDependencies(a.registry, lang)
		ans.SemanticRoles = sent.Graph.SemanticRoleDependencies(a.registry, lang)
		ans.Predicates = common.MapSlice(
			sent.Graph.Predicates(),
			func(n depgraph.Node, _ int) depgraph.NodeRecord {
				return n.Record(sent.Graph.Depth(n.ID))
			},
		)
	}
	return ans
}

func (a *Analyzer) assembleCoref(doc *Document, ans *Analysis) {
	ans.Coref = coref.Clusters{}
	ans.OrphanClusters = []int{}
	if len(doc.Mentions) == 0 {
		return
	}
	clusters, err := coref.AssembleFlagged(doc.Mentions)
	var orphErr *coref.OrphanClusterError
	if errors.As(err, &orphErr) {
		log.Warn().Ints("clusters", orphErr.ClusterIDs).Msg("coreference clusters without representative")
		ans.OrphanClusters = orphErr.ClusterIDs

	} else if err != nil {
		ans.CorefError = err.Error()
		return
	}
	ans.Coref = clusters
	sentTokens := common.MapSlice(ans.Sentences, func(s SentenceAnalysis, _ int) []annot.Token {
		return s.Tokens
	})
	for i, tokens := range clusters.Annotate(sentTokens) {
		ans.Sentences[i].Tokens = tokens
	}
}

// Analyze analyzes document sentences concurrently. Problems with
// individual sentences are reported within the respective sentence
// analyses. An error is returned only in case the context is done.
func (a *Analyzer) Analyze(ctx context.Context, doc *Document) (*Analysis, error) {
	lang := doc.Language
	if lang == "" {
		lang = a.defaultLanguage
	}
	ans := &Analysis{
		Language:  registry.CanonicalLanguage(lang),
		Text:      doc.Text,
		Created:   time.Now(),
		Sentences: make([]SentenceAnalysis, len(doc.Sentences)),
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.maxParallel)
	for i, sent := range doc.Sentences {
		if err := groupCtx.Err(); err != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			ans.Sentences[i] = a.analyzeSentence(doc, ans.Language, sent)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("document analysis interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("document analysis interrupted: %w", err)
	}
	a.assembleCoref(doc, ans)
	return ans, nil
}

// NewAnalyzer creates an analyzer. A non-positive maxParallel
// means DefaultMaxParallel.
func NewAnalyzer(reg *registry.Registry, maxParallel int, defaultLanguage string) *Analyzer {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel()
	}
	return &Analyzer{
		registry:        reg,
		maxParallel:     maxParallel,
		defaultLanguage: defaultLanguage,
	}
}

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

package ctree

import (
	"fmt"

	"unianno/annot"
	"unianno/depgraph"
)

// ExtractPhrases walks the tree in pre-order and emits phrases
// for its pre-terminal (WORD) and pre-pre-terminal (flat) nodes.
// Phrasal nodes are only descended into. Heads of flat phrases
// are resolved using the dependency graph (which may be nil).
// The walk starts with the root's children.
func ExtractPhrases(root *Tree, graph *depgraph.Graph, text string) ([]annot.Phrase, error) {
	ans := make([]annot.Phrase, 0, 16)
	if root == nil {
		return ans, nil
	}
	return extractPhrases(root, graph, text, ans)
}

func extractPhrases(node *Tree, graph *depgraph.Graph, text string, ans []annot.Phrase) ([]annot.Phrase, error) {
	for _, child := range node.Children {
		switch child.Kind() {
		case KindPreTerminal:
			phr, err := wordPhrase(child, text)
			if err != nil {
				return ans, err
			}
			ans = append(ans, phr)
		case KindPrePreTerminal:
			phr, err := flatPhrase(child, graph, text)
			if err != nil {
				return ans, err
			}
			ans = append(ans, phr)
		case KindPhrasal:
			var err error
			ans, err = extractPhrases(child, graph, text, ans)
			if err != nil {
				return ans, err
			}
		}
	}
	return ans, nil
}

func wordPhrase(node *Tree, text string) (annot.Phrase, error) {
	tok := *node.Children[0].Token
	phrText, err := tok.Span.Slice(text)
	if err != nil {
		return annot.Phrase{}, fmt.Errorf("failed to extract WORD phrase %s: %w", tok, err)
	}
	return annot.Phrase{
		Category:   annot.CategoryWord,
		Text:       phrText,
		Span:       tok.Span,
		Tokens:     []annot.Token{tok},
		BeginIndex: tok.Index,
		EndIndex:   tok.Index + 1,
		HeadIndex:  tok.Index,
		HeadToken:  tok,
		NER:        tok.NERLabel(),
	}, nil
}

func flatPhrase(node *Tree, graph *depgraph.Graph, text string) (annot.Phrase, error) {
	tokens := node.Leaves()
	span := tokens[0].Span
	first, last := tokens[0].Index, tokens[0].Index
	for _, tok := range tokens[1:] {
		span = span.Union(tok.Span)
		first = min(first, tok.Index)
		last = max(last, tok.Index)
	}
	phrText, err := span.Slice(text)
	if err != nil {
		return annot.Phrase{}, fmt.Errorf("failed to extract %s phrase: %w", node.Label, err)
	}
	head := graph.FindHead(first, last+1)
	headToken := tokens[0]
	for _, tok := range tokens {
		if tok.Index == head {
			headToken = tok
			break
		}
	}
	return annot.Phrase{
		Category:   node.Label,
		Text:       phrText,
		Span:       span,
		Tokens:     tokens,
		BeginIndex: first,
		EndIndex:   last + 1,
		HeadIndex:  head,
		HeadToken:  headToken,
		NER:        annot.AggregateNER(tokens),
	}, nil
}

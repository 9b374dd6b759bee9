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
	"errors"
	"fmt"
	"strings"

	"unianno/annot"
	"unianno/common"
	"unianno/coref"
	"unianno/ctree"
	"unianno/depgraph"
	"unianno/format/conll"
	"unianno/format/vert"

	"github.com/rs/zerolog/log"
)

var (
	ErrNodeCountMismatch = errors.New("number of dependency nodes does not match number of tokens")
)

// RawToken is a token as produced by an annotation engine.
// Begin and End are character (not byte) offsets within the document
// text. Normalization converts them to byte based annot.Span values.
type RawToken struct {
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Form  string `json:"form"`
	Tag   string `json:"tag"`
	Lemma string `json:"lemma"`
	NER   string `json:"ner"`
}

// RawNode is a dependency annotation of the token with the same
// position. ID is 1-based.
type RawNode struct {
	ID        int                     `json:"id"`
	Governor  common.Maybe[int]       `json:"governor"`
	Relation  string                  `json:"relation"`
	Secondary []depgraph.SecondaryArc `json:"secondary"`
	Roleset   string                  `json:"roleset"`
}

// RawSentence contains annotations of a single sentence. Both
// Nodes and Tree are optional.
type RawSentence struct {
	Tokens []RawToken `json:"tokens"`
	Nodes  []RawNode  `json:"nodes"`

	// Tree is a constituency parse in the Penn Treebank
	// bracketed format
	Tree string `json:"tree"`
}

// RawDocument is an annotated document as produced by
// an annotation engine.
type RawDocument struct {
	Text      string          `json:"text"`
	Language  string          `json:"language"`
	Sentences []RawSentence   `json:"sentences"`
	Mentions  []coref.Mention `json:"mentions"`
}

// Sentence is a normalized sentence. In case the sentence's
// raw annotation is invalid, Err is set and the other
// attributes may be incomplete.
type Sentence struct {
	Index  int
	Tokens []annot.Token
	Graph  *depgraph.Graph
	Tree   *ctree.Tree
	Err    error
}

// Document is a normalized document
type Document struct {
	Text      string
	Language  string
	Sentences []Sentence
	Mentions  []coref.Mention
}

// SentenceErrors returns all the per-sentence errors
func (doc *Document) SentenceErrors() []error {
	ans := make([]error, 0, len(doc.Sentences))
	for _, s := range doc.Sentences {
		if s.Err != nil {
			ans = append(ans, fmt.Errorf("sentence %d: %w", s.Index, s.Err))
		}
	}
	return ans
}

func normalizeTokens(text string, offsets annot.CharOffsets, raw []RawToken) ([]annot.Token, error) {
	ans := make([]annot.Token, len(raw))
	for i, rt := range raw {
		span, err := offsets.ByteSpan(rt.Begin, rt.End)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		ans[i], err = annot.NewToken(text, span, i, rt.Form, rt.Tag, rt.Lemma, rt.NER)
		if err != nil {
			return nil, err
		}
	}
	return ans, nil
}

func normalizeGraph(tokens []annot.Token, raw []RawNode) (*depgraph.Graph, error) {
	if len(raw) != len(tokens) {
		return nil, fmt.Errorf("%w: %d nodes, %d tokens", ErrNodeCountMismatch, len(raw), len(tokens))
	}
	nodes := make([]depgraph.Node, len(raw))
	for i, rn := range raw {
		nodes[i] = depgraph.Node{
			ID:        rn.ID,
			Form:      tokens[i].Form,
			Lemma:     tokens[i].Lemma,
			Tag:       tokens[i].Tag,
			Governor:  rn.Governor,
			Relation:  rn.Relation,
			Secondary: rn.Secondary,
			Roleset:   rn.Roleset,
		}
	}
	return depgraph.NewGraph(nodes)
}

func normalizeSentence(text string, offsets annot.CharOffsets, idx int, raw RawSentence) Sentence {
	ans := Sentence{Index: idx}
	ans.Tokens, ans.Err = normalizeTokens(text, offsets, raw.Tokens)
	if ans.Err != nil {
		return ans
	}
	if len(raw.Nodes) > 0 {
		ans.Graph, ans.Err = normalizeGraph(ans.Tokens, raw.Nodes)
		if ans.Err != nil {
			return ans
		}
	}
	if raw.Tree != "" {
		ans.Tree, ans.Err = ctree.ParsePenn(raw.Tree, ans.Tokens)
	}
	return ans
}

// Normalize validates raw engine annotations and converts them into
// a document. Character offsets of tokens and mentions are converted
// to byte offsets. Problems are local to individual sentences, i.e. an
// invalid sentence does not affect its siblings.
func Normalize(raw RawDocument) *Document {
	ans := &Document{
		Text:      raw.Text,
		Language:  raw.Language,
		Sentences: make([]Sentence, len(raw.Sentences)),
		Mentions:  make([]coref.Mention, len(raw.Mentions)),
	}
	offsets := annot.NewCharOffsets(raw.Text)
	for i, rs := range raw.Sentences {
		ans.Sentences[i] = normalizeSentence(raw.Text, offsets, i, rs)
	}
	for i, m := range raw.Mentions {
		span, err := offsets.ByteSpan(m.Span.Begin, m.Span.End)
		if err != nil {
			log.Warn().Err(err).Int("mentionId", m.ID).Msg("keeping unconvertible mention span")
		} else {
			m.Span = span
		}
		ans.Mentions[i] = m
	}
	return ans
}

type sentenceSource struct {
	text   string
	tokens []annot.Token
	graph  *depgraph.Graph
}

// joinSentences creates a document with sentence texts separated by
// newlines. Token spans are shifted to refer to the document text.
func joinSentences(lang string, srcs []sentenceSource) *Document {
	ans := &Document{
		Language:  lang,
		Sentences: make([]Sentence, len(srcs)),
	}
	var text strings.Builder
	for i, src := range srcs {
		if i > 0 {
			text.WriteString("\n")
		}
		offset := text.Len()
		text.WriteString(src.text)
		ans.Sentences[i] = Sentence{
			Index:  i,
			Tokens: shiftTokens(src.tokens, offset),
			Graph:  src.graph,
		}
	}
	ans.Text = text.String()
	return ans
}

func shiftTokens(tokens []annot.Token, offset int) []annot.Token {
	return common.MapSlice(tokens, func(tok annot.Token, _ int) annot.Token {
		tok.Span = annot.Span{Begin: tok.Span.Begin + offset, End: tok.Span.End + offset}
		return tok
	})
}

// FromCoNLL creates a document out of CoNLL sentences
func FromCoNLL(lang string, sents []*conll.Sentence) *Document {
	return joinSentences(
		lang,
		common.MapSlice(sents, func(s *conll.Sentence, _ int) sentenceSource {
			return sentenceSource{text: s.Text, tokens: s.Tokens, graph: s.Graph}
		}),
	)
}

// FromVertical creates a document out of sentences read
// from a vertical file
func FromVertical(lang string, sents []vert.Sentence) *Document {
	return joinSentences(
		lang,
		common.MapSlice(sents, func(s vert.Sentence, _ int) sentenceSource {
			return sentenceSource{text: s.Text, tokens: s.Tokens, graph: s.Graph}
		}),
	)
}

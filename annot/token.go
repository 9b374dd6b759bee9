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

package annot

import (
	"fmt"

	"unianno/common"
)

const (
	// NEROutside is the label of tokens not belonging to any named entity
	NEROutside = "O"
)

// Token is a single tagged token of a sentence. Tokens are
// created once by a normalization step and never modified.
type Token struct {
	Span Span `json:"span"`

	// Text is the slice of the source document covered by Span
	Text string `json:"text"`

	// Form is the surface form as reported by an annotation engine
	// (it may differ from Text, e.g. "-LRB-" vs. "(").
	Form string `json:"form"`

	Tag   string `json:"tag"`
	Lemma string `json:"lemma,omitempty"`

	// Index is a 0-based position within the sentence
	Index int `json:"index"`

	NER string `json:"ner"`

	// CorefClusterID is a back-reference to a coreference cluster
	CorefClusterID common.Maybe[int] `json:"corefClusterId"`
}

// NERLabel returns the token's named entity label with
// empty values normalized to NEROutside.
func (t Token) NERLabel() string {
	if t.NER == "" {
		return NEROutside
	}
	return t.NER
}

// WithCorefCluster returns a copy of the token referring
// to the provided coreference cluster.
func (t Token) WithCorefCluster(clusterID int) Token {
	t.CorefClusterID = common.NewMaybe(clusterID)
	return t
}

func (t Token) String() string {
	return fmt.Sprintf("%s/%s[%d]%s", t.Form, t.Tag, t.Index, t.Span)
}

// NewToken creates a token from the source text. The token's Text
// is taken from the document, Form defaults to Text.
func NewToken(text string, span Span, index int, form, tag, lemma, ner string) (Token, error) {
	slice, err := span.Slice(text)
	if err != nil {
		return Token{}, fmt.Errorf("failed to create token %d: %w", index, err)
	}
	if form == "" {
		form = slice
	}
	if ner == "" {
		ner = NEROutside
	}
	return Token{
		Span:  span,
		Text:  slice,
		Form:  form,
		Tag:   tag,
		Lemma: lemma,
		Index: index,
		NER:   ner,
	}, nil
}

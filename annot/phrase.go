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
	"sort"
	"strings"
)

const (
	// CategoryWord is the category of single-token phrases
	CategoryWord = "WORD"

	nerSeparator = ","
)

// Phrase is a flat, read-only view of a minimal constituent.
type Phrase struct {
	Category string  `json:"category"`
	Text     string  `json:"text"`
	Span     Span    `json:"span"`
	Tokens   []Token `json:"tokens"`

	// BeginIndex and EndIndex specify the [begin, end) range
	// of token indices the phrase covers
	BeginIndex int `json:"beginIndex"`
	EndIndex   int `json:"endIndex"`

	// HeadIndex is a sentence-level token index (not an index to Tokens)
	HeadIndex int   `json:"headIndex"`
	HeadToken Token `json:"headToken"`

	NER string `json:"ner"`
}

func (p Phrase) String() string {
	words := make([]string, len(p.Tokens))
	for i, t := range p.Tokens {
		words[i] = t.Form + "/" + t.Tag
	}
	return fmt.Sprintf(
		"%s:%s:[%s]:[%d,%d):<%d=%s/%s>:%s",
		p.Category, p.Text, strings.Join(words, " "), p.BeginIndex, p.EndIndex,
		p.HeadIndex, p.HeadToken.Form, p.HeadToken.Tag, p.NER,
	)
}

// AggregateNER merges NER labels of the provided tokens. The result
// is a sorted comma-separated set of labels without NEROutside.
// If no other label is present, NEROutside is returned.
func AggregateNER(tokens []Token) string {
	labels := make(map[string]struct{})
	for _, t := range tokens {
		labels[t.NERLabel()] = struct{}{}
	}
	if len(labels) > 1 {
		delete(labels, NEROutside)
	}
	if len(labels) == 0 {
		return NEROutside
	}
	ans := make([]string, 0, len(labels))
	for lab := range labels {
		ans = append(ans, lab)
	}
	sort.Strings(ans)
	return strings.Join(ans, nerSeparator)
}

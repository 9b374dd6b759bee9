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
	"errors"
	"fmt"
	"strings"
	"unicode"

	"unianno/annot"
)

var (
	ErrMalformedBrackets = errors.New("malformed bracketed tree")
	ErrLeafCountMismatch = errors.New("number of tree leaves does not match number of tokens")
	ErrLeafAlignment     = errors.New("failed to align tree leaf with text")
)

var ptbEscapes = map[string][]string{
	"-LRB-": {"("},
	"-RRB-": {")"},
	"-LCB-": {"{"},
	"-RCB-": {"}"},
	"-LSB-": {"["},
	"-RSB-": {"]"},
	"``":    {"``", "\"", "“"},
	"''":    {"''", "\"", "”"},
	"`":     {"`", "'", "‘"},
	"'":     {"'", "’"},
}

var ptbSlashes = strings.NewReplacer(`\/`, "/", `\*`, "*")

// UnescapePTB returns possible source text variants of a PTB-escaped
// leaf form. The first item is the most likely one.
func UnescapePTB(form string) []string {
	if v, ok := ptbEscapes[form]; ok {
		return v
	}
	return []string{ptbSlashes.Replace(form)}
}

type bracket struct {
	label    string
	word     string
	isWord   bool
	children []*bracket
}

func (b *bracket) numLeaves() int {
	if b.isWord {
		return 1
	}
	var ans int
	for _, ch := range b.children {
		ans += ch.numLeaves()
	}
	return ans
}

func splitBrackets(s string) []string {
	ans := make([]string, 0, len(s)/3)
	var curr strings.Builder
	flush := func() {
		if curr.Len() > 0 {
			ans = append(ans, curr.String())
			curr.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			ans = append(ans, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			curr.WriteRune(r)
		}
	}
	flush()
	return ans
}

type bracketParser struct {
	items []string
	pos   int
}

func (p *bracketParser) parseNode() (*bracket, error) {
	if p.pos >= len(p.items) || p.items[p.pos] != "(" {
		return nil, fmt.Errorf("%w: expected '(' at position %d", ErrMalformedBrackets, p.pos)
	}
	p.pos++
	ans := &bracket{}
	if p.pos < len(p.items) && p.items[p.pos] != "(" && p.items[p.pos] != ")" {
		ans.label = p.items[p.pos]
		p.pos++
	}
	for p.pos < len(p.items) {
		switch p.items[p.pos] {
		case ")":
			p.pos++
			return ans, nil
		case "(":
			ch, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			ans.children = append(ans.children, ch)
		default:
			ans.children = append(ans.children, &bracket{word: p.items[p.pos], isWord: true})
			p.pos++
		}
	}
	return nil, fmt.Errorf("%w: unexpected end of input", ErrMalformedBrackets)
}

func parseBrackets(s string) (*bracket, error) {
	p := &bracketParser{items: splitBrackets(s)}
	if len(p.items) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedBrackets)
	}
	ans, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.items) {
		return nil, fmt.Errorf("%w: trailing content at position %d", ErrMalformedBrackets, p.pos)
	}
	return ans, nil
}

// leafFactory provides a token for each leaf in the surface order
type leafFactory func(word, tag string) (annot.Token, error)

func (b *bracket) toTree(mkLeaf leafFactory) (*Tree, error) {
	children := make([]*Tree, 0, len(b.children))
	for _, ch := range b.children {
		if ch.isWord {
			var tag string
			if len(b.children) == 1 {
				tag = b.label
			}
			tok, err := mkLeaf(ch.word, tag)
			if err != nil {
				return nil, err
			}
			children = append(children, NewLeaf(tok))

		} else {
			sub, err := ch.toTree(mkLeaf)
			if err != nil {
				return nil, err
			}
			children = append(children, sub)
		}
	}
	return NewNode(b.label, children...), nil
}

// ParsePenn builds a tree from a Penn Treebank bracketed string
// binding its leaves to the provided tokens in order.
func ParsePenn(bracketed string, tokens []annot.Token) (*Tree, error) {
	root, err := parseBrackets(bracketed)
	if err != nil {
		return nil, err
	}
	if n := root.numLeaves(); n != len(tokens) {
		return nil, fmt.Errorf("%w: %d leaves, %d tokens", ErrLeafCountMismatch, n, len(tokens))
	}
	var i int
	return root.toTree(func(word, tag string) (annot.Token, error) {
		tok := tokens[i]
		i++
		return tok, nil
	})
}

// ParsePennText builds a tree from a Penn Treebank bracketed string
// and creates its tokens by aligning (unescaped) leaf forms with
// the source text. Tokens are tagged by their pre-terminal labels.
func ParsePennText(bracketed, text string) (*Tree, error) {
	root, err := parseBrackets(bracketed)
	if err != nil {
		return nil, err
	}
	var cursor, idx int
	return root.toTree(func(word, tag string) (annot.Token, error) {
		begin, end := -1, -1
		for _, variant := range UnescapePTB(word) {
			pos := strings.Index(text[cursor:], variant)
			if pos >= 0 && (begin < 0 || cursor+pos < begin) {
				begin = cursor + pos
				end = begin + len(variant)
			}
		}
		if begin < 0 {
			return annot.Token{}, fmt.Errorf(
				"%w: leaf %d (%s) not found after offset %d", ErrLeafAlignment, idx, word, cursor)
		}
		span, err := annot.NewSpan(begin, end)
		if err != nil {
			return annot.Token{}, err
		}
		tok, err := annot.NewToken(text, span, idx, word, tag, "", "")
		if err != nil {
			return annot.Token{}, err
		}
		cursor = end
		idx++
		return tok, nil
	})
}

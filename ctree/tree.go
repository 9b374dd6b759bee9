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
	"strings"

	"unianno/annot"
)

// Kind is a structural classification of a tree node
type Kind int

const (
	// KindEmpty is a non-leaf node without children. It should
	// not occur in a well formed tree.
	KindEmpty Kind = iota

	// KindLeaf is a node carrying a token
	KindLeaf

	// KindPreTerminal is a (POS) node directly above exactly one leaf
	KindPreTerminal

	// KindPrePreTerminal is a node all of whose children are pre-terminals
	KindPrePreTerminal

	// KindPhrasal is any other node with children
	KindPhrasal
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindPreTerminal:
		return "pre-terminal"
	case KindPrePreTerminal:
		return "pre-pre-terminal"
	case KindPhrasal:
		return "phrasal"
	default:
		return "empty"
	}
}

// Tree is a node of a constituency tree. Leaves carry a token,
// inner nodes carry a category label and span covering all their
// leaves.
type Tree struct {
	Label    string
	Span     annot.Span
	Children []*Tree
	Token    *annot.Token
}

// Kind classifies the node
func (t *Tree) Kind() Kind {
	if t.Token != nil {
		return KindLeaf
	}
	if len(t.Children) == 0 {
		return KindEmpty
	}
	if len(t.Children) == 1 && t.Children[0].Kind() == KindLeaf {
		return KindPreTerminal
	}
	for _, ch := range t.Children {
		if ch.Kind() != KindPreTerminal {
			return KindPhrasal
		}
	}
	return KindPrePreTerminal
}

// Leaves returns the tokens of the tree in their surface order
func (t *Tree) Leaves() []annot.Token {
	ans := make([]annot.Token, 0, 16)
	return t.appendLeaves(ans)
}

func (t *Tree) appendLeaves(ans []annot.Token) []annot.Token {
	if t.Token != nil {
		return append(ans, *t.Token)
	}
	for _, ch := range t.Children {
		ans = ch.appendLeaves(ans)
	}
	return ans
}

// TaggedWord is a word along with the label of its pre-terminal
type TaggedWord struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

// TaggedWords returns leaf forms tagged by labels of their
// pre-terminal nodes.
func (t *Tree) TaggedWords() []TaggedWord {
	ans := make([]TaggedWord, 0, 16)
	return t.appendTaggedWords(ans)
}

func (t *Tree) appendTaggedWords(ans []TaggedWord) []TaggedWord {
	if t.Kind() == KindPreTerminal {
		return append(ans, TaggedWord{Word: t.Children[0].Token.Form, Tag: t.Label})
	}
	for _, ch := range t.Children {
		ans = ch.appendTaggedWords(ans)
	}
	return ans
}

// String returns the tree in a one-line bracketed (Penn) format
func (t *Tree) String() string {
	var sb strings.Builder
	t.writeTo(&sb)
	return sb.String()
}

func (t *Tree) writeTo(sb *strings.Builder) {
	if t.Token != nil {
		sb.WriteString(t.Token.Form)
		return
	}
	sb.WriteString("(")
	sb.WriteString(t.Label)
	for _, ch := range t.Children {
		sb.WriteString(" ")
		ch.writeTo(sb)
	}
	sb.WriteString(")")
}

// NewLeaf creates a leaf node for a token
func NewLeaf(tok annot.Token) *Tree {
	return &Tree{
		Label: tok.Form,
		Span:  tok.Span,
		Token: &tok,
	}
}

// NewNode creates an inner node. Its span is derived from
// the non-empty children.
func NewNode(label string, children ...*Tree) *Tree {
	ans := &Tree{
		Label:    label,
		Children: children,
	}
	var spanSet bool
	for _, ch := range children {
		if ch.Kind() == KindEmpty {
			continue
		}
		if !spanSet {
			ans.Span = ch.Span
			spanSet = true

		} else {
			ans.Span = ans.Span.Union(ch.Span)
		}
	}
	return ans
}

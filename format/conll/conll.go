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

// Package conll reads dependency parses stored in the CoNLL-X
// and CoNLL-U formats.
package conll

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"unianno/annot"
	"unianno/common"
	"unianno/depgraph"

	"github.com/rs/zerolog/log"
)

const (
	numColumns    = 10
	emptyValue    = "_"
	itemSeparator = "|"

	// DefaultRelation is used for attached rows without any relation label
	DefaultRelation = "dep"

	miscRoleset    = "pb"
	miscNER        = "ner"
	miscTokenRange = "TokenRange"
	miscSpaceAfter = "SpaceAfter"
)

var (
	ErrMalformedRow = errors.New("malformed CoNLL row")
)

// Format specifies a CoNLL dialect
type Format int

const (
	// FormatU is CoNLL-U (ID FORM LEMMA UPOS XPOS FEATS HEAD DEPREL DEPS MISC)
	FormatU Format = iota

	// FormatX is CoNLL-X (ID FORM LEMMA CPOSTAG POSTAG FEATS HEAD DEPREL PHEAD PDEPREL)
	FormatX
)

func (f Format) String() string {
	if f == FormatX {
		return "CoNLL-X"
	}
	return "CoNLL-U"
}

// Sentence is a single parsed sentence along with its tokens.
// The sentence Text is laid out from token forms (respecting
// SpaceAfter=No) and token spans always refer to it. Offsets
// within the original document (MISC TokenRange) are kept
// in SourceSpans.
type Sentence struct {
	Comments    []string
	Text        string
	Tokens      []annot.Token
	Graph       *depgraph.Graph
	SourceSpans map[int]annot.Span
}

type row struct {
	node       depgraph.Node
	ner        string
	tokenRange common.Maybe[string]
	noSpace    bool
}

func parseValue(v string) string {
	if v == emptyValue {
		return ""
	}
	return v
}

func parseMisc(v string) map[string]string {
	ans := make(map[string]string)
	if v == emptyValue || v == "" {
		return ans
	}
	for _, item := range strings.Split(v, itemSeparator) {
		key, value, ok := strings.Cut(item, "=")
		if ok {
			ans[key] = value
		}
	}
	return ans
}

func isEmptyNodeID(v string) bool {
	major, minor, ok := strings.Cut(v, ".")
	if !ok {
		return false
	}
	_, err1 := strconv.Atoi(major)
	_, err2 := strconv.Atoi(minor)
	return err1 == nil && err2 == nil
}

// parseSecondaryArcs parses items like "4:A1=PPT|2:A0". Arcs governed
// by empty nodes (e.g. "2.1:nsubj") are skipped as are the empty nodes.
func parseSecondaryArcs(v string) ([]depgraph.SecondaryArc, error) {
	if v == emptyValue || v == "" {
		return nil, nil
	}
	items := strings.Split(v, itemSeparator)
	ans := make([]depgraph.SecondaryArc, 0, len(items))
	for _, item := range items {
		gov, label, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("invalid secondary arc %s", item)
		}
		if isEmptyNodeID(gov) {
			log.Debug().Str("arc", item).Msg("skipping secondary arc governed by an empty node")
			continue
		}
		govID, err := strconv.Atoi(gov)
		if err != nil {
			return nil, fmt.Errorf("invalid secondary arc governor %s: %w", item, err)
		}
		arc := depgraph.SecondaryArc{Governor: govID, Label: label}
		if lab, ftag, ok := strings.Cut(label, "="); ok {
			arc.Label = lab
			arc.FunctionTag = ftag
		}
		ans = append(ans, arc)
	}
	return ans, nil
}

func splitColumns(line string) []string {
	cols := strings.Split(line, "\t")
	if len(cols) != numColumns {
		cols = strings.Fields(line)
	}
	return cols
}

func parseRow(cols []string, expectedID int, format Format) (row, error) {
	var ans row
	if len(cols) != numColumns {
		return ans, fmt.Errorf("%w: expected %d columns, found %d", ErrMalformedRow, numColumns, len(cols))
	}
	id, err := strconv.Atoi(cols[0])
	if err != nil {
		return ans, fmt.Errorf("%w: invalid ID %s", ErrMalformedRow, cols[0])
	}
	if id != expectedID {
		return ans, fmt.Errorf("%w: expected ID %d, found %d", ErrMalformedRow, expectedID, id)
	}
	ans.node.ID = id
	ans.node.Form = cols[1]
	ans.node.Lemma = parseValue(cols[2])
	ans.node.Tag = parseValue(cols[4])
	if ans.node.Tag == "" {
		ans.node.Tag = parseValue(cols[3])
	}
	if head := parseValue(cols[6]); head != "" {
		gov, err := strconv.Atoi(head)
		if err != nil || gov < 0 {
			return ans, fmt.Errorf("%w: invalid HEAD %s", ErrMalformedRow, head)
		}
		ans.node.Governor = common.NewMaybe(gov)
		ans.node.Relation = parseValue(cols[7])
		if ans.node.Relation == "" {
			ans.node.Relation = DefaultRelation
		}
	}

	switch format {
	case FormatX:
		phead, pdeprel := parseValue(cols[8]), parseValue(cols[9])
		if phead == "" {
			break
		}
		if strings.Contains(phead, ":") {
			ans.node.Secondary, err = parseSecondaryArcs(phead)

		} else {
			ans.node.Secondary, err = parseSecondaryArcs(phead + ":" + pdeprel)
		}
		if err != nil {
			return ans, fmt.Errorf("%w: %s", ErrMalformedRow, err)
		}
	default:
		ans.node.Secondary, err = parseSecondaryArcs(cols[8])
		if err != nil {
			return ans, fmt.Errorf("%w: %s", ErrMalformedRow, err)
		}
		misc := parseMisc(cols[9])
		ans.node.Roleset = misc[miscRoleset]
		ans.ner = misc[miscNER]
		if rng, ok := misc[miscTokenRange]; ok {
			ans.tokenRange = common.NewMaybe(rng)
		}
		ans.noSpace = misc[miscSpaceAfter] == "No"
	}
	return ans, nil
}

func parseTokenRange(v string) (annot.Span, error) {
	b, e, ok := strings.Cut(v, ":")
	if !ok {
		return annot.Span{}, fmt.Errorf("invalid token range %s", v)
	}
	begin, err := strconv.Atoi(b)
	if err != nil {
		return annot.Span{}, fmt.Errorf("invalid token range %s: %w", v, err)
	}
	end, err := strconv.Atoi(e)
	if err != nil {
		return annot.Span{}, fmt.Errorf("invalid token range %s: %w", v, err)
	}
	return annot.NewSpan(begin, end)
}

func buildSentence(comments []string, rows []row) (*Sentence, error) {
	var text strings.Builder
	tokens := make([]annot.Token, len(rows))
	sourceSpans := make(map[int]annot.Span)
	nodes := make([]depgraph.Node, len(rows))
	for i, r := range rows {
		nodes[i] = r.node
		begin := text.Len()
		text.WriteString(r.node.Form)
		if !r.noSpace && i < len(rows)-1 {
			text.WriteString(" ")
		}
		tok := annot.Token{
			Span:  annot.Span{Begin: begin, End: text.Len()},
			Text:  r.node.Form,
			Form:  r.node.Form,
			Tag:   r.node.Tag,
			Lemma: r.node.Lemma,
			Index: i,
			NER:   r.ner,
		}
		if tok.NER == "" {
			tok.NER = annot.NEROutside
		}
		if rng, ok := r.tokenRange.Value(); ok {
			span, err := parseTokenRange(rng)
			if err != nil {
				return nil, fmt.Errorf("token %d: %w", i+1, err)
			}
			sourceSpans[i] = span
		}
		tokens[i] = tok
	}
	graph, err := depgraph.NewGraph(nodes)
	if err != nil {
		return nil, err
	}
	return &Sentence{
		Comments:    comments,
		Text:        text.String(),
		Tokens:      tokens,
		Graph:       graph,
		SourceSpans: sourceSpans,
	}, nil
}

// Reader reads CoNLL sentences one by one
type Reader struct {
	scanner *bufio.Scanner
	format  Format
	line    int
}

// Next reads the next sentence. At the end of input, io.EOF is returned.
// Errors of malformed input mention the respective line number.
func (r *Reader) Next() (*Sentence, error) {
	var (
		comments  []string
		rows      []row
		firstLine int
	)
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(rows) == 0 {
				continue
			}
			break
		}
		if firstLine == 0 {
			firstLine = r.line
		}
		if strings.HasPrefix(line, "#") {
			comments = append(comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}
		cols := splitColumns(line)
		if strings.Contains(cols[0], "-") || strings.Contains(cols[0], ".") {
			log.Debug().Int("line", r.line).Str("id", cols[0]).Msg("skipping multiword or empty node row")
			continue
		}
		rw, err := parseRow(cols, len(rows)+1, r.format)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		rows = append(rows, rw)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s data: %w", r.format, err)
	}
	if len(rows) == 0 {
		return nil, io.EOF
	}
	sent, err := buildSentence(comments, rows)
	if err != nil {
		return nil, fmt.Errorf("sentence at line %d: %w", firstLine, err)
	}
	return sent, nil
}

// NewReader creates a reader of the specified CoNLL dialect
func NewReader(r io.Reader, format Format) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{
		scanner: scanner,
		format:  format,
	}
}

// ReadAll reads all the sentences of the input
func ReadAll(r io.Reader, format Format) ([]*Sentence, error) {
	reader := NewReader(r, format)
	ans := make([]*Sentence, 0, 16)
	for {
		sent, err := reader.Next()
		if err == io.EOF {
			return ans, nil
		}
		if err != nil {
			return ans, err
		}
		ans = append(ans, sent)
	}
}

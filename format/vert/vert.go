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

// Package vert reads dependency-annotated sentences from
// corpus vertical files.
package vert

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"unianno/annot"
	"unianno/common"
	"unianno/depgraph"

	"github.com/czcorpus/vert-tagextract/v3/proc"
	"github.com/rs/zerolog/log"
	"github.com/tomachalek/vertigo/v6"
)

const (
	DefaultSentenceStruct = "s"
	DefaultMaxNumErrors   = 100
	defaultRelation       = "dep"
)

var (
	ErrTooManyParsingErrors = errors.New("too many parsing errors")
)

// Conf specifies how positional attributes of a vertical
// file map to token and dependency properties. Column indices
// are 0-based (0 = word). A negative index means the attribute
// is not available.
type Conf struct {
	SentenceStruct string `json:"sentenceStruct"`
	WordColIdx     int    `json:"wordColIdx"`
	LemmaColIdx    int    `json:"lemmaColIdx"`
	TagColIdx      int    `json:"tagColIdx"`
	HeadColIdx     int    `json:"headColIdx"`
	DeprelColIdx   int    `json:"deprelColIdx"`

	// RelativeHeads specifies that head values are offsets
	// relative to the current token (0 = sentence root)
	RelativeHeads bool `json:"relativeHeads"`
	MaxNumErrors  int  `json:"maxNumErrors"`
}

// DefaultConf returns a configuration for the common
// word, lemma, tag, head, deprel column layout
func DefaultConf() Conf {
	return Conf{
		SentenceStruct: DefaultSentenceStruct,
		WordColIdx:     0,
		LemmaColIdx:    1,
		TagColIdx:      2,
		HeadColIdx:     3,
		DeprelColIdx:   4,
		MaxNumErrors:   DefaultMaxNumErrors,
	}
}

// Sentence is a sentence read from a vertical file along
// with its structure attributes
type Sentence struct {
	Line   int               `json:"line"`
	Attrs  map[string]string `json:"attrs"`
	Text   string            `json:"text"`
	Tokens []annot.Token     `json:"tokens"`
	Graph  *depgraph.Graph   `json:"-"`
}

// SentenceError describes a sentence which could not be processed
type SentenceError struct {
	Line int
	Err  error
}

func (err SentenceError) Error() string {
	return fmt.Sprintf("sentence at line %d: %s", err.Line, err.Err)
}

func (err SentenceError) Unwrap() error {
	return err.Err
}

type tokenRow struct {
	word   string
	lemma  string
	tag    string
	head   string
	deprel string
}

// SentenceCollector is a vertigo.LineProcessor collecting
// sentence structures. Sentences which cannot be converted
// are skipped and recorded as SentenceErrors.
type SentenceCollector struct {
	ctx          context.Context
	conf         Conf
	inSentence   bool
	currLine     int
	currAttrs    map[string]string
	currRows     []tokenRow
	sentences    []Sentence
	errors       []SentenceError
	errorCounter int
}

func (sc *SentenceCollector) handleProcError(line int, err error) error {
	log.Error().Err(err).Int("lineNumber", line).Msg("parsing error")
	sc.errorCounter++
	if sc.errorCounter > sc.conf.MaxNumErrors {
		return ErrTooManyParsingErrors
	}
	return nil
}

func (sc *SentenceCollector) checkStop() error {
	select {
	case <-sc.ctx.Done():
		return fmt.Errorf("received stop signal: %w", sc.ctx.Err())
	default:
	}
	return nil
}

func (sc *SentenceCollector) openSentence(line int, attrs map[string]string) {
	sc.inSentence = true
	sc.currLine = line
	sc.currAttrs = maps.Clone(attrs)
	sc.currRows = sc.currRows[:0]
}

func (sc *SentenceCollector) addToken(row tokenRow) {
	if sc.inSentence {
		sc.currRows = append(sc.currRows, row)
	}
}

func (sc *SentenceCollector) closeSentence() error {
	if !sc.inSentence {
		return nil
	}
	sc.inSentence = false
	sent, err := sc.conf.buildSentence(sc.currLine, sc.currAttrs, sc.currRows)
	if err != nil {
		sc.errors = append(sc.errors, SentenceError{Line: sc.currLine, Err: err})
		log.Warn().Err(err).Int("lineNumber", sc.currLine).Msg("skipping invalid sentence")
		return sc.handleProcError(sc.currLine, err)
	}
	sc.sentences = append(sc.sentences, sent)
	return nil
}

func (sc *SentenceCollector) ProcStruct(st *vertigo.Structure, line int, err error) error {
	if err := sc.checkStop(); err != nil {
		return err
	}
	if err != nil { // error from the Vertigo parser
		return sc.handleProcError(line, err)
	}
	if st.Name == sc.conf.SentenceStruct {
		sc.openSentence(line, st.Attrs)
	}
	return nil
}

func (sc *SentenceCollector) ProcStructClose(st *vertigo.StructureClose, line int, err error) error {
	if err := sc.checkStop(); err != nil {
		return err
	}
	if err != nil { // error from the Vertigo parser
		return sc.handleProcError(line, err)
	}
	if st.Name == sc.conf.SentenceStruct {
		return sc.closeSentence()
	}
	return nil
}

// ProcToken is a part of vertigo.LineProcessor implementation.
// Tokens outside sentence structures are ignored.
func (sc *SentenceCollector) ProcToken(tk *vertigo.Token, line int, err error) error {
	if err := sc.checkStop(); err != nil {
		return err
	}
	if err != nil { // error from the Vertigo parser
		return sc.handleProcError(line, err)
	}
	sc.addToken(tokenRow{
		word:   sc.conf.attr(tk, sc.conf.WordColIdx),
		lemma:  sc.conf.attr(tk, sc.conf.LemmaColIdx),
		tag:    sc.conf.attr(tk, sc.conf.TagColIdx),
		head:   sc.conf.attr(tk, sc.conf.HeadColIdx),
		deprel: sc.conf.attr(tk, sc.conf.DeprelColIdx),
	})
	return nil
}

// Sentences returns all the successfully converted sentences
func (sc *SentenceCollector) Sentences() []Sentence {
	return sc.sentences
}

// Errors returns problems with individual sentences
func (sc *SentenceCollector) Errors() []SentenceError {
	return sc.errors
}

func (conf Conf) attr(tk *vertigo.Token, idx int) string {
	if idx < 0 {
		return ""
	}
	return tk.PosAttrByIndex(idx)
}

func (conf Conf) parseHead(id int, v string) (common.Maybe[int], error) {
	if v == "" || v == "_" || v == "-" {
		return common.NewEmptyMaybe[int](), nil
	}
	head, err := strconv.Atoi(strings.TrimPrefix(v, "+"))
	if err != nil {
		return common.NewEmptyMaybe[int](), fmt.Errorf("invalid head value %s of token %d", v, id)
	}
	if conf.RelativeHeads && head != 0 {
		head = id + head
	}
	if head < 0 {
		return common.NewEmptyMaybe[int](), fmt.Errorf("head of token %d points before sentence start", id)
	}
	return common.NewMaybe(head), nil
}

func (conf Conf) buildSentence(line int, attrs map[string]string, rows []tokenRow) (Sentence, error) {
	var text strings.Builder
	tokens := make([]annot.Token, len(rows))
	nodes := make([]depgraph.Node, len(rows))
	for i, row := range rows {
		if i > 0 {
			text.WriteString(" ")
		}
		begin := text.Len()
		text.WriteString(row.word)
		tokens[i] = annot.Token{
			Span:  annot.Span{Begin: begin, End: text.Len()},
			Text:  row.word,
			Form:  row.word,
			Tag:   row.tag,
			Lemma: row.lemma,
			Index: i,
			NER:   annot.NEROutside,
		}
		gov, err := conf.parseHead(i+1, row.head)
		if err != nil {
			return Sentence{}, err
		}
		nodes[i] = depgraph.Node{
			ID:       i + 1,
			Form:     row.word,
			Lemma:    row.lemma,
			Tag:      row.tag,
			Governor: gov,
		}
		if !gov.Empty() {
			nodes[i].Relation = row.deprel
			if nodes[i].Relation == "" || nodes[i].Relation == "_" {
				nodes[i].Relation = defaultRelation
			}
		}
	}
	graph, err := depgraph.NewGraph(nodes)
	if err != nil {
		return Sentence{}, err
	}
	return Sentence{
		Line:   line,
		Attrs:  attrs,
		Text:   text.String(),
		Tokens: tokens,
		Graph:  graph,
	}, nil
}

// NewSentenceCollector creates a collector with the provided configuration
func NewSentenceCollector(ctx context.Context, conf Conf) *SentenceCollector {
	if conf.SentenceStruct == "" {
		conf.SentenceStruct = DefaultSentenceStruct
	}
	if conf.MaxNumErrors <= 0 {
		conf.MaxNumErrors = DefaultMaxNumErrors
	}
	return &SentenceCollector{
		ctx:       ctx,
		conf:      conf,
		sentences: make([]Sentence, 0, 100),
		currRows:  make([]tokenRow, 0, 50),
	}
}

// ReadFiles reads sentences from one or more vertical files
// (processed as a single stream).
func ReadFiles(ctx context.Context, conf Conf, paths ...string) (*SentenceCollector, error) {
	parserConf := &vertigo.ParserConf{
		StructAttrAccumulator: "nil",
		Encoding:              "utf-8",
		LogProgressEachNth:    100000,
	}
	scanner, err := proc.NewMultiFileScanner(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to open vertical file(s): %w", err)
	}
	defer scanner.Close()
	collector := NewSentenceCollector(ctx, conf)
	if err := vertigo.ParseVerticalFromScanner(ctx, scanner, parserConf, collector); err != nil {
		return collector, fmt.Errorf("failed to read vertical file(s): %w", err)
	}
	return collector, nil
}

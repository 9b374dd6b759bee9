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

package annotation

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"unianno/annot"
	"unianno/coref"
	"unianno/ctree"
	"unianno/depgraph"
	"unianno/docstore"
	"unianno/document"
	"unianno/format/conll"
	"unianno/registry"

	"github.com/czcorpus/cnc-gokit/unireq"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingTree  = errors.New("sentence has no constituency tree")
	ErrMissingGraph = errors.New("sentence has no dependency graph")
	ErrInvalidRange = errors.New("invalid token range")
)

// sentenceArgs is a common request body for single
// sentence queries
type sentenceArgs struct {
	Text     string               `json:"text"`
	Language string               `json:"language"`
	Sentence document.RawSentence `json:"sentence"`
}

func (args sentenceArgs) normalize() (document.Sentence, error) {
	doc := document.Normalize(document.RawDocument{
		Text:      args.Text,
		Language:  args.Language,
		Sentences: []document.RawSentence{args.Sentence},
	})
	return doc.Sentences[0], doc.Sentences[0].Err
}

type headArgs struct {
	sentenceArgs
	Begin int `json:"begin"`
	End   int `json:"end"`
}

type dependentsArgs struct {
	sentenceArgs
	Origin int `json:"origin"`
}

type corefArgs struct {
	Mentions []coref.Mention `json:"mentions"`
}

type storedDocResponse struct {
	ID       string             `json:"id"`
	Analysis *document.Analysis `json:"analysis"`
}

type headResponse struct {
	Head  int         `json:"head"`
	Token annot.Token `json:"token"`
}

type dependentsResponse struct {
	Origin     int                   `json:"origin"`
	MaxDepth   int                   `json:"maxDepth"`
	Dependents []depgraph.NodeRecord `json:"dependents"`
}

type corefResponse struct {
	Clusters       coref.Clusters `json:"clusters"`
	OrphanClusters []int          `json:"orphanClusters"`
}

type conllSentence struct {
	Comments     []string                   `json:"comments"`
	Text         string                     `json:"text"`
	Nodes        []depgraph.NodeRecord      `json:"nodes"`
	Dependencies []depgraph.TypedDependency `json:"dependencies"`
}

// Actions contains handlers of annotation processing and
// querying
type Actions struct {
	analyzer           *document.Analyzer
	store              docstore.Store
	registry           *registry.Registry
	language           string
	maxDependentsDepth int
}

// CreateDocument godoc
// @Summary      CreateDocument analyzes an engine-annotated document and stores the result
// @Description  Invalid sentences and coreference clusters without representative mentions are reported within the analysis. Token offsets are character offsets.
// @Accept       json
// @Produce      json
// @Param        document body document.RawDocument true "Annotated document"
// @Success      200 {object} storedDocResponse
// @Router       /documents [post]
func (a *Actions) CreateDocument(ctx *gin.Context) {
	var raw document.RawDocument
	if err := ctx.BindJSON(&raw); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	analysis, err := a.analyzer.Analyze(ctx.Request.Context(), document.Normalize(raw))
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusServiceUnavailable)
		return
	}
	id, err := a.store.Save(ctx.Request.Context(), analysis)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	log.Info().
		Str("docId", id).
		Int("numSentences", len(analysis.Sentences)).
		Int("numFailed", analysis.NumFailedSentences()).
		Msg("stored document analysis")
	uniresp.WriteJSONResponse(ctx.Writer, storedDocResponse{ID: id, Analysis: analysis})
}

// GetDocument godoc
// @Summary      GetDocument returns a stored analysis
// @Produce      json
// @Param        docId path string true "Document ID"
// @Success      200 {object} document.Analysis
// @Failure      404 {object} any
// @Router       /documents/{docId} [get]
func (a *Actions) GetDocument(ctx *gin.Context) {
	analysis, err := a.store.Load(ctx.Request.Context(), ctx.Param("docId"))
	if errors.Is(err, docstore.ErrNotFound) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, analysis)
}

// DeleteDocument godoc
// @Summary      DeleteDocument removes a stored analysis
// @Produce      json
// @Param        docId path string true "Document ID"
// @Success      200 {object} any
// @Failure      404 {object} any
// @Router       /documents/{docId} [delete]
func (a *Actions) DeleteDocument(ctx *gin.Context) {
	err := a.store.Delete(ctx.Request.Context(), ctx.Param("docId"))
	if errors.Is(err, docstore.ErrNotFound) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"ok": true})
}

// Phrases godoc
// @Summary      Phrases extracts phrases from a sentence's constituency tree
// @Accept       json
// @Produce      json
// @Param        args body sentenceArgs true "Annotated sentence"
// @Success      200 {array} annot.Phrase
// @Failure      400 {object} any
// @Router       /phrases [post]
func (a *Actions) Phrases(ctx *gin.Context) {
	var args sentenceArgs
	if err := ctx.BindJSON(&args); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	sent, err := args.normalize()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if sent.Tree == nil {
		uniresp.RespondWithErrorJSON(ctx, ErrMissingTree, http.StatusBadRequest)
		return
	}
	phrases, err := ctree.ExtractPhrases(sent.Tree, sent.Graph, args.Text)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"phrases": phrases})
}

// Head godoc
// @Summary      Head finds a head token of the token range [begin, end)
// @Accept       json
// @Produce      json
// @Param        args body headArgs true "Annotated sentence and token range"
// @Success      200 {object} headResponse
// @Failure      400 {object} any
// @Router       /head [post]
func (a *Actions) Head(ctx *gin.Context) {
	var args headArgs
	if err := ctx.BindJSON(&args); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	sent, err := args.normalize()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if args.Begin < 0 || args.Begin >= args.End || args.End > len(sent.Tokens) {
		uniresp.RespondWithErrorJSON(
			ctx,
			fmt.Errorf("%w [%d, %d) for %d tokens", ErrInvalidRange, args.Begin, args.End, len(sent.Tokens)),
			http.StatusBadRequest,
		)
		return
	}
	head := sent.Graph.FindHead(args.Begin, args.End)
	uniresp.WriteJSONResponse(ctx.Writer, headResponse{Head: head, Token: sent.Tokens[head]})
}

// Dependents godoc
// @Summary      Dependents collects dependents of a node up to the maxDepth levels
// @Accept       json
// @Produce      json
// @Param        args body dependentsArgs true "Annotated sentence and origin node"
// @Param        maxDepth query int false "Max. traversal depth"
// @Param        includeOrigin query bool false "Include the origin node" default(true)
// @Success      200 {object} dependentsResponse
// @Failure      400 {object} any
// @Router       /dependents [post]
func (a *Actions) Dependents(ctx *gin.Context) {
	maxDepth, ok := unireq.GetURLIntArgOrFail(ctx, "maxDepth", a.maxDependentsDepth)
	if !ok {
		return
	}
	includeOrigin := true
	if v := ctx.Query("includeOrigin"); v != "" {
		var err error
		includeOrigin, err = strconv.ParseBool(v)
		if err != nil {
			uniresp.RespondWithErrorJSON(
				ctx, fmt.Errorf("invalid includeOrigin value: %s", v), http.StatusBadRequest)
			return
		}
	}
	var args dependentsArgs
	if err := ctx.BindJSON(&args); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	sent, err := args.normalize()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if sent.Graph == nil {
		uniresp.RespondWithErrorJSON(ctx, ErrMissingGraph, http.StatusBadRequest)
		return
	}
	deps := sent.Graph.CollectDependents(args.Origin, includeOrigin, maxDepth)
	records := make([]depgraph.NodeRecord, len(deps))
	for i, d := range deps {
		records[i] = d.Record()
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		dependentsResponse{Origin: args.Origin, MaxDepth: maxDepth, Dependents: records},
	)
}

// Coref godoc
// @Summary      Coref assembles coreference clusters out of mentions with representatives flagged
// @Accept       json
// @Produce      json
// @Param        args body corefArgs true "Mentions"
// @Success      200 {object} corefResponse
// @Router       /coref [post]
func (a *Actions) Coref(ctx *gin.Context) {
	var args corefArgs
	if err := ctx.BindJSON(&args); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	clusters, err := coref.AssembleFlagged(args.Mentions)
	ans := corefResponse{Clusters: clusters, OrphanClusters: []int{}}
	var orphErr *coref.OrphanClusterError
	if errors.As(err, &orphErr) {
		ans.OrphanClusters = orphErr.ClusterIDs

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// CoNLL godoc
// @Summary      CoNLL reads a CoNLL-U (or CoNLL-X) request body
// @Description  Returns flat node records and typed dependencies of each sentence.
// @Accept       plain
// @Produce      json
// @Param        format query string false "Input format (u or x)" default(u)
// @Param        lang query string false "Language of relation labels"
// @Success      200 {array} conllSentence
// @Failure      400 {object} any
// @Router       /conll [post]
func (a *Actions) CoNLL(ctx *gin.Context) {
	format := conll.FormatU
	if ctx.Query("format") == "x" {
		format = conll.FormatX
	}
	lang := ctx.DefaultQuery("lang", a.language)
	sents, err := conll.ReadAll(ctx.Request.Body, format)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	ans := make([]conllSentence, len(sents))
	for i, s := range sents {
		nodes := s.Graph.Nodes()
		records := make([]depgraph.NodeRecord, len(nodes))
		for j, n := range nodes {
			records[j] = n.Record(s.Graph.Depth(n.ID))
		}
		ans[i] = conllSentence{
			Comments:     s.Comments,
			Text:         s.Text,
			Nodes:        records,
			Dependencies: s.Graph.TypedDependencies(a.registry, lang),
		}
	}
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"sentences": ans})
}

// NewActions is the default factory for Actions
func NewActions(
	analyzer *document.Analyzer,
	store docstore.Store,
	reg *registry.Registry,
	language string,
	maxDependentsDepth int,
) *Actions {
	return &Actions{
		analyzer:           analyzer,
		store:              store,
		registry:           reg,
		language:           language,
		maxDependentsDepth: maxDependentsDepth,
	}
}

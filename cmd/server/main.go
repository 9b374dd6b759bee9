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

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"unianno/annotation"
	"unianno/cnf"
	"unianno/docstore"
	"unianno/docs"
	"unianno/document"
	"unianno/format/vert"
	"unianno/general"
	"unianno/registry"
	"unianno/root"
)

var (
	version   string
	buildDate string
	gitCommit string
)

func loadConf(path string) *cnf.Conf {
	conf := cnf.LoadConfig(path)
	logging.SetupLogging(conf.Logging)
	cnf.ApplyEnvOverrides(conf)
	cnf.ApplyDefaults(conf)
	return conf
}

// importVerticals analyzes vertical files as a single document
// and stores the analysis into the configured document store
func importVerticals(ctx context.Context, conf *cnf.Conf, lang string, paths []string) {
	reg := registry.NewRegistry()
	store, err := docstore.Open(ctx, conf.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open document store")
	}
	defer store.Close()
	collector, err := vert.ReadFiles(ctx, *conf.Vertical, paths...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to import vertical files")
	}
	for _, serr := range collector.Errors() {
		log.Warn().Err(serr.Err).Int("lineNumber", serr.Line).Msg("skipped sentence")
	}
	analyzer := document.NewAnalyzer(reg, conf.MaxParallelSentences, conf.Language)
	analysis, err := analyzer.Analyze(ctx, document.FromVertical(lang, collector.Sentences()))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to analyze vertical files")
	}
	id, err := store.Save(ctx, analysis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to store analysis")
	}
	log.Info().
		Str("docId", id).
		Int("numSentences", len(analysis.Sentences)).
		Int("numSkipped", len(collector.Errors())).
		Msg("vertical files imported")
	fmt.Println(id)
}

func runServer(ctx context.Context, conf *cnf.Conf, version general.VersionInfo) {
	store, err := docstore.Open(ctx, conf.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open document store")
	}
	defer store.Close()

	if !conf.Logging.Level.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	reg := registry.NewRegistry()
	rootActions := root.Actions{Version: version, Conf: conf}
	registryActions := registry.NewActions(reg)
	annotActions := annotation.NewActions(
		document.NewAnalyzer(reg, conf.MaxParallelSentences, conf.Language),
		store,
		reg,
		conf.Language,
		conf.MaxDependentsDepth,
	)

	docs.SwaggerInfo.Version = version.Version
	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%d", conf.ListenAddress, conf.ListenPort)

	engine.GET(
		"/", rootActions.RootAction)
	engine.GET(
		"/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.POST(
		"/documents", annotActions.CreateDocument)
	engine.GET(
		"/documents/:docId", annotActions.GetDocument)
	engine.DELETE(
		"/documents/:docId", annotActions.DeleteDocument)

	engine.POST(
		"/phrases", annotActions.Phrases)
	engine.POST(
		"/head", annotActions.Head)
	engine.POST(
		"/dependents", annotActions.Dependents)
	engine.POST(
		"/coref", annotActions.Coref)
	engine.POST(
		"/conll", annotActions.CoNLL)

	engine.GET(
		"/relations", registryActions.Relations)
	engine.GET(
		"/relations/:lang/:label", registryActions.Resolve)

	log.Info().Msgf("starting to listen at %s:%d", conf.ListenAddress, conf.ListenPort)
	srv := &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", conf.ListenAddress, conf.ListenPort),
		WriteTimeout: time.Duration(conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(conf.ServerReadTimeoutSecs) * time.Second,
	}

	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Send()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown request received")

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}

// @title           UNIANNO - unified annotation conversion and query service
// @description     Normalizes NLP engine annotations (tokens, constituency trees, dependency graphs, coreference) and answers structural queries over them.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost
// @BasePath  /
func main() {
	version := general.VersionInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}

	flag.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"UNIANNO - unified annotation conversion and query service\n\nUsage:\n"+
				"\t%s [options] start [config.json]\n"+
				"\t%s [options] import [config.json] [language] [vertical file]...\n"+
				"\t%s [options] version\n",
			filepath.Base(os.Args[0]), filepath.Base(os.Args[0]), filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch flag.Arg(0) {
	case "version":
		fmt.Printf("unianno %s\nbuild date: %s\nlast commit: %s\n", version.Version, version.BuildDate, version.GitCommit)
	case "start":
		conf := loadConf(flag.Arg(1))
		log.Info().Msg("Starting UNIANNO")
		runServer(ctx, conf, version)
	case "import":
		if flag.NArg() < 4 {
			flag.Usage()
			os.Exit(1)
		}
		conf := loadConf(flag.Arg(1))
		importVerticals(ctx, conf, flag.Arg(2), flag.Args()[3:])
	default:
		log.Fatal().Msgf("Unknown action %s", flag.Arg(0))
	}
}

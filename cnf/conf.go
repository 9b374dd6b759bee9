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

package cnf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"unianno/document"
	"unianno/format/vert"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/vert-tagextract/v3/db"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	dfltListenAddress          = "127.0.0.1"
	dfltListenPort             = 8080
	dfltServerReadTimeoutSecs  = 10
	dfltServerWriteTimeoutSecs = 10
	dfltLanguage               = "en"
	dfltMaxDependentsDepth     = 1

	envFileName        = ".env"
	envListenAddress   = "UNIANNO_LISTEN_ADDRESS"
	envListenPort      = "UNIANNO_LISTEN_PORT"
	envDBPassword      = "UNIANNO_DB_PASSWORD"
	envDefaultLanguage = "UNIANNO_LANGUAGE"
)

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string              `json:"listenAddress"`
	ListenPort             int                 `json:"listenPort"`
	ServerReadTimeoutSecs  int                 `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                 `json:"serverWriteTimeoutSecs"`
	Logging                logging.LoggingConf `json:"logging"`

	// Language is used for documents which do not specify their language
	Language             string `json:"language"`
	MaxParallelSentences int    `json:"maxParallelSentences"`
	MaxDependentsDepth   int    `json:"maxDependentsDepth"`

	// DB configures a persistent document store (types "mysql"
	// and "sqlite" are supported). If omitted, documents
	// are kept in memory.
	DB *db.Conf `json:"db"`

	// Vertical configures the import of corpus vertical files
	Vertical *vert.Conf `json:"vertical"`

	srcPath string
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

// yamlToJSON converts YAML configuration to JSON so both
// formats share the same keys (as defined by the json tags).
func yamlToJSON(rawData []byte) ([]byte, error) {
	var tmp map[string]any
	if err := yaml.Unmarshal(rawData, &tmp); err != nil {
		return nil, err
	}
	return json.Marshal(tmp)
}

func parseConfig(path string, rawData []byte) (*Conf, error) {
	var err error
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		rawData, err = yamlToJSON(rawData)
		if err != nil {
			return nil, err
		}
	}
	var conf Conf
	conf.srcPath = path
	if err := json.Unmarshal(rawData, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// LoadConfig loads a JSON (or YAML, based on the file suffix)
// configuration file. Any problem is fatal.
func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	conf, err := parseConfig(path, rawData)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return conf
}

// ApplyEnvOverrides overrides selected configuration values by
// environment variables. A possible .env file located next to
// the configuration file is loaded first (without overwriting
// already set variables).
func ApplyEnvOverrides(conf *Conf) {
	envPath := filepath.Join(filepath.Dir(conf.GetSourcePath()), envFileName)
	if isFile, _ := fs.IsFile(envPath); isFile {
		if err := godotenv.Load(envPath); err != nil {
			log.Error().Err(err).Str("path", envPath).Msg("failed to load env file")

		} else {
			log.Info().Str("path", envPath).Msg("loaded env file")
		}
	}
	if v := os.Getenv(envListenAddress); v != "" {
		conf.ListenAddress = v
		log.Info().Msgf("listenAddress overridden by %s", envListenAddress)
	}
	if v := os.Getenv(envListenPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Error().Err(err).Msgf("ignoring invalid %s", envListenPort)

		} else {
			conf.ListenPort = port
			log.Info().Msgf("listenPort overridden by %s", envListenPort)
		}
	}
	if v := os.Getenv(envDefaultLanguage); v != "" {
		conf.Language = v
		log.Info().Msgf("language overridden by %s", envDefaultLanguage)
	}
	if v := os.Getenv(envDBPassword); v != "" && conf.DB != nil {
		conf.DB.Password = v
		log.Info().Msgf("db.password overridden by %s", envDBPassword)
	}
}

func ApplyDefaults(conf *Conf) {
	if conf.ListenAddress == "" {
		conf.ListenAddress = dfltListenAddress
		log.Warn().Msgf("listenAddress not specified, using default: %s", dfltListenAddress)
	}
	if conf.ListenPort == 0 {
		conf.ListenPort = dfltListenPort
		log.Warn().Msgf("listenPort not specified, using default: %d", dfltListenPort)
	}
	if conf.ServerReadTimeoutSecs == 0 {
		conf.ServerReadTimeoutSecs = dfltServerReadTimeoutSecs
		log.Warn().Msgf(
			"serverReadTimeoutSecs not specified, using default: %d",
			dfltServerReadTimeoutSecs,
		)
	}
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.Language == "" {
		conf.Language = dfltLanguage
		log.Warn().Msgf("language not specified, using default: %s", conf.Language)
	}
	if conf.MaxParallelSentences == 0 {
		conf.MaxParallelSentences = document.DefaultMaxParallel()
		log.Warn().Msgf(
			"maxParallelSentences not specified, using default: %d", conf.MaxParallelSentences)
	}
	if conf.MaxDependentsDepth == 0 {
		conf.MaxDependentsDepth = dfltMaxDependentsDepth
		log.Warn().Msgf("maxDependentsDepth not specified, using default: %d", dfltMaxDependentsDepth)
	}
	if conf.Vertical == nil {
		v := vert.DefaultConf()
		conf.Vertical = &v
		log.Warn().Msg("vertical not specified, using default column layout word, lemma, tag, head, deprel")
	}
}

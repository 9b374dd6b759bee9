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

package root

import (
	"os"

	"unianno/cnf"
	"unianno/general"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

type storeInfo struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type Actions struct {
	Version general.VersionInfo
	Conf    *cnf.Conf
}

func (a *Actions) storeInfo() storeInfo {
	if a.Conf.DB == nil {
		return storeInfo{Type: "memory"}
	}
	return storeInfo{Type: a.Conf.DB.Type, Name: a.Conf.DB.Name}
}

// RootAction godoc
// @Summary      RootAction is just an information action about the service
// @Produce      json
// @Success      200 {object} any
// @Router       / [get]
func (a *Actions) RootAction(ctx *gin.Context) {
	host, err := os.Hostname()
	if err != nil {
		host = "#failed_to_obtain"
	}
	ans := struct {
		Name            string              `json:"name"`
		Version         general.VersionInfo `json:"version"`
		Host            string              `json:"host"`
		ConfPath        string              `json:"confPath"`
		DefaultLanguage string              `json:"defaultLanguage"`
		DocumentStore   storeInfo           `json:"documentStore"`
	}{
		Name:            "UNIANNO - unified annotation conversion and query service",
		Version:         a.Version,
		Host:            host,
		ConfPath:        a.Conf.GetSourcePath(),
		DefaultLanguage: a.Conf.Language,
		DocumentStore:   a.storeInfo(),
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}


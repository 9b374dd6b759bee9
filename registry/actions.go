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

package registry

import (
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

type relationList struct {
	Universal []*Relation `json:"universal"`
	Cached    []*Relation `json:"cached"`
}

// Actions wraps relation registry related actions
type Actions struct {
	reg *Registry
}

// Relations godoc
// @Summary      Relations lists the universal relations and all the relations resolved so far
// @Produce      json
// @Success      200 {object} any
// @Router       /relations [get]
func (a *Actions) Relations(ctx *gin.Context) {
	uniresp.WriteJSONResponse(
		ctx.Writer,
		relationList{
			Universal: a.reg.Universal(),
			Cached:    a.reg.Cached(),
		},
	)
}

// Resolve godoc
// @Summary      Resolve resolves a single relation label for a language
// @Description  As the registry never fails, there is no error response here.
// @Produce      json
// @Param        lang path string true "Language"
// @Param        label path string true "Relation label"
// @Success      200 {object} Relation
// @Router       /relations/{lang}/{label} [get]
func (a *Actions) Resolve(ctx *gin.Context) {
	rel := a.reg.Resolve(ctx.Param("label"), ctx.Param("lang"))
	uniresp.WriteJSONResponse(ctx.Writer, rel)
}

// NewActions is the default factory for Actions
func NewActions(reg *Registry) *Actions {
	return &Actions{reg: reg}
}

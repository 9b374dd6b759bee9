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

package docstore

import (
	"context"
	"errors"
	"fmt"

	"unianno/document"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

const (
	// TableName is a name of the SQL table storing analyses
	TableName = "unianno_analysis"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Store persists document analyses
type Store interface {

	// Save stores the analysis and returns its ID. In case the analysis
	// has no ID yet, a new one is generated and set.
	Save(ctx context.Context, analysis *document.Analysis) (string, error)

	// Load returns a stored analysis or ErrNotFound
	Load(ctx context.Context, id string) (*document.Analysis, error)

	// Delete removes a stored analysis or returns ErrNotFound
	Delete(ctx context.Context, id string) error

	Close() error
}

func ensureID(analysis *document.Analysis) error {
	if analysis.ID != "" {
		return nil
	}
	id, err := uuid.NewUUID()
	if err != nil {
		return fmt.Errorf("failed to generate document ID: %w", err)
	}
	analysis.ID = id.String()
	return nil
}

func encodeAnalysis(analysis *document.Analysis) (string, error) {
	data, err := sonic.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis %s: %w", analysis.ID, err)
	}
	return string(data), nil
}

func decodeAnalysis(id, data string) (*document.Analysis, error) {
	var ans document.Analysis
	if err := sonic.Unmarshal([]byte(data), &ans); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	return &ans, nil
}

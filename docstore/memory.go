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

	"unianno/document"

	"github.com/czcorpus/cnc-gokit/collections"
)

// MemoryStore keeps analyses in memory. It is used when
// no database is configured.
type MemoryStore struct {
	data *collections.ConcurrentMap[string, *document.Analysis]
}

func (store *MemoryStore) Save(ctx context.Context, analysis *document.Analysis) (string, error) {
	if err := ensureID(analysis); err != nil {
		return "", err
	}
	store.data.Set(analysis.ID, analysis)
	return analysis.ID, nil
}

func (store *MemoryStore) Load(ctx context.Context, id string) (*document.Analysis, error) {
	ans, ok := store.data.GetWithTest(id)
	if !ok {
		return nil, ErrNotFound
	}
	return ans, nil
}

func (store *MemoryStore) Delete(ctx context.Context, id string) error {
	if !store.data.HasKey(id) {
		return ErrNotFound
	}
	store.data.Delete(id)
	return nil
}

func (store *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored analyses
func (store *MemoryStore) Len() int {
	return store.data.Len()
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: collections.NewConcurrentMap[string, *document.Analysis](),
	}
}

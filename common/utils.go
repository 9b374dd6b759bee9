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

package common

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Maybe represents an optional value. The zero value is an empty Maybe
// so optional struct fields need no explicit initialization.
type Maybe[T int | string | bool] struct {
	val     T
	present bool
}

func (m Maybe[T]) String() string {
	if m.present {
		return fmt.Sprintf("%v", m.val)
	}
	return ""
}

func (m Maybe[T]) Empty() bool {
	return !m.present
}

func (m Maybe[T]) Value() (T, bool) {
	return m.val, m.present
}

// ValueOr returns the contained value or dflt if the Maybe is empty
func (m Maybe[T]) ValueOr(dflt T) T {
	if m.present {
		return m.val
	}
	return dflt
}

// MarshalJSON encodes an empty Maybe as null
func (m Maybe[T]) MarshalJSON() ([]byte, error) {
	if !m.present {
		return []byte("null"), nil
	}
	return json.Marshal(m.val)
}

func (m *Maybe[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Maybe[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = NewMaybe(v)
	return nil
}

func NewMaybe[T int | string | bool](v T) Maybe[T] {
	return Maybe[T]{val: v, present: true}
}

func NewEmptyMaybe[T int | string | bool]() Maybe[T] {
	return Maybe[T]{}
}

// ----

func MapSlice[T any, U any](items []T, mapFn func(T, int) U) []U {
	ans := make([]U, len(items))
	for i, v := range items {
		ans[i] = mapFn(v, i)
	}
	return ans
}

func Min[T int | float64](items ...T) T {
	ans := items[0]
	for i := 1; i < len(items); i++ {
		if items[i] < ans {
			ans = items[i]
		}
	}
	return ans
}

// SortedKeys returns keys of a map in ascending order
func SortedKeys[K int | string, V any](m map[K]V) []K {
	ans := make([]K, 0, len(m))
	for k := range m {
		ans = append(ans, k)
	}
	sort.Slice(ans, func(i, j int) bool { return ans[i] < ans[j] })
	return ans
}

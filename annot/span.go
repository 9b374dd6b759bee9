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

package annot

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrInvalidSpan = errors.New("invalid span")
)

// VirtualRootSpan is the only empty span allowed. It marks
// the synthetic root of a dependency graph which has no text.
var VirtualRootSpan = Span{}

// InvalidSpanError describes a malformed character span.
// DocLen is -1 if the span was not checked against a document.
type InvalidSpanError struct {
	Begin  int
	End    int
	DocLen int
	Reason string
}

func (e *InvalidSpanError) Error() string {
	if e.DocLen >= 0 {
		return fmt.Sprintf(
			"invalid span [%d, %d) in document of length %d: %s", e.Begin, e.End, e.DocLen, e.Reason)
	}
	return fmt.Sprintf("invalid span [%d, %d): %s", e.Begin, e.End, e.Reason)
}

func (e *InvalidSpanError) Is(target error) bool {
	return target == ErrInvalidSpan
}

// Span is a half-open range [Begin, End) within a source document.
// The offsets are byte offsets into the Go string holding the text.
// Annotation engines reporting character offsets must be converted
// via CharOffsets first.
type Span struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// NewSpan creates a validated span. Negative, reversed
// and empty spans are rejected.
func NewSpan(begin, end int) (Span, error) {
	s := Span{Begin: begin, End: end}
	if err := s.Validate(); err != nil {
		return Span{}, err
	}
	return s, nil
}

// Validate checks the span's internal consistency.
func (s Span) Validate() error {
	if s.Begin < 0 {
		return &InvalidSpanError{Begin: s.Begin, End: s.End, DocLen: -1, Reason: "negative offset"}
	}
	if s.Begin > s.End {
		return &InvalidSpanError{Begin: s.Begin, End: s.End, DocLen: -1, Reason: "begin after end"}
	}
	if s.Begin == s.End {
		return &InvalidSpanError{Begin: s.Begin, End: s.End, DocLen: -1, Reason: "empty span"}
	}
	return nil
}

// Check validates the span and also tests that it fits
// into a document of docLen characters (bytes).
func (s Span) Check(docLen int) error {
	if err := s.Validate(); err != nil {
		err.(*InvalidSpanError).DocLen = docLen
		return err
	}
	if s.End > docLen {
		return &InvalidSpanError{Begin: s.Begin, End: s.End, DocLen: docLen, Reason: "outside document"}
	}
	return nil
}

func (s Span) Len() int {
	return s.End - s.Begin
}

func (s Span) IsVirtualRoot() bool {
	return s == VirtualRootSpan
}

// Contains tests whether other lies completely within s
func (s Span) Contains(other Span) bool {
	return s.Begin <= other.Begin && other.End <= s.End
}

// Union returns the smallest span covering both s and other
func (s Span) Union(other Span) Span {
	return Span{Begin: min(s.Begin, other.Begin), End: max(s.End, other.End)}
}

// Slice returns the text covered by the span. It fails
// with InvalidSpanError in case the span does not fit the text
// or one of its bounds splits a multibyte character.
func (s Span) Slice(text string) (string, error) {
	if err := s.Check(len(text)); err != nil {
		return "", err
	}
	if !isCharBoundary(text, s.Begin) || !isCharBoundary(text, s.End) {
		return "", &InvalidSpanError{
			Begin: s.Begin, End: s.End, DocLen: len(text), Reason: "splits a multibyte character"}
	}
	return text[s.Begin:s.End], nil
}

func isCharBoundary(text string, i int) bool {
	return i == len(text) || utf8.RuneStart(text[i])
}

// CharOffsets maps character offsets of a text to byte offsets.
// The last item refers to the end of the text.
type CharOffsets []int

// NumChars returns the number of characters of the mapped text
func (co CharOffsets) NumChars() int {
	return len(co) - 1
}

// ByteSpan converts a character span into a byte Span.
// Malformed spans and spans outside the text fail with
// InvalidSpanError (DocLen is in characters).
func (co CharOffsets) ByteSpan(begin, end int) (Span, error) {
	if _, err := NewSpan(begin, end); err != nil {
		err.(*InvalidSpanError).DocLen = co.NumChars()
		return Span{}, err
	}
	if end > co.NumChars() {
		return Span{}, &InvalidSpanError{
			Begin: begin, End: end, DocLen: co.NumChars(), Reason: "outside document"}
	}
	return Span{Begin: co[begin], End: co[end]}, nil
}

func NewCharOffsets(text string) CharOffsets {
	ans := make(CharOffsets, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		ans = append(ans, i)
	}
	return append(ans, len(text))
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Begin, s.End)
}

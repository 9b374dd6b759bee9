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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSpanRejectsMalformed(t *testing.T) {
	_, err := NewSpan(5, 3)
	assert.ErrorIs(t, err, ErrInvalidSpan)
	_, err = NewSpan(-1, 3)
	assert.ErrorIs(t, err, ErrInvalidSpan)
	_, err = NewSpan(2, 2)
	assert.ErrorIs(t, err, ErrInvalidSpan)

	s, err := NewSpan(0, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestSpanCheckDocumentBounds(t *testing.T) {
	err := Span{Begin: 2, End: 12}.Check(10)
	var spanErr *InvalidSpanError
	assert.True(t, errors.As(err, &spanErr))
	assert.Equal(t, 10, spanErr.DocLen)
	assert.NoError(t, Span{Begin: 2, End: 10}.Check(10))
}

func TestVirtualRootSpan(t *testing.T) {
	assert.True(t, VirtualRootSpan.IsVirtualRoot())
	assert.False(t, Span{Begin: 0, End: 1}.IsVirtualRoot())
}

func TestSpanUnionAndSlice(t *testing.T) {
	u := Span{Begin: 4, End: 7}.Union(Span{Begin: 0, End: 3})
	assert.Equal(t, Span{Begin: 0, End: 7}, u)
	txt, err := u.Slice("the dog barks")
	assert.NoError(t, err)
	assert.Equal(t, "the dog", txt)
	_, err = Span{Begin: 10, End: 20}.Slice("short")
	assert.ErrorIs(t, err, ErrInvalidSpan)
}

func TestSliceRejectsSplitCharacter(t *testing.T) {
	text := "Café au lait"
	_, err := Span{Begin: 3, End: 4}.Slice(text)
	assert.ErrorIs(t, err, ErrInvalidSpan)
	_, err = NewToken(text, Span{Begin: 3, End: 4}, 0, "", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidSpan)

	txt, err := Span{Begin: 3, End: 5}.Slice(text)
	assert.NoError(t, err)
	assert.Equal(t, "é", txt)
}

func TestCharOffsetsByteSpan(t *testing.T) {
	text := "Café au lait"
	co := NewCharOffsets(text)
	assert.Equal(t, 12, co.NumChars())

	span, err := co.ByteSpan(5, 7)
	assert.NoError(t, err)
	assert.Equal(t, Span{Begin: 6, End: 8}, span)
	tok, err := NewToken(text, span, 1, "", "", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "au", tok.Text)

	span, err = co.ByteSpan(8, 12)
	assert.NoError(t, err)
	assert.Equal(t, "lait", text[span.Begin:span.End])

	_, err = co.ByteSpan(8, 13)
	var spanErr *InvalidSpanError
	assert.True(t, errors.As(err, &spanErr))
	assert.Equal(t, 12, spanErr.DocLen)
	_, err = co.ByteSpan(4, 2)
	assert.ErrorIs(t, err, ErrInvalidSpan)
}

func TestNewTokenDefaults(t *testing.T) {
	tok, err := NewToken("Samsung is a company", Span{Begin: 0, End: 7}, 0, "", "NNP", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "Samsung", tok.Text)
	assert.Equal(t, "Samsung", tok.Form)
	assert.Equal(t, NEROutside, tok.NER)
	assert.True(t, tok.CorefClusterID.Empty())

	_, err = NewToken("abc", Span{Begin: 1, End: 8}, 0, "", "X", "", "")
	assert.ErrorIs(t, err, ErrInvalidSpan)
}

func TestAggregateNER(t *testing.T) {
	mk := func(labels ...string) []Token {
		ans := make([]Token, len(labels))
		for i, v := range labels {
			ans[i] = Token{NER: v}
		}
		return ans
	}
	assert.Equal(t, NEROutside, AggregateNER(mk("O", "O")))
	assert.Equal(t, NEROutside, AggregateNER(mk("", "O")))
	assert.Equal(t, "PERSON", AggregateNER(mk("O", "PERSON", "PERSON")))
	assert.Equal(t, "LOCATION,PERSON", AggregateNER(mk("PERSON", "O", "LOCATION")))
	assert.Equal(t, NEROutside, AggregateNER(nil))
}

func TestChunkString(t *testing.T) {
	ans, err := ChunkString(
		[]string{"The", "dog", "barks", "."},
		[]string{"DT", "NN", "VBZ", "."},
		[]string{"B-NP", "I-NP", "B-VP", "O"},
	)
	assert.NoError(t, err)
	assert.Equal(t, "<NP The/DT dog/NN> <VP barks/VBZ> ./.", ans)

	ans, err = ChunkString(
		[]string{"Yes", "he", "did"},
		[]string{"UH", "PRP", "VBD"},
		[]string{"O", "B-NP", "B-VP"},
	)
	assert.NoError(t, err)
	assert.Equal(t, "Yes/UH <NP he/PRP> <VP did/VBD>", ans)
}

func TestChunkStringSizeMismatch(t *testing.T) {
	_, err := ChunkString([]string{"a"}, []string{"DT", "NN"}, []string{"O"})
	assert.Error(t, err)
}

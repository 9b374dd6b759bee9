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
	"fmt"
	"strings"
)

const (
	chunkBegin   = "B-"
	chunkInside  = "I-"
	chunkOutside = "O"
)

// ChunkString renders BIO-encoded chunks as a bracketed string, e.g.:
// <NP The/DT dog/NN> <VP barks/VBZ> ./.
func ChunkString(words, tags, chunks []string) (string, error) {
	if len(words) != len(tags) || len(words) != len(chunks) {
		return "", fmt.Errorf(
			"chunk rendering requires equal sizes (words: %d, tags: %d, chunks: %d)",
			len(words), len(tags), len(chunks),
		)
	}
	if len(chunks) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for i := range chunks {
		if i > 0 && !strings.HasPrefix(chunks[i], chunkInside) && chunks[i-1] != chunkOutside {
			sb.WriteString(">")
		}
		if strings.HasPrefix(chunks[i], chunkBegin) {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("<" + chunks[i][len(chunkBegin):])
		}
		if i > 0 || strings.HasPrefix(chunks[i], chunkBegin) {
			sb.WriteString(" ")
		}
		sb.WriteString(words[i] + "/" + tags[i])
	}
	if chunks[len(chunks)-1] != chunkOutside {
		sb.WriteString(">")
	}
	return sb.String(), nil
}

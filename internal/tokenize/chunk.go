package tokenize

import "regexp"

// ChunkKind classifies a Chunk.
type ChunkKind int

const (
	ChunkWord ChunkKind = iota
	ChunkSpace
	ChunkPunct
)

func (k ChunkKind) String() string {
	switch k {
	case ChunkWord:
		return "word"
	case ChunkSpace:
		return "space"
	case ChunkPunct:
		return "punct"
	default:
		return "unknown"
	}
}

// Chunk is one piece of a sentence. Concatenating the Text of all chunks
// returned by Chunks reconstructs the input.
type Chunk struct {
	Text  string
	Start int
	End   int
	Kind  ChunkKind
}

// Word chunks may carry inner apostrophes or hyphens ("don't", "well-known").
var chunkPattern = regexp.MustCompile(`([\p{L}\p{M}\p{N}]+(?:['’\-][\p{L}\p{M}\p{N}]+)*)|(\s+)|([^\p{L}\p{M}\p{N}\s]+)`)

// Chunks splits text into word, whitespace and punctuation chunks in a
// single pass.
func Chunks(text string) []Chunk {
	matches := chunkPattern.FindAllStringSubmatchIndex(text, -1)
	chunks := make([]Chunk, 0, len(matches))
	for _, m := range matches {
		kind := ChunkPunct
		switch {
		case m[2] >= 0:
			kind = ChunkWord
		case m[4] >= 0:
			kind = ChunkSpace
		}
		chunks = append(chunks, Chunk{
			Text:  text[m[0]:m[1]],
			Start: m[0],
			End:   m[1],
			Kind:  kind,
		})
	}
	return chunks
}

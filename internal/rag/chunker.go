// Package rag builds and queries the similarity index over the user's fact
// store. Documents are chunked, embedded, and persisted as a JSON index
// that is small enough to scan in memory at query time.
package rag

import (
	"strings"
)

// Chunker splits document text into overlapping chunks sized for embedding.
type Chunker struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int
	// Overlap is how many characters of the previous chunk are carried into
	// the next one so sentences spanning a boundary stay retrievable.
	Overlap int
}

// NewChunker creates a Chunker. Non-positive sizes fall back to defaults,
// and Overlap is clamped below ChunkSize.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Chunker{ChunkSize: chunkSize, Overlap: overlap}
}

// Chunk splits text into chunks of roughly ChunkSize characters. Paragraph
// boundaries are preferred; a paragraph longer than ChunkSize is split on
// sentence boundaries, then hard-split as a last resort.
func (c *Chunker) Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.ChunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		if c.Overlap > 0 && len(chunk) > c.Overlap {
			current.WriteString(chunk[len(chunk)-c.Overlap:])
			current.WriteString("\n")
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		for _, piece := range splitLong(para, c.ChunkSize) {
			if current.Len() > 0 && current.Len()+len(piece)+1 > c.ChunkSize {
				flush()
			}
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(piece)
		}
	}

	if chunk := strings.TrimSpace(current.String()); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitLong breaks a paragraph exceeding maxLen on sentence boundaries,
// hard-splitting any single sentence still over the limit.
func splitLong(para string, maxLen int) []string {
	if len(para) <= maxLen {
		return []string{para}
	}

	var pieces []string
	var current strings.Builder
	for _, sentence := range splitSentences(para) {
		for len(sentence) > maxLen {
			pieces = append(pieces, sentence[:maxLen])
			sentence = sentence[maxLen:]
		}
		if current.Len() > 0 && current.Len()+len(sentence)+1 > maxLen {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '.' || text[i] == '!' || text[i] == '?' {
			// keep sentence-final punctuation with the sentence
			end := i + 1
			s := strings.TrimSpace(text[start:end])
			if s != "" {
				out = append(out, s)
			}
			start = end
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

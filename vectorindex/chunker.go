package vectorindex

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many trailing characters carry over into
	// the next chunk so sentences split at a boundary stay searchable.
	DefaultChunkOverlap = 200
)

// Chunk is one indexable slice of a source document plus the temporal
// metadata mined from its text.
type Chunk struct {
	Source  string
	Ordinal int
	Text    string

	// Quarter is "Q1".."Q4" when the text mentions one, otherwise empty.
	Quarter string
	// Year is the first plausible year mentioned, 0 when absent.
	Year int
}

var (
	quarterRe = regexp.MustCompile(`\b[Qq]([1-4])\b`)
	docYearRe = regexp.MustCompile(`\b(19[5-9][0-9]|20[0-4][0-9])\b`)
)

// SplitDocument cuts text into overlapping chunks and tags each with the
// quarter and year found in its own slice. Zero or negative size/overlap
// fall back to the defaults; overlap is clamped below size.
func SplitDocument(source, text string, size, overlap int) []Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []Chunk
	runes := []rune(text)
	step := size - overlap

	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		} else {
			// Snap the cut back to the last whitespace so words stay whole.
			cut := end
			for cut > start && !isSpace(runes[cut-1]) {
				cut--
			}
			if cut > start {
				end = cut
			}
		}

		slice := strings.TrimSpace(string(runes[start:end]))
		if slice == "" {
			continue
		}

		chunks = append(chunks, Chunk{
			Source:  source,
			Ordinal: len(chunks),
			Text:    slice,
			Quarter: extractQuarter(slice),
			Year:    extractYear(slice),
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}

func extractQuarter(text string) string {
	m := quarterRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return "Q" + m[1]
}

func extractYear(text string) int {
	m := docYearRe.FindString(text)
	if m == "" {
		return 0
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return year
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

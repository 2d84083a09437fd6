package domain

// DefaultChunkSize and DefaultChunkOverlap control how résumé text is windowed
// before embedding.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Chunk is one indexed window of a résumé's text, tagged with the owning
// record so search hits can be aggregated per candidate.
type Chunk struct {
	UploadID string
	FileName string
	Content  string
	Vector   []float32
}

// SplitText windows text into overlapping rune slices of at most size runes,
// stepping by size-overlap. Empty or whitespace-only windows are dropped.
// size must be positive; overlap is clamped to size-1.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		piece := string(runes[start:end])
		if !isBlank(piece) {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

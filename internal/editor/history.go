package editor

// DefaultHistorySize is how many lines a history keeps by default.
const DefaultHistorySize = 100

// History is a bounded log of accepted input lines, oldest first.
// Once it holds limit lines, further lines are not recorded.
type History struct {
	lines []string
	limit int
}

// NewHistory creates an empty history holding at most limit lines.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{limit: limit}
}

// Add records line and reports whether it was kept.
func (h *History) Add(line string) bool {
	if len(h.lines) >= h.limit {
		return false
	}
	h.lines = append(h.lines, line)
	return true
}

// Len returns the number of recorded lines
func (h *History) Len() int { return len(h.lines) }

// Limit returns the capacity
func (h *History) Limit() int { return h.limit }

// At returns the line at index i, 0 being the oldest.
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.lines) {
		return "", false
	}
	return h.lines[i], true
}

// Lines returns a copy of the recorded lines
func (h *History) Lines() []string {
	return append([]string(nil), h.lines...)
}

// Clear drops every line.
func (h *History) Clear() {
	h.lines = nil
}

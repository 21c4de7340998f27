package tui

// History keeps the most recent samples of one system metric, up to a
// fixed window size. The zero value is not usable; call NewHistory.
type History struct {
	buf  []float64
	next int
	full bool
}

// NewHistory returns a window holding at most size samples. Sizes below one
// are raised to one.
func NewHistory(size int) *History {
	return &History{buf: make([]float64, max(size, 1))}
}

// Push records a sample, dropping the oldest once the window is full.
func (h *History) Push(v float64) {
	h.buf[h.next] = v
	h.next++
	if h.next == len(h.buf) {
		h.next, h.full = 0, true
	}
}

// Len is the number of samples held.
func (h *History) Len() int {
	if h.full {
		return len(h.buf)
	}
	return h.next
}

// Cap is the window size.
func (h *History) Cap() int { return len(h.buf) }

// Last returns the newest sample, or 0 when empty.
func (h *History) Last() float64 {
	if h.Len() == 0 {
		return 0
	}
	return h.buf[(h.next+len(h.buf)-1)%len(h.buf)]
}

// Peak returns the largest sample held, or 0 when empty.
func (h *History) Peak() float64 {
	var peak float64
	for _, v := range h.Values() {
		peak = max(peak, v)
	}
	return peak
}

// Values returns the samples oldest first.
func (h *History) Values() []float64 {
	if !h.full {
		return append([]float64(nil), h.buf[:h.next]...)
	}
	out := make([]float64, 0, len(h.buf))
	out = append(out, h.buf[h.next:]...)
	return append(out, h.buf[:h.next]...)
}

// Resize changes the window size, keeping the newest samples that still fit.
func (h *History) Resize(size int) {
	size = max(size, 1)
	if size == len(h.buf) {
		return
	}
	values := h.Values()
	if len(values) > size {
		values = values[len(values)-size:]
	}
	h.buf = make([]float64, size)
	h.next, h.full = 0, false
	for _, v := range values {
		h.Push(v)
	}
}

// Reset drops every sample.
func (h *History) Reset() {
	h.next, h.full = 0, false
}

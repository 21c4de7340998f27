package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressState tracks the completion fraction of a fixed number of
// operations and their average.
type ProgressState struct {
	mu            sync.Mutex
	progresses    []float64
	numOperations int
}

// NewProgressState creates a state for numOperations operations.
func NewProgressState(numOperations int) *ProgressState {
	if numOperations < 0 {
		numOperations = 0
	}
	return &ProgressState{
		progresses:    make([]float64, numOperations),
		numOperations: numOperations,
	}
}

// Update records the progress of operation index, clamped to [0, 1].
// Out-of-range indexes are ignored.
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= p.numOperations {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progresses[index] = min(max(value, 0), 1)
}

// CalculateAverage returns the mean progress over all operations.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numOperations == 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	var sum float64
	for _, v := range p.progresses {
		sum += v
	}
	return sum / float64(p.numOperations)
}

// maxETA caps estimates so that a stalled run does not print absurd values.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest sample in the progress rate.
const etaSmoothing = 0.3

// ProgressWithETA extends ProgressState with an estimate of the remaining
// time, derived from an exponentially smoothed progress rate.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA creates a tracker for numOperations operations.
func NewProgressWithETA(numOperations int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numOperations),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a progress value and returns the new average and
// remaining-time estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the current estimate of the remaining time, or 0 when
// there is not enough data yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	return min(eta, maxETA)
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration { return time.Since(p.startTime) }

// FormatETA renders an estimate compactly ("45s", "2m30s", "1h15m").
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// ProgressBar renders a bar of the given length for a fraction in [0, 1].
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 50.0% ETA: 30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}

// FormatNumberString inserts thousands separators into a decimal string.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var sb strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		sb.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sign + sb.String()
}

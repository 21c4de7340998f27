package tui

import "strings"

// sparkLevels are the eight block heights, lowest first.
const sparkLevels = "▁▂▃▄▅▆▇█"

// RenderSparkline draws one block per percentage in values. Values outside
// 0..100 are clamped.
func RenderSparkline(values []float64) string {
	levels := []rune(sparkLevels)
	top := len(levels) - 1
	var b strings.Builder
	for _, v := range values {
		pct := min(max(v, 0), 100)
		b.WriteRune(levels[min(int(pct/100*float64(top)), top)])
	}
	return b.String()
}

// RenderScaledSparkline draws values as percentages of ceiling, so counts
// such as OS threads fit the same scale as CPU and memory. A ceiling of zero
// or less draws every value at the floor.
func RenderScaledSparkline(values []float64, ceiling float64) string {
	pcts := make([]float64, len(values))
	if ceiling > 0 {
		for i, v := range values {
			pcts[i] = v * 100 / ceiling
		}
	}
	return RenderSparkline(pcts)
}

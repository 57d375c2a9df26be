package progress

import "math"

// sampler thins non-interactive progress to one log line per step.
type sampler struct {
	step float64
	last int
}

func newSampler(step float64) *sampler {
	if step <= 0 {
		step = 10
	}
	return &sampler{step: step, last: -1}
}

// due reports whether percent has entered a step that has not been logged.
// The first report is always due, and so is 100.
func (s *sampler) due(percent float64) bool {
	bucket := int(math.Min(math.Max(percent, 0), 100) / s.step)
	if bucket <= s.last {
		return false
	}
	s.last = bucket
	return true
}

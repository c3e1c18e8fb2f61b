package classifier

import (
	"fmt"
	"math"
	"sort"

	"plantid/pkg/types"
)

// Activation is applied to raw model output before argmax.
type Activation string

const (
	ActivationNone    Activation = "none"
	ActivationSoftmax Activation = "softmax"
)

// ParseActivation accepts "", "none" or "softmax".
func ParseActivation(s string) (Activation, error) {
	switch Activation(s) {
	case "", ActivationNone:
		return ActivationNone, nil
	case ActivationSoftmax:
		return ActivationSoftmax, nil
	default:
		return "", fmt.Errorf("unknown activation %q", s)
	}
}

func (a Activation) apply(out []float32) []float64 {
	s := make([]float64, len(out))
	for i, v := range out {
		s[i] = float64(v)
	}
	if a != ActivationSoftmax || len(s) == 0 {
		return s
	}
	// NaN entries stay NaN and take no share of the distribution.
	m := math.NaN()
	for _, v := range s {
		if !math.IsNaN(v) && (math.IsNaN(m) || v > m) {
			m = v
		}
	}
	if math.IsNaN(m) {
		return s
	}
	var sum float64
	for i, v := range s {
		if math.IsNaN(v) {
			continue
		}
		s[i] = math.Exp(v - m)
		sum += s[i]
	}
	for i, v := range s {
		if !math.IsNaN(v) {
			s[i] = v / sum
		}
	}
	return s
}

// argmax returns the first index of the maximum score. NaN never wins.
func argmax(s []float64) (int, float64) {
	best, bestV := -1, math.Inf(-1)
	for i, v := range s {
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > bestV {
			best, bestV = i, v
		}
	}
	return best, bestV
}

// TopK returns up to k labels with the highest scores, best first.
// Ties keep label order. Scores beyond the label list are ignored.
func TopK(scores []float64, labels []string, k int) []types.ScoredLabel {
	n := len(scores)
	if len(labels) < n {
		n = len(labels)
	}
	out := make([]types.ScoredLabel, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.ScoredLabel{Label: labels[i], Index: i, Score: scores[i]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

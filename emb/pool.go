package emb

import "math"

// MeanPool averages token vectors of a [seq x dim] row-major buffer, counting
// only positions whose mask is non-zero.
func MeanPool(hidden []float32, mask []int64, seq, dim int) []float32 {
	out := make([]float32, dim)
	if dim <= 0 || len(hidden) < seq*dim {
		return out
	}
	var count float32
	for t := 0; t < seq; t++ {
		if t < len(mask) && mask[t] == 0 {
			continue
		}
		row := hidden[t*dim : (t+1)*dim]
		for i, v := range row {
			out[i] += v
		}
		count++
	}
	if count == 0 {
		return out
	}
	for i := range out {
		out[i] /= count
	}
	return out
}

// Normalize scales vec to unit length in place. Zero vectors are left alone.
func Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}

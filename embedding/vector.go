package embedding

import "math"

// cosineEpsilon guards the denominator against zero-norm vectors.
const cosineEpsilon = 1e-12

// CosineSimilarity computes cosine similarity between two vectors:
// dot(a,b) / (||a||*||b|| + ε). Mismatched lengths score 0; zero
// vectors score ~0 instead of dividing by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + cosineEpsilon)
}

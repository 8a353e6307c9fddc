package router

// Gate converts a raw nearest-neighbor distance into a binary usability
// verdict against a threshold. Distance and threshold must be in the same
// metric space; the gate applies no normalization.
type Gate struct{}

// Evaluate reports whether the document content is usable for answering.
// The comparison is inclusive: a distance exactly at the threshold passes.
func (Gate) Evaluate(distance, threshold float64) bool {
	return distance <= threshold
}

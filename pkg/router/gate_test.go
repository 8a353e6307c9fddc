package router

import "testing"

func TestGateEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		threshold float64
		want      bool
	}{
		{"well below threshold", 0.1, 0.3, true},
		{"exactly at threshold", 0.3, 0.3, true},
		{"just above threshold", 0.30001, 0.3, false},
		{"far above threshold", 0.9, 0.3, false},
		{"zero distance", 0.0, 0.3, true},
		{"zero threshold zero distance", 0.0, 0.0, true},
		{"zero threshold positive distance", 0.01, 0.0, false},
	}

	var gate Gate
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Evaluate(tt.distance, tt.threshold); got != tt.want {
				t.Errorf("Evaluate(%v, %v) = %v, want %v", tt.distance, tt.threshold, got, tt.want)
			}
		})
	}
}

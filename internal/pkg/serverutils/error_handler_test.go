package serverutils

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"quota exceeded", errors.New("google: quota exceeded for project"), true},
		{"rate limit", errors.New("Rate Limit reached, retry later"), true},
		{"resource exhausted", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"http 429", fmt.Errorf("openai error: status 429, body: too many requests"), true},
		{"wrapped quota", fmt.Errorf("generate answer: %w", errors.New("quota exhausted")), true},
		{"plain failure", errors.New("connection refused"), false},
		{"not found", errors.New("record not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

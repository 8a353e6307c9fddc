package router

import "testing"

func newTestPolicy() *Policy {
	return NewPolicy(NewLexiconDetector(), 0.8, 0.7)
}

func TestPolicyDecide(t *testing.T) {
	tests := []struct {
		name         string
		gatePassed   bool
		distance     float64
		question     string
		webEnabled   bool
		wantFallback bool
		wantReason   string
	}{
		{
			name:       "web search disabled suppresses fallback",
			gatePassed: false, distance: 0.9, question: "what is the latest news", webEnabled: false,
			wantFallback: false, wantReason: "",
		},
		{
			name:       "web search disabled with passing gate",
			gatePassed: true, distance: 0.2, question: "summarize the document", webEnabled: false,
			wantFallback: false, wantReason: "",
		},
		{
			name:       "recency token below cutoff triggers fallback",
			gatePassed: false, distance: 0.5, question: "today", webEnabled: true,
			wantFallback: true, wantReason: ReasonRecentInfo,
		},
		{
			name:       "recency token with passing gate still triggers fallback",
			gatePassed: true, distance: 0.25, question: "what are the latest figures", webEnabled: true,
			wantFallback: true, wantReason: ReasonRecentInfo,
		},
		{
			name:       "recency token above cutoff is off-topic",
			gatePassed: false, distance: 0.85, question: "current weather", webEnabled: true,
			wantFallback: false, wantReason: ReasonNotRelevant,
		},
		{
			name:       "no recency token and high distance is off-topic",
			gatePassed: false, distance: 0.9, question: "weather", webEnabled: true,
			wantFallback: false, wantReason: ReasonNotRelevant,
		},
		{
			name:       "gate failed with moderate distance falls back",
			gatePassed: false, distance: 0.5, question: "who wrote chapter two", webEnabled: true,
			wantFallback: true, wantReason: ReasonBelowThreshold,
		},
		{
			name:       "gate passed low distance still attempts web search",
			gatePassed: true, distance: 0.2, question: "summarize the document", webEnabled: true,
			wantFallback: true, wantReason: ReasonLowSimilarity,
		},
		{
			name:       "year token counts as recency",
			gatePassed: true, distance: 0.4, question: "what happened in 2025", webEnabled: true,
			wantFallback: true, wantReason: ReasonRecentInfo,
		},
	}

	policy := newTestPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Decide(tt.gatePassed, tt.distance, tt.question, tt.webEnabled)

			if got.UseWebFallback != tt.wantFallback {
				t.Errorf("UseWebFallback = %v, want %v", got.UseWebFallback, tt.wantFallback)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.GatePassed != tt.gatePassed {
				t.Errorf("GatePassed = %v, want %v", got.GatePassed, tt.gatePassed)
			}
		})
	}
}

func TestDecisionShortCircuit(t *testing.T) {
	policy := newTestPolicy()

	// Gate failed, off-topic question, web enabled: must short-circuit before
	// any retrieval work happens.
	d := policy.Decide(false, 0.9, "weather", true)
	if !d.ShortCircuit() {
		t.Error("expected short-circuit for failed gate without fallback")
	}

	// Gate failed but fallback selected: no short-circuit.
	d = policy.Decide(false, 0.5, "who wrote chapter two", true)
	if d.ShortCircuit() {
		t.Error("did not expect short-circuit when fallback is selected")
	}

	// Gate passed: never short-circuits.
	d = policy.Decide(true, 0.2, "summarize", false)
	if d.ShortCircuit() {
		t.Error("did not expect short-circuit for passing gate")
	}

	// Web disabled and gate failed: short-circuit with empty reason.
	d = policy.Decide(false, 0.6, "summarize", false)
	if !d.ShortCircuit() {
		t.Error("expected short-circuit when web search is disabled and gate failed")
	}
	if d.Reason != "" {
		t.Errorf("Reason = %q, want empty", d.Reason)
	}
}

func TestLexiconDetector(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"What are the LATEST developments?", true},
		{"news about the merger", true},
		{"what happened this week", true},
		{"revenue figures for 2024", true},
		{"summarize the second chapter", false},
		{"who is the author", false},
		{"", false},
	}

	detector := NewLexiconDetector()
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := detector.Detect(tt.question); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.question, got, tt.want)
			}
		})
	}
}

package router

// Human-readable justifications attached to routing decisions.
const (
	ReasonBelowThreshold = "document similarity below threshold"
	ReasonRecentInfo     = "question asks for current/recent information"
	ReasonNotRelevant    = "question not relevant to document content"
	ReasonLowSimilarity  = "document similarity low, attempting web search"
)

// Decision is the outcome of the fallback policy for a single query.
type Decision struct {
	GatePassed     bool
	UseWebFallback bool
	Reason         string
}

// ShortCircuit reports whether the request should return immediately with a
// "no relevant information" answer, skipping all downstream retrieval work.
func (d Decision) ShortCircuit() bool {
	return !d.GatePassed && !d.UseWebFallback
}

// Policy decides whether to augment a document answer with a web search.
// It trades off answering wrongly from a weakly-matching document against
// paying for an unnecessary external lookup, using the recency detector as
// a cheap proxy for "could the document ever answer this".
type Policy struct {
	detector RecencyDetector

	// recencyCutoff is the distance above which even a time-sensitive
	// question is considered off-topic for the document.
	recencyCutoff float64

	// relevanceCutoff is the distance above which a non-time-sensitive
	// question is considered off-topic, suppressing the web fallback.
	relevanceCutoff float64
}

func NewPolicy(detector RecencyDetector, recencyCutoff, relevanceCutoff float64) *Policy {
	return &Policy{
		detector:        detector,
		recencyCutoff:   recencyCutoff,
		relevanceCutoff: relevanceCutoff,
	}
}

// Decide produces the routing decision for one query. When web search is
// disabled the fallback is always off and the reason stays empty.
func (p *Policy) Decide(gatePassed bool, distance float64, question string, webSearchEnabled bool) Decision {
	if !webSearchEnabled {
		return Decision{GatePassed: gatePassed}
	}

	if p.detector.Detect(question) {
		if distance < p.recencyCutoff {
			return Decision{GatePassed: gatePassed, UseWebFallback: true, Reason: ReasonRecentInfo}
		}
		return Decision{GatePassed: gatePassed, Reason: ReasonNotRelevant}
	}

	if distance > p.relevanceCutoff {
		return Decision{GatePassed: gatePassed, Reason: ReasonNotRelevant}
	}

	if !gatePassed {
		return Decision{GatePassed: false, UseWebFallback: true, Reason: ReasonBelowThreshold}
	}

	return Decision{GatePassed: true, UseWebFallback: true, Reason: ReasonLowSimilarity}
}

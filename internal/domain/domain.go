package domain

import "time"

// Mode selects how a summarization request is fulfilled.
type Mode string

const (
	// ModeRouted forwards the request to a hosted model-serving endpoint.
	ModeRouted Mode = "routed"
	// ModeDirect invokes the language model with a variant-specific prompt.
	ModeDirect Mode = "direct"
)

// Group is an experiment arm a user is bucketed into.
type Group int

const (
	GroupA Group = 0
	GroupB Group = 1
)

type SummarizationRequest struct {
	ClientRequestID string
	Lines           []string
}

type SummarizationResult struct {
	ClientRequestID string
	Summary         string
	Group           Group
}

type Feedback struct {
	ClientRequestID string
	UserID          string
	Rate            int
	Comment         string
	Timestamp       time.Time
}

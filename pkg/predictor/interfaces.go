package predictor

import (
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
)

// Converter is the full conversion engine with rewriters applied. Used to
// obtain the top realtime candidate so prediction agrees with what the
// space key would produce.
type Converter interface {
	StartConversionForRequest(req *request.ConversionRequest, segs *segments.Segments) bool
}

// ImmutableConverter is the lattice converter without learning or
// rewriting; it writes candidates into the first conversion segment.
type ImmutableConverter interface {
	ConvertForRequest(req *request.ConversionRequest, segs *segments.Segments) bool
}

// Connector provides transition costs between adjoining right/left
// connection ids.
type Connector interface {
	TransitionCost(rid, lid int) int
}

// Segmenter provides the per-POS penalty for ending a phrase.
type Segmenter interface {
	SuffixPenalty(rid int) int
}

// POSMatcher exposes the part-of-speech id constants the predictor needs.
type POSMatcher interface {
	CounterSuffixWordID() int
}

// SuggestionFilter screens values that must not be volunteered as
// suggestions.
type SuggestionFilter interface {
	IsBadSuggestion(value string) bool
}

// StatsRecorder is the write-only usage-statistics sink. Implementations
// must allow concurrent increments.
type StatsRecorder interface {
	IncrementCount(name string)
}

// NopStats discards all counts.
type NopStats struct{}

// IncrementCount implements StatsRecorder.
func (NopStats) IncrementCount(string) {}

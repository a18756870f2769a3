/*
Package predictor implements the dictionary-based prediction engine of the
conversion pipeline.

Given the in-progress reading and the committed history, it aggregates
candidates from six sources (realtime conversion, unigram, bigram, suffix
including zero-query tables, English, and typing correction), assigns a
language-model derived cost to each, filters, and appends the ranked top-N
to the conversion segment.

A Predictor borrows all of its collaborators and keeps no mutable state of
its own, so one instance may serve concurrent requests as long as the
collaborators are re-entrant.
*/
package predictor

import (
	"github.com/charmbracelet/log"

	"github.com/kbc-developers/yosoku/internal/japanese"
	"github.com/kbc-developers/yosoku/pkg/dictionary"
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
	"github.com/kbc-developers/yosoku/pkg/zeroquery"
)

const (
	// costInfinity is a pseudo-infinite cost for candidates that must never
	// be emitted. Deliberately far below the int maximum so that later
	// penalty additions cannot overflow back into the visible range.
	costInfinity = 2 << 20

	// Cutoff thresholds per request type. PREDICTION is much slower than
	// SUGGESTION, so the number of prediction calls should be minimized by
	// the caller.
	suggestionCutoff = 256
	predictionCutoff = 100000

	// maxRealtimeKeyBytes disables realtime conversion on very long keys.
	maxRealtimeKeyBytes = 300

	// realtimeTopCostMargin is subtracted from the cheapest same-length
	// realtime cost to keep the actual-converter top result dominant.
	realtimeTopCostMargin = 10
)

// Options toggles features that are still gated while they stabilize.
type Options struct {
	// EnableExpansion turns on ambiguity expansion through the composer.
	EnableExpansion bool
	// ForceMixedConversion enables mixed conversion regardless of the
	// client request.
	ForceMixedConversion bool
	// ForceTypingCorrection enables typing correction regardless of the
	// user config.
	ForceTypingCorrection bool
	// Debug appends type mnemonics to candidate descriptions.
	Debug bool
}

// Predictor aggregates and ranks prediction candidates.
type Predictor struct {
	converter          Converter
	immutableConverter ImmutableConverter
	dictionary         dictionary.Interface
	suffixDictionary   dictionary.Interface
	connector          Connector
	segmenter          Segmenter
	suggestionFilter   SuggestionFilter
	stats              StatsRecorder

	numberZeroQuery  *zeroquery.Table
	generalZeroQuery *zeroquery.Table

	counterSuffixWordID int
	opts                Options
}

// New wires a predictor from its collaborators. All references are
// borrowed. A nil stats recorder falls back to NopStats.
func New(
	converter Converter,
	immutableConverter ImmutableConverter,
	dict, suffixDict dictionary.Interface,
	connector Connector,
	segmenter Segmenter,
	posMatcher POSMatcher,
	suggestionFilter SuggestionFilter,
	stats StatsRecorder,
	opts Options,
) *Predictor {
	if stats == nil {
		stats = NopStats{}
	}
	return &Predictor{
		converter:           converter,
		immutableConverter:  immutableConverter,
		dictionary:          dict,
		suffixDictionary:    suffixDict,
		connector:           connector,
		segmenter:           segmenter,
		suggestionFilter:    suggestionFilter,
		stats:               stats,
		numberZeroQuery:     zeroquery.NumberTable(),
		generalZeroQuery:    zeroquery.GeneralTable(),
		counterSuffixWordID: posMatcher.CounterSuffixWordID(),
		opts:                opts,
	}
}

// PredictForRequest runs the full pipeline and appends ranked candidates
// to the first conversion segment. It reports whether at least one
// candidate was emitted. All failure modes are soft; it never panics out.
func (p *Predictor) PredictForRequest(req *request.ConversionRequest, segs *segments.Segments) bool {
	if segs == nil {
		return false
	}

	results := p.aggregatePrediction(req, segs)
	if len(results) == 0 {
		return false
	}

	p.setCost(req, segs, results)
	p.removePrediction(req, segs, results)

	return p.addPredictionToCandidates(req, segs, results)
}

func (p *Predictor) aggregatePrediction(req *request.ConversionRequest, segs *segments.Segments) []result {
	types := p.predictionTypesFor(req, segs)
	if types == noPrediction {
		return nil
	}

	var results []result
	if segs.RequestType() == segments.PartialSuggestion ||
		segs.RequestType() == segments.PartialPrediction {
		// Partial requests ask for conversion of the text before the
		// cursor, so only candidates whose key exactly matches the query
		// are useful. Realtime conversion is the only source of those.
		results = p.aggregateRealtimeConversion(types, req, segs, results)
	} else {
		results = p.aggregateRealtimeConversion(types, req, segs, results)
		results = p.aggregateUnigramPrediction(types, req, segs, results)
		results = p.aggregateBigramPrediction(types, req, segs, results)
		results = p.aggregateSuffixPrediction(types, req, segs, results)
		results = p.aggregateEnglishPrediction(types, req, segs, results)
		results = p.aggregateTypeCorrectingPrediction(types, req, segs, results)
	}

	if len(results) == 0 {
		log.Debug("aggregation produced no results")
	}
	return results
}

func (p *Predictor) setCost(req *request.ConversionRequest, segs *segments.Segments, results []result) {
	if isMixedConversionEnabled(req, p.opts) {
		p.setLMCost(segs, results)
	} else {
		p.setPredictionCost(segs, results)
	}
	p.applyPenaltyForKeyExpansion(segs, results)
}

func (p *Predictor) removePrediction(req *request.ConversionRequest, segs *segments.Segments, results []result) {
	if isMixedConversionEnabled(req, p.opts) {
		// Spelling correction entries are absent from the mobile
		// dictionary, so the miss-spelled pass only runs on desktop.
		return
	}
	inputKeyLen := japanese.CharsLen(segs.ConversionSegment(0).Key())
	p.removeMissSpelledCandidates(inputKeyLen, results)
}

// Finish records which zero-query category was committed, if any. The
// committed candidate is conversion segment 0's top candidate.
func (p *Predictor) Finish(req *request.ConversionRequest, segs *segments.Segments) {
	if segs.RequestType() == segments.ReverseConversion {
		return
	}
	if segs.ConversionSegmentsSize() == 0 {
		return
	}
	seg := segs.ConversionSegment(0)
	if seg.CandidatesSize() < 1 {
		return
	}
	if seg.Type() != segments.FixedValue {
		return
	}
	p.maybeRecordUsageStats(seg.Candidate(0))
}

var zeroQueryStatNames = []struct {
	bit  uint32
	name string
}{
	{segments.SourceZeroQueryNone, "CommitDictionaryPredictorZeroQueryTypeNone"},
	{segments.SourceZeroQueryNumberSuffix, "CommitDictionaryPredictorZeroQueryTypeNumberSuffix"},
	{segments.SourceZeroQueryEmoticon, "CommitDictionaryPredictorZeroQueryTypeEmoticon"},
	{segments.SourceZeroQueryEmoji, "CommitDictionaryPredictorZeroQueryTypeEmoji"},
	{segments.SourceZeroQueryBigram, "CommitDictionaryPredictorZeroQueryTypeBigram"},
	{segments.SourceZeroQuerySuffix, "CommitDictionaryPredictorZeroQueryTypeSuffix"},
}

func (p *Predictor) maybeRecordUsageStats(c *segments.Candidate) {
	for _, stat := range zeroQueryStatNames {
		if c.SourceInfo&stat.bit != 0 {
			p.stats.IncrementCount(stat.name)
		}
	}
}

// predictionTypesFor decides which aggregators run for this request.
func (p *Predictor) predictionTypesFor(req *request.ConversionRequest, segs *segments.Segments) predictionType {
	if segs.RequestType() == segments.Conversion {
		return noPrediction
	}
	if segs.ConversionSegmentsSize() < 1 {
		return noPrediction
	}

	types := noPrediction
	if p.shouldRealtimeConversion(req, segs) {
		types |= realtime
	}

	zeroQuery := req.Client().ZeroQuerySuggestion
	if isLatinInputMode(req) && !zeroQuery {
		if req.Config().UseDictionarySuggest {
			types |= english
		}
		// Return regardless of use_dictionary_suggest to avoid full-width
		// Japanese candidates for English words.
		return types
	}

	if !req.Config().UseDictionarySuggest && segs.RequestType() == segments.Suggestion {
		return types
	}

	key := segs.ConversionSegment(0).Key()
	keyLen := japanese.CharsLen(key)
	if keyLen == 0 && !zeroQuery {
		return types
	}

	// Never trigger prediction if the key looks like a zip code.
	if segs.RequestType() == segments.Suggestion && isZipCodeRequest(key) && keyLen < 6 {
		return types
	}

	minUnigramKeyLen := 3
	if zeroQuery {
		minUnigramKeyLen = 1
	}
	if (segs.RequestType() == segments.Prediction && keyLen >= 1) ||
		keyLen >= minUnigramKeyLen {
		types |= unigram
	}

	if segs.HistorySegmentsSize() > 0 {
		history := segs.HistorySegment(segs.HistorySegmentsSize() - 1)
		minHistoryKeyLen := 3
		if zeroQuery {
			minHistoryKeyLen = 2
		}
		if history.CandidatesSize() > 0 &&
			japanese.CharsLen(history.Candidate(0).Key) >= minHistoryKeyLen {
			types |= bigram
		}
	}

	if segs.HistorySegmentsSize() > 0 && zeroQuery {
		types |= suffix
	}

	if isTypingCorrectionEnabled(req, p.opts) && keyLen >= 3 {
		types |= typingCorrection
	}

	return types
}

func (p *Predictor) shouldRealtimeConversion(req *request.ConversionRequest, segs *segments.Segments) bool {
	key := segs.ConversionSegment(0).Key()
	if key == "" || len(key) >= maxRealtimeKeyBytes {
		return false
	}
	return segs.RequestType() == segments.PartialSuggestion ||
		req.Config().UseRealtimeConversion ||
		isMixedConversionEnabled(req, p.opts)
}

func isMixedConversionEnabled(req *request.ConversionRequest, opts Options) bool {
	return req.Client().MixedConversion || opts.ForceMixedConversion
}

func isTypingCorrectionEnabled(req *request.ConversionRequest, opts Options) bool {
	return req.Config().UseTypingCorrection || opts.ForceTypingCorrection
}

func isLatinInputMode(req *request.ConversionRequest) bool {
	if !req.HasComposer() {
		return false
	}
	mode := req.Composer().InputMode()
	return mode == request.ModeHalfASCII || mode == request.ModeFullASCII
}

func isZipCodeRequest(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// historyKeyAndValue returns the top candidate of the last history
// segment, if there is one.
func historyKeyAndValue(segs *segments.Segments) (key, value string, ok bool) {
	if segs.HistorySegmentsSize() == 0 {
		return "", "", false
	}
	history := segs.HistorySegment(segs.HistorySegmentsSize() - 1)
	if history.CandidatesSize() == 0 {
		return "", "", false
	}
	c := history.Candidate(0)
	return c.Key, c.Value, true
}

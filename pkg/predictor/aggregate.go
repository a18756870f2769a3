package predictor

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kbc-developers/yosoku/internal/japanese"
	"github.com/kbc-developers/yosoku/pkg/dictionary"
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
	"github.com/kbc-developers/yosoku/pkg/zeroquery"
)

// candidateCutoffThreshold bounds per-aggregator dictionary fan-out.
func candidateCutoffThreshold(segs *segments.Segments) int {
	if segs.RequestType() == segments.Prediction ||
		segs.RequestType() == segments.PartialPrediction {
		return predictionCutoff
	}
	return suggestionCutoff
}

// realtimeCandidateMaxSize decides how many candidates to request from the
// immutable converter for this call. maxSize is the remaining room under
// the request cap.
func realtimeCandidateMaxSize(segs *segments.Segments, mixedConversion bool, maxSize int) int {
	const fewResultThreshold = 8
	defaultSize := 10
	if segs.SegmentsSize() > 0 &&
		japanese.CharsLen(segs.Segment(0).Key()) >= fewResultThreshold {
		// Long keys produce long sentence candidates that are rarely
		// useful in quantity.
		if maxSize > 8 {
			maxSize = 8
		}
		defaultSize = 5
	}

	var size int
	switch segs.RequestType() {
	case segments.Prediction:
		if mixedConversion {
			size = maxSize
		} else {
			size = defaultSize
		}
	case segments.Suggestion:
		// Fewer candidates are needed basically, but mixed conversion
		// should behave like conversion mode.
		if mixedConversion {
			size = defaultSize
		} else {
			size = 1
		}
	case segments.PartialPrediction:
		size = maxSize
	case segments.PartialSuggestion:
		size = defaultSize
	}

	if size > maxSize {
		size = maxSize
	}
	return size
}

// pushBackTopConversionResult runs the actual converter on a scratch copy
// of segs and appends one realtimeTop result concatenating the top
// candidate of every produced segment.
func (p *Predictor) pushBackTopConversionResult(req *request.ConversionRequest, segs *segments.Segments, results []result) ([]result, bool) {
	tmpSegments := segs.Clone()
	tmpSegments.SetMaxConversionCandidatesSize(20)
	tmpRequest := req.Clone()
	tmpRequest.ComposerKeySelection = request.PredictionKey
	// Slow rewriters cost more than they are worth here.
	tmpRequest.SkipSlowRewriters = true
	// This call emulates the plain converter, so partial candidates are
	// disabled.
	tmpRequest.CreatePartialCandidates = false

	if !p.converter.StartConversionForRequest(tmpRequest, tmpSegments) {
		return results, false
	}
	if tmpSegments.ConversionSegmentsSize() == 0 ||
		tmpSegments.ConversionSegment(0).CandidatesSize() == 0 {
		return results, false
	}

	var r result
	r.key = segs.ConversionSegment(0).Key()
	r.lid = tmpSegments.ConversionSegment(0).Candidate(0).Lid
	last := tmpSegments.ConversionSegment(tmpSegments.ConversionSegmentsSize() - 1)
	if last.CandidatesSize() == 0 {
		return results, false
	}
	r.rid = last.Candidate(0).Rid
	r.setTypesAndTokenAttributes(realtime|realtimeTop, dictionary.TokenNone)
	r.candidateAttributes |= segments.AttrNoVariantsExpansion

	// The converter ran in conversion mode, so the result has no inner
	// segment boundary; reconstruct it from the per-segment lengths.
	boundaryOK := true
	for i := 0; i < tmpSegments.ConversionSegmentsSize(); i++ {
		c := tmpSegments.ConversionSegment(i).Candidate(0)
		r.value += c.Value
		r.wcost += c.Cost
		if boundaryOK {
			encoded, err := segments.EncodeLengths(
				len(c.Key), len(c.Value), len(c.ContentKey), len(c.ContentValue))
			if err != nil {
				boundaryOK = false
				continue
			}
			r.innerSegmentBoundary = append(r.innerSegmentBoundary, encoded)
		}
	}
	if !boundaryOK {
		log.Warn("Failed to construct inner segment boundary")
		r.innerSegmentBoundary = nil
	}
	return append(results, r), true
}

func (p *Predictor) aggregateRealtimeConversion(types predictionType, req *request.ConversionRequest, segs *segments.Segments, results []result) []result {
	if types&realtime == 0 {
		return results
	}

	// The first conversion segment is abused as a scratch output buffer
	// for the immutable converter; its candidates are copied out and
	// removed again below.
	segment := segs.ConversionSegment(0)

	if req.UseActualConverterForRealtimeConversion {
		var ok bool
		results, ok = p.pushBackTopConversionResult(req, segs, results)
		if !ok {
			log.Warn("Realtime conversion with converter failed")
		}
	}

	prevCandidatesSize := segment.CandidatesSize()
	prevMaxPrediction := segs.MaxPredictionCandidatesSize()

	mixedConversion := isMixedConversionEnabled(req, p.opts)
	realtimeSize := realtimeCandidateMaxSize(
		segs, mixedConversion, prevMaxPrediction-prevCandidatesSize)
	if realtimeSize == 0 {
		return results
	}

	segs.SetMaxPredictionCandidatesSize(prevCandidatesSize + realtimeSize)
	defer segs.SetMaxPredictionCandidatesSize(prevMaxPrediction)

	if !p.immutableConverter.ConvertForRequest(req, segs) ||
		prevCandidatesSize >= segment.CandidatesSize() {
		log.Warn("Convert failed")
		return results
	}

	for i := prevCandidatesSize; i < segment.CandidatesSize(); i++ {
		c := segment.Candidate(i)
		var r result
		r.key = c.Key
		r.value = c.Value
		r.wcost = c.WCost
		r.lid = c.Lid
		r.rid = c.Rid
		r.innerSegmentBoundary = append([]uint32(nil), c.InnerSegmentBoundary...)
		r.setTypesAndTokenAttributes(realtime, dictionary.TokenNone)
		r.candidateAttributes |= c.Attributes
		r.consumedKeySize = c.ConsumedKeySize
		results = append(results, r)
	}
	segment.EraseCandidates(prevCandidatesSize, segment.CandidatesSize()-prevCandidatesSize)
	return results
}

// getPredictiveResults performs one predictive lookup with optional
// ambiguity expansion from the composer.
func (p *Predictor) getPredictiveResults(dict dictionary.Interface, historyKey string, req *request.ConversionRequest, segs *segments.Segments, types predictionType, lookupLimit int, results []result) []result {
	if !req.HasComposer() || !p.opts.EnableExpansion {
		queryKey := segs.ConversionSegment(0).Key()
		inputKey := historyKey + queryKey
		callback := predictiveLookupCallback{
			types:          types,
			limit:          lookupLimit + len(results),
			originalKeyLen: len(inputKey),
			isZeroQuery:    queryKey == "",
			results:        &results,
		}
		dict.LookupPredictive(inputKey, &callback)
		return results
	}

	// With ambiguity, look up the unambiguous base and constrain the
	// continuation to the expansion set. For romaji "あk" the base is "あ"
	// and the expansion {か, き, ...}.
	base, expanded := req.Composer().QueriesForPrediction()
	if len(expanded) == 0 {
		expanded = nil
	}
	inputKey := historyKey + base
	callback := predictiveLookupCallback{
		types:           types,
		limit:           lookupLimit + len(results),
		originalKeyLen:  len(inputKey),
		subsequentChars: expanded,
		isZeroQuery:     base == "",
		results:         &results,
	}
	dict.LookupPredictive(inputKey, &callback)
	return results
}

func (p *Predictor) getPredictiveResultsForBigram(dict dictionary.Interface, historyKey, historyValue string, req *request.ConversionRequest, segs *segments.Segments, types predictionType, lookupLimit int, results []result) []result {
	if !req.HasComposer() || !p.opts.EnableExpansion {
		queryKey := segs.ConversionSegment(0).Key()
		inputKey := historyKey + queryKey
		callback := bigramLookupCallback{
			predictiveLookupCallback: predictiveLookupCallback{
				types:          types,
				limit:          lookupLimit + len(results),
				originalKeyLen: len(inputKey),
				isZeroQuery:    queryKey == "",
				results:        &results,
			},
			historyValue: historyValue,
		}
		dict.LookupPredictive(inputKey, &callback)
		return results
	}

	base, expanded := req.Composer().QueriesForPrediction()
	if len(expanded) == 0 {
		expanded = nil
	}
	inputKey := historyKey + base
	callback := bigramLookupCallback{
		predictiveLookupCallback: predictiveLookupCallback{
			types:           types,
			limit:           lookupLimit + len(results),
			originalKeyLen:  len(inputKey),
			subsequentChars: expanded,
			isZeroQuery:     base == "",
			results:         &results,
		},
		historyValue: historyValue,
	}
	dict.LookupPredictive(inputKey, &callback)
	return results
}

func (p *Predictor) aggregateUnigramPrediction(types predictionType, req *request.ConversionRequest, segs *segments.Segments, results []result) []result {
	if types&unigram == 0 {
		return results
	}
	if isMixedConversionEnabled(req, p.opts) {
		return p.aggregateUnigramCandidateForMixedConversion(req, segs, results)
	}
	return p.aggregateUnigramCandidate(req, segs, results)
}

func (p *Predictor) aggregateUnigramCandidate(req *request.ConversionRequest, segs *segments.Segments, results []result) []result {
	cutoff := candidateCutoffThreshold(segs)
	prevSize := len(results)
	results = p.getPredictiveResults(p.dictionary, "", req, segs, unigram, cutoff, results)

	// When the lookup saturates, disambiguation from that many candidates
	// is hopeless; discard the whole pass.
	if len(results)-prevSize >= cutoff {
		results = results[:prevSize]
	}
	return results
}

// aggregateUnigramCandidateForMixedConversion keeps low-cost results and
// drops redundant longer extensions of them, then revives a few of the
// cheapest dropped ones.
func (p *Predictor) aggregateUnigramCandidateForMixedConversion(req *request.ConversionRequest, segs *segments.Segments, results []result) []result {
	const deleteTrialNum = 5
	const doNotDeleteNum = 5

	var raw []result
	raw = p.getPredictiveResults(p.dictionary, "", req, segs, unigram, predictionCutoff, raw)

	// Partition raw into [0, lo) reference results, [lo, hi) survivors,
	// and [hi, len) dropped redundant results.
	lo, hi := 0, len(raw)
	for trial := 0; trial < deleteTrialNum; trial++ {
		if lo == hi {
			break
		}
		minIdx := lo
		for j := lo + 1; j < hi; j++ {
			if raw[j].wcost < raw[minIdx].wcost {
				minIdx = j
			}
		}
		raw[lo], raw[minIdx] = raw[minIdx], raw[lo]
		reference := raw[lo].value
		lo++

		for j := lo; j < hi; {
			if strings.HasPrefix(raw[j].value, reference) {
				hi--
				raw[j], raw[hi] = raw[hi], raw[j]
			} else {
				j++
			}
		}
	}

	if len(raw)-hi >= doNotDeleteNum {
		dropped := raw[hi:]
		sort.SliceStable(dropped, func(i, j int) bool { return dropped[i].wcost < dropped[j].wcost })
		hi += doNotDeleteNum
	} else {
		hi = len(raw)
	}

	return append(results, raw[:hi]...)
}

func (p *Predictor) aggregateBigramPrediction(types predictionType, req *request.ConversionRequest, segs *segments.Segments, results []result) []result {
	if types&bigram == 0 {
		return results
	}

	historyKey, historyValue, ok := historyKeyAndValue(segs)
	if !ok {
		return results
	}

	// The history pair must itself be a dictionary entry. If it is not,
	// the user created it through transliteration or manual segmentation
	// and guessing continuations would be noise.
	findHistory := findValueCallback{targetValue: historyValue}
	p.dictionary.LookupPrefix(historyKey, &findHistory)
	if !findHistory.found {
		return results
	}

	cutoff := candidateCutoffThreshold(segs)
	prevSize := len(results)
	results = p.getPredictiveResultsForBigram(
		p.dictionary, historyKey, historyValue, req, segs, bigram, cutoff, results)
	if len(results)-prevSize >= cutoff {
		return results[:prevSize]
	}

	if japanese.CharsLen(historyValue) == 0 {
		return results
	}
	historyCtype := japanese.GetScriptType(historyValue)
	lastHistoryCtype := japanese.LastScriptType(historyValue)
	for i := prevSize; i < len(results); i++ {
		p.checkBigramResult(findHistory.token, historyCtype, lastHistoryCtype, &results[i])
	}
	return results
}

// checkBigramResult filters irrelevant bigram continuations; e.g. we don't
// want to suggest "リカ" from the history "アメ". Dead results are marked
// noPrediction.
func (p *Predictor) checkBigramResult(historyToken dictionary.Token, historyCtype, lastHistoryCtype japanese.ScriptType, r *result) {
	historyKey := historyToken.Key
	historyValue := historyToken.Value
	if len(r.key) < len(historyKey) || len(r.value) < len(historyValue) {
		r.types = noPrediction
		return
	}
	key := r.key[len(historyKey):]
	value := r.value[len(historyValue):]

	if key == "" || value == "" {
		r.types = noPrediction
		return
	}

	ctype := japanese.FirstScriptType(value)

	// Do not filter continuations like "六本木" + "ヒルズ".
	if historyCtype == japanese.Kanji && ctype == japanese.Katakana {
		return
	}

	// If the single-token continuation is more frequent than the history
	// itself, the unigram path already covers it.
	if ctype != japanese.Kanji && historyToken.Cost > r.wcost {
		r.types = noPrediction
		return
	}

	// An unchanged character class suggests this is not a word boundary.
	// Hiragana is never trusted; katakana only when the whole key is
	// reasonably long.
	if ctype == lastHistoryCtype &&
		(ctype == japanese.Hiragana ||
			(ctype == japanese.Katakana && japanese.CharsLen(r.key) <= 5)) {
		r.types = noPrediction
		return
	}

	// Kanji compounds of length >= 2 are kept without a dictionary check;
	// many are legitimate despite being out of vocabulary, like
	// "京都大学" + "霊長類研究所".
	if ctype == japanese.Kanji && japanese.CharsLen(value) >= 2 {
		return
	}

	// Otherwise the stripped pair must exist in the dictionary, so that we
	// don't suggest "ターネット" from the history "イン".
	find := findValueCallback{targetValue: value}
	p.dictionary.LookupPrefix(key, &find)
	if !find.found {
		r.types = noPrediction
	}
}

// numberHistory reports whether the last committed candidate is an arabic
// number and returns its half-width normalization.
func numberHistory(segs *segments.Segments) (string, bool) {
	if segs.HistorySegmentsSize() == 0 {
		return "", false
	}
	last := segs.HistorySegment(segs.HistorySegmentsSize() - 1)
	if last.CandidatesSize() == 0 {
		return "", false
	}
	value := last.Candidate(0).Value
	if !japanese.IsArabicNumber(value) {
		return "", false
	}
	return japanese.FullWidthToHalfWidth(value), true
}

// appendZeroQueryResults turns table candidates into suffix results. A
// small cost ramp preserves the table's ordering.
func appendZeroQueryResults(candidates []zeroquery.Candidate, lid, rid int, results []result) []result {
	const suffixPenalty = 10
	cost := 0
	for _, c := range candidates {
		var r result
		r.setTypesAndTokenAttributes(suffix, dictionary.TokenNone)
		r.setSourceInfoForZeroQuery(c.Type)
		r.key = c.Value
		r.value = c.Value
		r.wcost = cost
		r.lid = lid
		r.rid = rid
		results = append(results, r)
		cost += suffixPenalty
	}
	return results
}

func (p *Predictor) aggregateNumberZeroQuery(req *request.ConversionRequest, segs *segments.Segments, results []result) ([]result, bool) {
	numberKey, ok := numberHistory(segs)
	if !ok {
		return results, false
	}

	client := req.Client()
	forKey := p.numberZeroQuery.CandidatesForKey(numberKey, client)
	forDefault := p.numberZeroQuery.CandidatesForKey(zeroquery.NumberKey, client)

	results = appendZeroQueryResults(forKey, p.counterSuffixWordID, p.counterSuffixWordID, results)
	results = appendZeroQueryResults(forDefault, p.counterSuffixWordID, p.counterSuffixWordID, results)
	return results, true
}

func (p *Predictor) aggregateZeroQuery(req *request.ConversionRequest, segs *segments.Segments, results []result) ([]result, bool) {
	_, historyValue, ok := historyKeyAndValue(segs)
	if !ok {
		return results, false
	}
	candidates := p.generalZeroQuery.CandidatesForKey(historyValue, req.Client())
	if len(candidates) == 0 {
		return results, false
	}
	const eosID = 0
	return appendZeroQueryResults(candidates, eosID, eosID, results), true
}

func (p *Predictor) aggregateSuffixPrediction(types predictionType, req *request.ConversionRequest, segs *segments.Segments, results []result) []result {
	if types&suffix == 0 {
		return results
	}

	if segs.ConversionSegment(0).Key() == "" {
		results, _ = p.aggregateNumberZeroQuery(req, segs, results)
		results, _ = p.aggregateZeroQuery(req, segs, results)
	}

	cutoff := candidateCutoffThreshold(segs)
	return p.getPredictiveResults(p.suffixDictionary, "", req, segs, suffix, cutoff, results)
}

func (p *Predictor) aggregateEnglishPrediction(types predictionType, req *request.ConversionRequest, segs *segments.Segments, results []result) []result {
	if types&english == 0 {
		return results
	}
	if !req.HasComposer() {
		return results
	}

	inputKey := req.Composer().QueryForPrediction()
	// One-letter English lookups are all noise.
	if len(inputKey) < 2 {
		return results
	}

	cutoff := candidateCutoffThreshold(segs)
	prevSize := len(results)

	lookup := func(key string) {
		callback := predictiveLookupCallback{
			types:          english,
			limit:          cutoff + len(results),
			originalKeyLen: len(key),
			results:        &results,
		}
		p.dictionary.LookupPredictive(key, &callback)
	}

	switch {
	case japanese.IsUpperASCII(inputKey):
		lookup(strings.ToLower(inputKey))
		for i := prevSize; i < len(results); i++ {
			results[i].value = strings.ToUpper(results[i].value)
		}
	case japanese.IsCapitalizedASCII(inputKey):
		lookup(strings.ToLower(inputKey))
		for i := prevSize; i < len(results); i++ {
			results[i].value = japanese.CapitalizeASCII(results[i].value)
		}
	default:
		lookup(inputKey)
	}

	if req.Composer().InputMode() == request.ModeFullASCII {
		for i := prevSize; i < len(results); i++ {
			results[i].value = japanese.HalfWidthASCIIToFullWidthASCII(results[i].value)
		}
	}

	if len(results)-prevSize >= cutoff {
		results = results[:prevSize]
	}
	return results
}

func (p *Predictor) aggregateTypeCorrectingPrediction(types predictionType, req *request.ConversionRequest, segs *segments.Segments, results []result) []result {
	if types&typingCorrection == 0 {
		return results
	}
	if !req.HasComposer() {
		return results
	}
	// Guard against pathological fan-out from the earlier aggregators.
	prevSize := len(results)
	if prevSize > 10000 {
		return results
	}

	cutoff := candidateCutoffThreshold(segs)
	lookupLimit := cutoff

	for _, query := range req.Composer().TypeCorrectedQueries() {
		beforeQuery := len(results)
		expanded := query.Expanded
		if len(expanded) == 0 {
			expanded = nil
		}
		callback := predictiveLookupCallback{
			types:           typingCorrection,
			limit:           lookupLimit + len(results),
			originalKeyLen:  len(query.Base),
			subsequentChars: expanded,
			results:         &results,
		}
		p.dictionary.LookupPredictive(query.Base, &callback)

		for i := beforeQuery; i < len(results); i++ {
			results[i].wcost += query.Cost
		}
		lookupLimit -= len(results) - beforeQuery
		if lookupLimit <= 0 {
			break
		}
	}

	if len(results)-prevSize >= cutoff {
		results = results[:prevSize]
	}
	return results
}

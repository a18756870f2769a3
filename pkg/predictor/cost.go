package predictor

import (
	"math"

	"github.com/kbc-developers/yosoku/internal/japanese"
	"github.com/kbc-developers/yosoku/pkg/segments"
)

// lmCost returns the language-model cost of transitioning into the result
// from rid. Transition from BOS is also considered and the minimum taken;
// occasionally the real transition cost is pathologically large and would
// demote perfectly good candidates. A suffix penalty is added for
// non-realtime results; realtime conversion already accounts for it.
func (p *Predictor) lmCost(r *result, rid int) int {
	cost1 := p.connector.TransitionCost(rid, r.lid)
	cost2 := p.connector.TransitionCost(0, r.lid)
	cost := min(cost1, cost2) + r.wcost
	if r.types&realtime == 0 {
		cost += p.segmenter.SuffixPenalty(r.rid)
	}
	return cost
}

// isAggressiveSuggestion guards against long sentence-like suggestions for
// very short input, e.g. "ただしい" => "ただしいけめんにかぎる". Small
// candidate sets and cheap candidates are allowed through.
func isAggressiveSuggestion(queryLen, keyLen, cost int, isSuggestion bool, totalCandidates int) bool {
	return isSuggestion && totalCandidates >= 10 && keyLen >= 8 &&
		cost >= 5000 && float64(queryLen) <= 0.4*float64(keyLen)
}

// setPredictionCost is the desktop ranking formula:
//
//	cost = -500 * log(lang_prob(w) * (1 + remain_length))
//
// The length part rewards candidates that save the user more typing; with
// equal keys the ranking degenerates to the language-model probability,
// which keeps prediction consistent with conversion.
func (p *Predictor) setPredictionCost(segs *segments.Segments, results []result) {
	rid := 0 // BOS
	if segs.HistorySegmentsSize() > 0 {
		history := segs.HistorySegment(segs.HistorySegmentsSize() - 1)
		if history.CandidatesSize() > 0 {
			rid = history.Candidate(0).Rid
		}
	}

	inputKey := segs.ConversionSegment(0).Key()
	historyKey, _, _ := historyKeyAndValue(segs)
	bigramKey := historyKey + inputKey
	isSuggestion := segs.RequestType() == segments.Suggestion

	bigramKeyLen := japanese.CharsLen(bigramKey)
	unigramKeyLen := japanese.CharsLen(inputKey)

	// Track the cheapest realtime result whose key has the same byte length
	// as the input so the realtime top result can undercut it after the loop.
	realtimeCostMin := costInfinity
	var realtimeTopResult *result

	const costFactor = 500
	for i := range results {
		r := &results[i]

		if r.types&realtimeTop != 0 {
			realtimeTopResult = r
			continue
		}

		cost := p.lmCost(r, rid)
		queryLen := unigramKeyLen
		if r.types&bigram != 0 {
			queryLen = bigramKeyLen
		}
		keyLen := japanese.CharsLen(r.key)

		if isAggressiveSuggestion(queryLen, keyLen, cost, isSuggestion, len(results)) {
			r.cost = costInfinity
			continue
		}

		r.cost = cost - int(costFactor*math.Log(1.0+float64(max(0, keyLen-queryLen))))

		if r.types&realtime != 0 && r.cost < realtimeCostMin && len(r.key) == len(inputKey) {
			realtimeCostMin = r.cost
		}
	}

	if realtimeTopResult != nil {
		realtimeTopResult.cost = max(0, realtimeCostMin-realtimeTopCostMargin)
	}
}

// setLMCost is the mixed-conversion (mobile) ranking formula.
func (p *Predictor) setLMCost(segs *segments.Segments, results []result) {
	rid := 0 // BOS
	prevCost := 0
	if segs.HistorySegmentsSize() > 0 {
		history := segs.HistorySegment(segs.HistorySegmentsSize() - 1)
		if history.CandidatesSize() > 0 {
			rid = history.Candidate(0).Rid
			prevCost = history.Candidate(0).Cost
			if prevCost == 0 {
				prevCost = 5000
			}
		}
	}

	inputKeyLen := japanese.CharsLen(segs.ConversionSegment(0).Key())
	for i := range results {
		r := &results[i]
		cost := p.lmCost(r, rid)

		// Filtered words are not dropped on exact match, but they should
		// never rank high either. 3453 = 500 * log(1000).
		if p.suggestionFilter.IsBadSuggestion(r.value) {
			const badSuggestionPenalty = 3453
			cost += badSuggestionPenalty
		}

		// Mobile users expect candidates for exactly what they typed, so
		// longer keys are treated as 50x less frequent.
		// 1956 = 500 * log(50).
		if r.types&(unigram|typingCorrection) != 0 {
			if japanese.CharsLen(r.key) > inputKeyLen {
				const notExactPenalty = 1956
				cost += notExactPenalty
			}
		}

		// The transition cost between the committed word and a bigram
		// continuation is unknowable here; substitute the typical
		// noun-to-noun cost, apply a promotion bonus, and cancel the
		// already-paid history cost.
		if r.types&bigram != 0 {
			const defaultTransitionCost = 1347
			const bigramBonus = 800 // ~= 500 * ln(5)
			cost += defaultTransitionCost - bigramBonus - prevCost
		}
		r.cost = cost
	}
}

// applyPenaltyForKeyExpansion demotes results reached only through an
// ambiguity-expansion branch. 1151 = 500 * log(10): treated as 10x less
// frequent.
func (p *Predictor) applyPenaltyForKeyExpansion(segs *segments.Segments, results []result) {
	if segs.ConversionSegmentsSize() == 0 {
		return
	}
	const keyExpansionPenalty = 1151
	conversionKey := segs.ConversionSegment(0).Key()
	for i := range results {
		r := &results[i]
		if r.types&typingCorrection != 0 {
			continue
		}
		if !hasPrefix(r.key, conversionKey) {
			r.cost += keyExpansionPenalty
		}
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// missSpelledPosition returns the first rune index where the
// kana-normalized value diverges from the key, or the key length when they
// agree (or when the value is not plain kana).
func missSpelledPosition(key, value string) int {
	hiragana := japanese.KatakanaToHiragana(value)
	if japanese.GetScriptType(hiragana) != japanese.Hiragana {
		return japanese.CharsLen(key)
	}

	keyRunes := []rune(key)
	valueRunes := []rune(hiragana)
	position := 0
	for position < len(keyRunes) && position < len(valueRunes) {
		if keyRunes[position] != valueRunes[position] {
			return position
		}
		position++
	}
	return len(keyRunes)
}

// removeMissSpelledCandidates kills spelling-corrected results that
// duplicate, or are duplicated by, normal results.
//
//	same-key peers | same-value peers | action
//	yes            | yes              | kill this and all same-key peers
//	no             | yes              | kill this only
//	yes            | no               | kill same-key peers; also this when
//	                                    the typed key is short of the
//	                                    mis-spelled position
func (p *Predictor) removeMissSpelledCandidates(requestKeyLen int, results []result) {
	if len(results) <= 1 {
		return
	}

	// At most a handful of spelling corrections are examined; without the
	// guard a result set where everything is a correction goes quadratic.
	remaining := spellingCorrectionScanLimit
	for i := range results {
		r := &results[i]
		if r.candidateAttributes&segments.AttrSpellingCorrection == 0 {
			continue
		}
		remaining--
		if remaining == 0 {
			return
		}

		var sameKey, sameValue []int
		for j := range results {
			if i == j {
				continue
			}
			target := &results[j]
			if target.candidateAttributes&segments.AttrSpellingCorrection != 0 {
				continue
			}
			if target.key == r.key {
				sameKey = append(sameKey, j)
			}
			if target.value == r.value {
				sameValue = append(sameValue, j)
			}
		}

		switch {
		case len(sameKey) > 0 && len(sameValue) > 0:
			r.types = noPrediction
			for _, k := range sameKey {
				results[k].types = noPrediction
			}
		case len(sameKey) == 0 && len(sameValue) > 0:
			r.types = noPrediction
		case len(sameKey) > 0 && len(sameValue) == 0:
			for _, k := range sameKey {
				results[k].types = noPrediction
			}
			if requestKeyLen <= missSpelledPosition(r.key, r.value) {
				r.types = noPrediction
			}
		}
	}
}

// spellingCorrectionScanLimit bounds the miss-spelled de-dup pass.
const spellingCorrectionScanLimit = 5

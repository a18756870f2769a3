package predictor

import (
	"container/heap"
	"strings"

	"github.com/kbc-developers/yosoku/internal/japanese"
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
)

// maxSuffixCandidates caps suffix emissions per call. The appropriate
// number is still being tuned; keep in sync with the suffix dictionary
// generation side.
const maxSuffixCandidates = 20

// resultHeap is a min-heap over final cost. Building the heap is linear
// and only max_prediction_candidates results are ever popped, which beats
// a full sort over the worst-case hundred-thousand-result set.
type resultHeap []result

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)        { *h = append(*h, x.(result)) }
func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	r := old[n-1]
	*h = old[:n-1]
	return r
}

// addPredictionToCandidates pops results in ascending cost order and
// appends the survivors to the conversion segment. Returns whether any
// candidate was added.
func (p *Predictor) addPredictionToCandidates(req *request.ConversionRequest, segs *segments.Segments, results []result) bool {
	mixedConversion := isMixedConversionEnabled(req, p.opts)
	inputKey := segs.ConversionSegment(0).Key()
	inputKeyLen := japanese.CharsLen(inputKey)

	historyKey, historyValue, _ := historyKeyAndValue(segs)
	// The exact bigram key carries no ambiguity expansion; it is only used
	// for exact matching below.
	exactBigramKey := historyKey + inputKey

	segment := segs.ConversionSegment(0)

	h := resultHeap(results)
	heap.Init(&h)

	size := min(segs.MaxPredictionCandidatesSize(), len(results))

	added := 0
	seen := make(map[string]struct{})
	addedSuffix := 0
	cursorAtTail := req.HasComposer() &&
		req.Composer().Cursor() == req.Composer().Length()

	for i := 0; i < size && h.Len() > 0; i++ {
		r := heap.Pop(&h).(result)

		if r.cost >= costInfinity {
			break
		}

		if r.types == noPrediction {
			continue
		}

		// In mixed conversion mode, results matching the input key exactly
		// pass the suggestion filter; the user asked for that word.
		if !(mixedConversion && r.key == inputKey) &&
			p.suggestionFilter.IsBadSuggestion(r.value) {
			continue
		}

		// Don't suggest exactly what the user already typed, except in
		// mixed conversion mode where the exact form is wanted.
		if !mixedConversion && r.types&realtime == 0 &&
			((r.types&bigram != 0 && exactBigramKey == r.value) ||
				(r.types&bigram == 0 && inputKey == r.value)) {
			continue
		}

		var key, value string
		if r.types&bigram != 0 {
			// The history prefix was part of the lookup key only; strip it
			// before emitting.
			key = r.key[len(historyKey):]
			value = r.value[len(historyValue):]
		} else {
			key = r.key
			value = r.value
		}

		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		// User input "おーすとり" (len 5) with correction
		// "おーすとりら"/"オーストラリア" (mismatch at 4): the user has
		// typed no further than the mis-spelled position, so the correction
		// is held back until more of the key is typed.
		if r.candidateAttributes&segments.AttrSpellingCorrection != 0 &&
			key != inputKey &&
			inputKeyLen <= missSpelledPosition(key, value)+1 {
			continue
		}

		if r.types == suffix {
			if addedSuffix >= maxSuffixCandidates {
				continue
			}
			addedSuffix++
		}

		candidate := segment.PushBackCandidate()
		candidate.ContentKey = key
		candidate.ContentValue = value
		candidate.Key = key
		candidate.Value = value
		candidate.Lid = r.lid
		candidate.Rid = r.rid
		candidate.WCost = r.wcost
		candidate.Cost = r.cost
		candidate.Attributes = r.candidateAttributes
		if (candidate.Attributes&segments.AttrSpellingCorrection == 0 && isLatinInputMode(req)) ||
			r.types&suffix != 0 {
			candidate.Attributes |= segments.AttrNoVariantsExpansion
			candidate.Attributes |= segments.AttrNoExtraDescription
		}
		if candidate.Attributes&segments.AttrPartiallyKeyConsumed != 0 {
			candidate.ConsumedKeySize = r.consumedKeySize
			// A partially consumed key with the cursor at the tail means
			// the engine chose the split on its own; mark it so the client
			// can render the distinction.
			if cursorAtTail {
				candidate.Attributes |= segments.AttrAutoPartialSuggestion
			}
		}
		candidate.SourceInfo = r.sourceInfo
		if r.types&realtime != 0 {
			candidate.InnerSegmentBoundary = r.innerSegmentBoundary
		}
		if r.types&typingCorrection != 0 {
			candidate.Attributes |= segments.AttrTypingCorrection
		}

		setDescription(r.types, candidate.Attributes, &candidate.Description)
		if p.opts.Debug {
			setDebugDescription(r.types, &candidate.Description)
		}

		added++
	}
	return added > 0
}

func appendDescription(description *string, addition string) {
	if *description != "" {
		*description += " "
	}
	*description += addition
}

func setDescription(types predictionType, attributes uint32, description *string) {
	if types&typingCorrection != 0 {
		appendDescription(description, "補正")
	}
	if attributes&segments.AttrAutoPartialSuggestion != 0 {
		appendDescription(description, "部分")
	}
}

// setDebugDescription appends a compact mnemonic of the source types.
func setDebugDescription(types predictionType, description *string) {
	var b strings.Builder
	if types&unigram != 0 {
		b.WriteByte('U')
	}
	if types&bigram != 0 {
		b.WriteByte('B')
	}
	if types&realtimeTop != 0 {
		b.WriteString("R1")
	} else if types&realtime != 0 {
		b.WriteByte('R')
	}
	if types&suffix != 0 {
		b.WriteByte('S')
	}
	if types&english != 0 {
		b.WriteByte('E')
	}
	// TYPING_CORRECTION is already covered by setDescription.
	if b.Len() > 0 {
		appendDescription(description, b.String())
	}
}

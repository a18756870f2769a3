package predictor

import (
	"github.com/kbc-developers/yosoku/pkg/dictionary"
	"github.com/kbc-developers/yosoku/pkg/segments"
	"github.com/kbc-developers/yosoku/pkg/zeroquery"
)

// predictionType is a bitset of the sources a result came from.
type predictionType uint16

const (
	noPrediction predictionType = 0
	unigram      predictionType = 1 << 0
	bigram       predictionType = 1 << 1
	realtime     predictionType = 1 << 2
	// realtimeTop marks the concatenated top candidate from the actual
	// converter; it must outrank every other realtime result.
	realtimeTop      predictionType = 1 << 3
	suffix           predictionType = 1 << 4
	english          predictionType = 1 << 5
	typingCorrection predictionType = 1 << 6
)

// result is the internal candidate record built up by the aggregators and
// consumed by the cost, filter, and emission stages. Filter passes mark a
// dead result with types == noPrediction rather than erasing it.
type result struct {
	key   string
	value string

	wcost int
	cost  int

	lid int
	rid int

	types predictionType

	candidateAttributes uint32
	sourceInfo          uint32

	consumedKeySize      int
	innerSegmentBoundary []uint32
}

// initFromToken fills the result from a dictionary token plus the
// aggregator's type bits.
func (r *result) initFromToken(token dictionary.Token, types predictionType) {
	r.setTypesAndTokenAttributes(types, token.Attributes)
	r.key = token.Key
	r.value = token.Value
	r.wcost = token.Cost
	r.lid = token.Lid
	r.rid = token.Rid
}

func (r *result) setTypesAndTokenAttributes(types predictionType, tokenAttr uint32) {
	r.types = types
	r.candidateAttributes = 0
	if types&typingCorrection != 0 {
		r.candidateAttributes |= segments.AttrTypingCorrection
	}
	if types&(realtime|realtimeTop) != 0 {
		r.candidateAttributes |= segments.AttrRealtimeConversion
	}
	if tokenAttr&dictionary.TokenSpellingCorrection != 0 {
		r.candidateAttributes |= segments.AttrSpellingCorrection
	}
	if tokenAttr&dictionary.TokenUserDictionary != 0 {
		r.candidateAttributes |= segments.AttrUserDictionary | segments.AttrNoVariantsExpansion
	}
}

// setSourceInfoForZeroQuery tags the result with the zero-query category
// that produced it, for usage stats at commit time.
func (r *result) setSourceInfoForZeroQuery(t zeroquery.Type) {
	switch t {
	case zeroquery.TypeNone:
		r.sourceInfo |= segments.SourceZeroQueryNone
	case zeroquery.TypeNumberSuffix:
		r.sourceInfo |= segments.SourceZeroQueryNumberSuffix
	case zeroquery.TypeEmoticon:
		r.sourceInfo |= segments.SourceZeroQueryEmoticon
	case zeroquery.TypeEmoji:
		r.sourceInfo |= segments.SourceZeroQueryEmoji
	case zeroquery.TypeBigram:
		r.sourceInfo |= segments.SourceZeroQueryBigram
	case zeroquery.TypeSuffix:
		r.sourceInfo |= segments.SourceZeroQuerySuffix
	}
}

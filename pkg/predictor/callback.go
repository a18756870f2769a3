package predictor

import (
	"strings"

	"github.com/kbc-developers/yosoku/pkg/dictionary"
	"github.com/kbc-developers/yosoku/pkg/zeroquery"
)

// kanaModifierInsensitivePenalty is added to the word cost of tokens found
// through kana-modifier-insensitive expansion (e.g. は matching ば).
const kanaModifierInsensitivePenalty = 150

// predictiveLookupCallback accumulates predictive lookup results.
//
// When subsequentChars is non-nil the callback only descends into keys
// whose continuation past the original input starts with one of the
// expansion strings. The set rarely exceeds 10 elements, so a linear scan
// beats building a trie.
type predictiveLookupCallback struct {
	dictionary.BaseCallback

	types           predictionType
	limit           int
	originalKeyLen  int
	subsequentChars []string
	isZeroQuery     bool
	results         *[]result

	penalty int
}

func (c *predictiveLookupCallback) OnKey(key string) dictionary.TraverseAction {
	if c.subsequentChars == nil {
		return dictionary.TraverseContinue
	}
	if len(key) < c.originalKeyLen {
		return dictionary.TraverseNextKey
	}
	rest := key[c.originalKeyLen:]
	for _, chars := range c.subsequentChars {
		if strings.HasPrefix(rest, chars) {
			return dictionary.TraverseContinue
		}
	}
	return dictionary.TraverseNextKey
}

func (c *predictiveLookupCallback) OnActualKey(key, actualKey string, isExpanded bool) dictionary.TraverseAction {
	if isExpanded {
		c.penalty = kanaModifierInsensitivePenalty
	} else {
		c.penalty = 0
	}
	return dictionary.TraverseContinue
}

func (c *predictiveLookupCallback) OnToken(key, actualKey string, token dictionary.Token) dictionary.TraverseAction {
	var r result
	r.initFromToken(token, c.types)
	r.wcost += c.penalty
	if c.isZeroQuery && c.types&suffix != 0 {
		r.setSourceInfoForZeroQuery(zeroquery.TypeSuffix)
	}
	*c.results = append(*c.results, r)
	if len(*c.results) < c.limit {
		return dictionary.TraverseContinue
	}
	return dictionary.TraverseDone
}

// bigramLookupCallback composes predictiveLookupCallback and additionally
// skips tokens whose value is not a strict extension of the previously
// committed value.
type bigramLookupCallback struct {
	predictiveLookupCallback
	historyValue string
}

func (c *bigramLookupCallback) OnToken(key, actualKey string, token dictionary.Token) dictionary.TraverseAction {
	if !strings.HasPrefix(token.Value, c.historyValue) ||
		len(token.Value) <= len(c.historyValue) {
		return dictionary.TraverseContinue
	}
	action := c.predictiveLookupCallback.OnToken(key, actualKey, token)
	if c.isZeroQuery {
		(*c.results)[len(*c.results)-1].setSourceInfoForZeroQuery(zeroquery.TypeBigram)
	}
	return action
}

// findValueCallback stops at the first token matching a target value.
type findValueCallback struct {
	dictionary.BaseCallback

	targetValue string
	found       bool
	token       dictionary.Token
}

func (c *findValueCallback) OnToken(key, actualKey string, token dictionary.Token) dictionary.TraverseAction {
	if token.Value != c.targetValue {
		return dictionary.TraverseContinue
	}
	c.found = true
	c.token = token
	return dictionary.TraverseDone
}

/*
Package dictionary defines the lookup interface consumed by the prediction
engine and a Patricia-trie backed implementation of it.

Lookups are streamed through a Callback so that callers can stop traversal
early, skip whole keys, or cap result counts without the dictionary
materializing everything up front.
*/
package dictionary

// Token attribute bits.
const (
	TokenNone               uint32 = 0
	TokenSpellingCorrection uint32 = 1 << 0
	TokenUserDictionary     uint32 = 1 << 1
)

// Token is one dictionary entry: a reading, its surface form, and the
// language-model parameters attached to them.
type Token struct {
	Key        string
	Value      string
	Cost       int
	Lid        int
	Rid        int
	Attributes uint32
}

// TraverseAction is returned from Callback methods to steer a lookup.
type TraverseAction int

const (
	// TraverseContinue keeps going.
	TraverseContinue TraverseAction = iota
	// TraverseNextKey skips the remaining tokens of the current key.
	TraverseNextKey
	// TraverseCull skips the current subtree.
	TraverseCull
	// TraverseDone stops the whole lookup.
	TraverseDone
)

// Callback receives lookup events. OnKey fires once per distinct key,
// OnActualKey additionally reports the concrete key when the lookup
// expanded an ambiguous input, and OnToken fires once per token.
type Callback interface {
	OnKey(key string) TraverseAction
	OnActualKey(key, actualKey string, isExpanded bool) TraverseAction
	OnToken(key, actualKey string, token Token) TraverseAction
}

// BaseCallback is a no-op Callback for embedding; each method continues
// traversal.
type BaseCallback struct{}

func (BaseCallback) OnKey(string) TraverseAction                     { return TraverseContinue }
func (BaseCallback) OnActualKey(string, string, bool) TraverseAction { return TraverseContinue }
func (BaseCallback) OnToken(string, string, Token) TraverseAction    { return TraverseContinue }

// Interface is the dictionary surface consumed by the predictor.
type Interface interface {
	// LookupPredictive visits every token whose key has the given key as
	// prefix.
	LookupPredictive(key string, callback Callback)
	// LookupPrefix visits every token whose key is a prefix of the given
	// key.
	LookupPrefix(key string, callback Callback)
	// LookupExact visits tokens whose key equals the given key.
	LookupExact(key string, callback Callback)
	// LookupReverse visits tokens whose value is a prefix of the given
	// string.
	LookupReverse(value string, callback Callback)

	HasKey(key string) bool
	HasValue(value string) bool
}

package dictionary

import (
	"errors"

	"github.com/tchap/go-patricia/v2/patricia"
)

// errStopTraversal aborts a trie walk from inside a visitor.
var errStopTraversal = errors.New("dictionary: stop traversal")

// TrieDictionary is an in-memory dictionary backed by a Patricia trie over
// keys, with a parallel value index for reverse lookups. It is immutable
// after loading and safe for concurrent readers.
type TrieDictionary struct {
	keys   *patricia.Trie
	values *patricia.Trie
}

// NewTrieDictionary returns an empty dictionary.
func NewTrieDictionary() *TrieDictionary {
	return &TrieDictionary{
		keys:   patricia.NewTrie(),
		values: patricia.NewTrie(),
	}
}

// Add inserts a token. Tokens sharing a key accumulate under one trie node
// in insertion order.
func (d *TrieDictionary) Add(token Token) {
	prefix := patricia.Prefix(token.Key)
	if item := d.keys.Get(prefix); item != nil {
		d.keys.Set(prefix, append(item.([]Token), token))
	} else {
		d.keys.Insert(prefix, []Token{token})
	}

	vprefix := patricia.Prefix(token.Value)
	if item := d.values.Get(vprefix); item != nil {
		d.values.Set(vprefix, append(item.([]Token), token))
	} else {
		d.values.Insert(vprefix, []Token{token})
	}
}

// visit runs the callback protocol for one key's token list and translates
// the callback's decision into a trie visitor result: nil to continue,
// patricia.SkipSubtree to cull, errStopTraversal to abort the walk.
func visit(key string, tokens []Token, callback Callback) error {
	switch callback.OnKey(key) {
	case TraverseDone:
		return errStopTraversal
	case TraverseCull:
		return patricia.SkipSubtree
	case TraverseNextKey:
		return nil
	}
	switch callback.OnActualKey(key, key, false) {
	case TraverseDone:
		return errStopTraversal
	case TraverseCull:
		return patricia.SkipSubtree
	case TraverseNextKey:
		return nil
	}
	for _, token := range tokens {
		switch callback.OnToken(key, key, token) {
		case TraverseDone:
			return errStopTraversal
		case TraverseCull:
			return patricia.SkipSubtree
		case TraverseNextKey:
			return nil
		}
	}
	return nil
}

// LookupPredictive visits all tokens under keys extending the given key.
func (d *TrieDictionary) LookupPredictive(key string, callback Callback) {
	d.keys.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		return visit(string(p), item.([]Token), callback)
	})
}

// LookupPrefix visits tokens whose key is a prefix of the given key,
// shortest first.
func (d *TrieDictionary) LookupPrefix(key string, callback Callback) {
	d.keys.VisitPrefixes(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		return visit(string(p), item.([]Token), callback)
	})
}

// LookupExact visits only tokens stored under exactly the given key.
func (d *TrieDictionary) LookupExact(key string, callback Callback) {
	item := d.keys.Get(patricia.Prefix(key))
	if item == nil {
		return
	}
	visit(key, item.([]Token), callback)
}

// LookupReverse visits tokens whose value is a prefix of the given string.
func (d *TrieDictionary) LookupReverse(value string, callback Callback) {
	d.values.VisitPrefixes(patricia.Prefix(value), func(p patricia.Prefix, item patricia.Item) error {
		return visit(string(p), item.([]Token), callback)
	})
}

// HasKey reports whether any token is stored under the exact key.
func (d *TrieDictionary) HasKey(key string) bool {
	return d.keys.Get(patricia.Prefix(key)) != nil
}

// HasValue reports whether any token has the exact value.
func (d *TrieDictionary) HasValue(value string) bool {
	return d.values.Get(patricia.Prefix(value)) != nil
}

/*
Package zeroquery holds the static tables driving zero-query suggestion:
continuations offered when the user has committed a segment but typed
nothing new.

Tables are sorted by key and binary-searched. Emoji entries are expanded
per the client's available carrier set; carrier-specific glyphs are emitted
as the UTF-8 encoding of their Android PUA code point.
*/
package zeroquery

import (
	"sort"

	"github.com/kbc-developers/yosoku/pkg/request"
)

// Type tags the category of one zero-query entry.
type Type int

const (
	TypeNone Type = iota
	TypeNumberSuffix
	TypeEmoticon
	TypeEmoji
	TypeBigram
	TypeSuffix
)

// Emoji availability bits for one entry.
const (
	EmojiNone     uint32 = 0
	EmojiUnicode  uint32 = 1 << 0
	EmojiDocomo   uint32 = 1 << 1
	EmojiSoftbank uint32 = 1 << 2
	EmojiKDDI     uint32 = 1 << 3
)

// Entry is one candidate continuation in a zero-query table.
type Entry struct {
	Type  Type
	Value string
	// EmojiCarriers and AndroidPUA are meaningful only for TypeEmoji.
	EmojiCarriers uint32
	AndroidPUA    rune
}

// rule binds a table key to its ordered entries.
type rule struct {
	key     string
	entries []Entry
}

// Table is an immutable sorted zero-query table.
type Table struct {
	rules []rule
}

// NewTable builds a table from a key-to-entries map. Entry order within a
// key is preserved; keys are sorted for binary search.
func NewTable(data map[string][]Entry) *Table {
	t := &Table{rules: make([]rule, 0, len(data))}
	for key, entries := range data {
		t.rules = append(t.rules, rule{key: key, entries: entries})
	}
	sort.Slice(t.rules, func(i, j int) bool { return t.rules[i].key < t.rules[j].key })
	return t
}

// Candidate is one expanded zero-query result.
type Candidate struct {
	Value string
	Type  Type
}

// CandidatesForKey binary-searches the table and expands the matching
// entries against the client's emoji carrier set. Returns nil when the key
// has no rule or every entry was filtered out.
func (t *Table) CandidatesForKey(key string, client request.ClientRequest) []Candidate {
	i := sort.Search(len(t.rules), func(i int) bool { return t.rules[i].key >= key })
	if i >= len(t.rules) || t.rules[i].key != key {
		return nil
	}

	carriers := client.AvailableEmojiCarrier
	var out []Candidate
	for _, entry := range t.rules[i].entries {
		if entry.Type != TypeEmoji {
			out = append(out, Candidate{Value: entry.Value, Type: entry.Type})
			continue
		}
		if carriers&request.EmojiCarrierUnicode != 0 && entry.EmojiCarriers&EmojiUnicode != 0 {
			out = append(out, Candidate{Value: entry.Value, Type: entry.Type})
			continue
		}
		if (carriers&request.EmojiCarrierDocomo != 0 && entry.EmojiCarriers&EmojiDocomo != 0) ||
			(carriers&request.EmojiCarrierSoftbank != 0 && entry.EmojiCarriers&EmojiSoftbank != 0) ||
			(carriers&request.EmojiCarrierKDDI != 0 && entry.EmojiCarriers&EmojiKDDI != 0) {
			out = append(out, Candidate{Value: string(entry.AndroidPUA), Type: entry.Type})
		}
	}
	return out
}

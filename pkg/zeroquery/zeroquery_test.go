package zeroquery

import (
	"testing"

	"github.com/kbc-developers/yosoku/pkg/request"
)

func TestCandidatesForKeyNumberTable(t *testing.T) {
	client := request.ClientRequest{}
	got := NumberTable().CandidatesForKey("12", client)
	if len(got) == 0 {
		t.Fatal("no candidates for 12")
	}
	if got[0].Value != "月" || got[0].Type != TypeNumberSuffix {
		t.Errorf("first candidate = %+v, want 月 number-suffix", got[0])
	}

	if NumberTable().CandidatesForKey("99999", client) != nil {
		t.Error("unknown key must return nil")
	}

	def := NumberTable().CandidatesForKey(NumberKey, client)
	if len(def) == 0 {
		t.Fatal("default rule missing")
	}
}

func TestEmojiCarrierFiltering(t *testing.T) {
	table := NewTable(map[string][]Entry{
		"はれ": {
			{Type: TypeEmoji, Value: "☀", EmojiCarriers: EmojiUnicode | EmojiDocomo, AndroidPUA: 0xFE000},
			{Type: TypeSuffix, Value: "です"},
		},
	})

	t.Run("no carrier drops emoji", func(t *testing.T) {
		got := table.CandidatesForKey("はれ", request.ClientRequest{})
		if len(got) != 1 || got[0].Value != "です" {
			t.Errorf("got %+v, want only です", got)
		}
	})

	t.Run("unicode carrier gets the value", func(t *testing.T) {
		got := table.CandidatesForKey("はれ", request.ClientRequest{
			AvailableEmojiCarrier: request.EmojiCarrierUnicode,
		})
		if len(got) != 2 || got[0].Value != "☀" {
			t.Errorf("got %+v, want ☀ then です", got)
		}
	})

	t.Run("carrier emoji uses the android pua code point", func(t *testing.T) {
		got := table.CandidatesForKey("はれ", request.ClientRequest{
			AvailableEmojiCarrier: request.EmojiCarrierDocomo,
		})
		if len(got) != 2 || got[0].Value != string(rune(0xFE000)) {
			t.Errorf("got %+v, want PUA code point first", got)
		}
	})

	t.Run("unsupported carrier drops the entry", func(t *testing.T) {
		got := table.CandidatesForKey("はれ", request.ClientRequest{
			AvailableEmojiCarrier: request.EmojiCarrierKDDI,
		})
		if len(got) != 1 {
			t.Errorf("got %+v, want only です", got)
		}
	})
}

func TestTableIsSortedForBinarySearch(t *testing.T) {
	table := NewTable(map[string][]Entry{
		"ん": {{Type: TypeSuffix, Value: "a"}},
		"あ": {{Type: TypeSuffix, Value: "b"}},
		"か": {{Type: TypeSuffix, Value: "c"}},
	})
	for _, key := range []string{"あ", "か", "ん"} {
		if got := table.CandidatesForKey(key, request.ClientRequest{}); len(got) != 1 {
			t.Errorf("key %q not found after sorting", key)
		}
	}
}

package dictionary

import (
	"testing"
)

type collectCallback struct {
	BaseCallback
	tokens []Token
	limit  int
}

func (c *collectCallback) OnToken(key, actualKey string, token Token) TraverseAction {
	c.tokens = append(c.tokens, token)
	if c.limit > 0 && len(c.tokens) >= c.limit {
		return TraverseDone
	}
	return TraverseContinue
}

type skipKeyCallback struct {
	BaseCallback
	skip   string
	tokens []Token
}

func (c *skipKeyCallback) OnKey(key string) TraverseAction {
	if key == c.skip {
		return TraverseNextKey
	}
	return TraverseContinue
}

func (c *skipKeyCallback) OnToken(key, actualKey string, token Token) TraverseAction {
	c.tokens = append(c.tokens, token)
	return TraverseContinue
}

func testDict() *TrieDictionary {
	d := NewTrieDictionary()
	for _, t := range []Token{
		{Key: "あ", Value: "亜", Cost: 100},
		{Key: "あい", Value: "愛", Cost: 200},
		{Key: "あい", Value: "藍", Cost: 300},
		{Key: "あいさつ", Value: "挨拶", Cost: 400},
		{Key: "かき", Value: "柿", Cost: 500},
	} {
		d.Add(t)
	}
	return d
}

func TestLookupPredictive(t *testing.T) {
	d := testDict()
	var c collectCallback
	d.LookupPredictive("あい", &c)

	if len(c.tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(c.tokens))
	}
	for _, token := range c.tokens {
		if token.Key != "あい" && token.Key != "あいさつ" {
			t.Errorf("unexpected key %q", token.Key)
		}
	}
}

func TestLookupPredictiveEmptyKeyVisitsAll(t *testing.T) {
	d := testDict()
	var c collectCallback
	d.LookupPredictive("", &c)
	if len(c.tokens) != 5 {
		t.Errorf("got %d tokens, want 5", len(c.tokens))
	}
}

func TestLookupPredictiveHonorsDone(t *testing.T) {
	d := testDict()
	c := collectCallback{limit: 2}
	d.LookupPredictive("", &c)
	if len(c.tokens) != 2 {
		t.Errorf("traversal not stopped: got %d tokens", len(c.tokens))
	}
}

func TestLookupPredictiveSkipsKey(t *testing.T) {
	d := testDict()
	c := skipKeyCallback{skip: "あい"}
	d.LookupPredictive("あ", &c)
	for _, token := range c.tokens {
		if token.Key == "あい" {
			t.Errorf("skipped key still visited: %v", token)
		}
	}
	// The longer あいさつ is under a separate node and must still appear.
	found := false
	for _, token := range c.tokens {
		if token.Key == "あいさつ" {
			found = true
		}
	}
	if !found {
		t.Error("あいさつ missing after NextKey on あい")
	}
}

func TestLookupPrefix(t *testing.T) {
	d := testDict()
	var c collectCallback
	d.LookupPrefix("あいさつかい", &c)

	keys := make(map[string]bool)
	for _, token := range c.tokens {
		keys[token.Key] = true
	}
	for _, want := range []string{"あ", "あい", "あいさつ"} {
		if !keys[want] {
			t.Errorf("prefix %q missing from lookup", want)
		}
	}
	if keys["かき"] {
		t.Error("non-prefix key visited")
	}
}

func TestLookupExact(t *testing.T) {
	d := testDict()
	var c collectCallback
	d.LookupExact("あい", &c)
	if len(c.tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(c.tokens))
	}
}

func TestLookupReverse(t *testing.T) {
	d := testDict()
	var c collectCallback
	d.LookupReverse("愛情", &c)
	found := false
	for _, token := range c.tokens {
		if token.Value == "愛" {
			found = true
		}
	}
	if !found {
		t.Error("reverse lookup missed 愛")
	}
}

func TestHasKeyHasValue(t *testing.T) {
	d := testDict()
	if !d.HasKey("あいさつ") || d.HasKey("あいさ") {
		t.Error("HasKey misbehaves")
	}
	if !d.HasValue("挨拶") || d.HasValue("挨") {
		t.Error("HasValue misbehaves")
	}
}

package predictor

import (
	"testing"

	"github.com/kbc-developers/yosoku/internal/japanese"
	"github.com/kbc-developers/yosoku/pkg/dictionary"
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
)

func TestMissSpelledPosition(t *testing.T) {
	tests := []struct {
		key, value string
		want       int
	}{
		{"おーすとりら", "オーストラリア", 4},
		{"とうきょう", "トウキョウ", 5},
		{"とうきょう", "東京", 5},
		{"あいう", "アイエ", 2},
		{"", "アイ", 0},
	}
	for _, tt := range tests {
		if got := missSpelledPosition(tt.key, tt.value); got != tt.want {
			t.Errorf("missSpelledPosition(%q, %q) = %d, want %d", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestIsAggressiveSuggestion(t *testing.T) {
	tests := []struct {
		name            string
		queryLen        int
		keyLen          int
		cost            int
		isSuggestion    bool
		totalCandidates int
		want            bool
	}{
		{"long phrase from short query", 3, 10, 6000, true, 20, true},
		{"prediction mode is exempt", 3, 10, 6000, false, 20, false},
		{"few candidates are allowed", 3, 10, 6000, true, 5, false},
		{"cheap candidates are allowed", 3, 10, 4000, true, 20, false},
		{"short keys are allowed", 3, 7, 6000, true, 20, false},
		{"long enough query", 5, 10, 6000, true, 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAggressiveSuggestion(tt.queryLen, tt.keyLen, tt.cost, tt.isSuggestion, tt.totalCandidates)
			if got != tt.want {
				t.Errorf("isAggressiveSuggestion = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveMissSpelledCandidates(t *testing.T) {
	mk := func(key, value string, corrected bool) result {
		r := result{key: key, value: value, types: unigram}
		if corrected {
			r.candidateAttributes = segments.AttrSpellingCorrection
		}
		return r
	}

	t.Run("same key and same value peers kill both sides", func(t *testing.T) {
		p, _ := newTestPredictor(t)
		results := []result{
			mk("ばっく", "バッグ", true),
			mk("ばっく", "バック", false),
			mk("ばっぐ", "バッグ", false),
		}
		p.removeMissSpelledCandidates(3, results)
		if results[0].types != noPrediction {
			t.Error("corrected result must die")
		}
		if results[1].types != noPrediction {
			t.Error("same-key peer must die")
		}
		if results[2].types == noPrediction {
			t.Error("same-value peer must survive")
		}
	})

	t.Run("only same value kills the correction", func(t *testing.T) {
		p, _ := newTestPredictor(t)
		results := []result{
			mk("ばっく", "バッグ", true),
			mk("ばっぐ", "バッグ", false),
		}
		p.removeMissSpelledCandidates(3, results)
		if results[0].types != noPrediction {
			t.Error("corrected duplicate must die")
		}
		if results[1].types == noPrediction {
			t.Error("normal result must survive")
		}
	})

	t.Run("only same key kills the peers", func(t *testing.T) {
		p, _ := newTestPredictor(t)
		results := []result{
			mk("てすと", "great", true),
			mk("てすと", "テスト", false),
		}
		p.removeMissSpelledCandidates(1, results)
		if results[1].types != noPrediction {
			t.Error("same-key peer must die")
		}
		// Non-kana value: missSpelledPosition falls back to key length
		// (3), and the request key is shorter, so the correction dies too.
		if results[0].types != noPrediction {
			t.Error("correction must die when the typed key is short of the divergence")
		}
	})

	t.Run("scan limit caps the pass", func(t *testing.T) {
		p, _ := newTestPredictor(t)
		var results []result
		for i := 0; i < 10; i++ {
			results = append(results, mk("かぎ", "カギ", true))
		}
		results = append(results, mk("かぎ", "鍵", false))
		p.removeMissSpelledCandidates(2, results)
		killed := 0
		for _, r := range results {
			if r.types == noPrediction {
				killed++
			}
		}
		if killed > 2*spellingCorrectionScanLimit {
			t.Errorf("scan limit not applied: %d results killed", killed)
		}
	})
}

func TestSetLMCostBigramDiscount(t *testing.T) {
	p, _ := newTestPredictor(t)
	segs := makeSegments(segments.Suggestion, "")
	segs.AddHistorySegment("ろっぽんぎ", &segments.Candidate{
		Key: "ろっぽんぎ", Value: "六本木", Rid: 30, Cost: 2000,
	})

	results := []result{
		{key: "ろっぽんぎひるず", value: "六本木ヒルズ", wcost: 2000, types: bigram},
		{key: "です", value: "です", wcost: 2000, types: suffix},
	}
	p.setLMCost(segs, results)

	// bigram: 100 (transition) + 2000 (wcost) + 1347 - 800 - 2000 = 647
	if results[0].cost != 647 {
		t.Errorf("bigram cost = %d, want 647", results[0].cost)
	}
	// suffix: 100 + 2000, no bigram adjustment
	if results[1].cost != 2100 {
		t.Errorf("suffix cost = %d, want 2100", results[1].cost)
	}
}

func TestSetLMCostNotExactPenalty(t *testing.T) {
	p, _ := newTestPredictor(t)
	segs := makeSegments(segments.Suggestion, "てすと")

	results := []result{
		{key: "てすと", value: "テスト", wcost: 1000, types: unigram},
		{key: "てすとだい", value: "テスト代", wcost: 1000, types: unigram},
	}
	p.setLMCost(segs, results)

	if results[0].cost != 1100 {
		t.Errorf("exact-length cost = %d, want 1100", results[0].cost)
	}
	if results[1].cost != 1100+1956 {
		t.Errorf("longer-key cost = %d, want %d", results[1].cost, 1100+1956)
	}
}

func TestSetLMCostBadSuggestionPenalty(t *testing.T) {
	p, _ := newTestPredictor(t, withFilterValues("テスト"))
	segs := makeSegments(segments.Suggestion, "てすと")

	results := []result{
		{key: "てすと", value: "テスト", wcost: 1000, types: unigram},
	}
	p.setLMCost(segs, results)
	if results[0].cost != 1100+3453 {
		t.Errorf("filtered value cost = %d, want %d", results[0].cost, 1100+3453)
	}
}

func TestApplyPenaltyForKeyExpansion(t *testing.T) {
	p, _ := newTestPredictor(t)
	segs := makeSegments(segments.Suggestion, "あか")

	results := []result{
		{key: "あかい", value: "赤い", cost: 1000, types: unigram},
		{key: "あがく", value: "足掻く", cost: 1000, types: unigram},
		{key: "あがく", value: "足掻く", cost: 1000, types: typingCorrection},
	}
	p.applyPenaltyForKeyExpansion(segs, results)

	if results[0].cost != 1000 {
		t.Errorf("non-expanded result penalized: cost = %d", results[0].cost)
	}
	if results[1].cost != 1000+1151 {
		t.Errorf("expanded result cost = %d, want %d", results[1].cost, 1000+1151)
	}
	if results[2].cost != 1000 {
		t.Errorf("typing correction must skip the expansion penalty: cost = %d", results[2].cost)
	}
}

func TestCheckBigramResultTable(t *testing.T) {
	historyToken := dictionary.Token{Key: "ろっぽんぎ", Value: "六本木", Cost: 800}
	kanaHistoryToken := dictionary.Token{Key: "あめ", Value: "アメ", Cost: 1500}

	tests := []struct {
		name     string
		history  dictionary.Token
		key      string
		value    string
		wcost    int
		wantDead bool
	}{
		{
			name:    "kanji history with katakana continuation survives",
			history: historyToken,
			key:     "ろっぽんぎひるず", value: "六本木ヒルズ", wcost: 2000,
			wantDead: false,
		},
		{
			name:    "continuation cheaper than history dies",
			history: kanaHistoryToken,
			key:     "あめりか", value: "アメリカ", wcost: 900,
			wantDead: true,
		},
		{
			name:    "katakana run with short key dies",
			history: kanaHistoryToken,
			key:     "あめりか", value: "アメリカ", wcost: 2000,
			wantDead: true,
		},
		{
			name:    "empty continuation dies",
			history: historyToken,
			key:     "ろっぽんぎ", value: "六本木", wcost: 2000,
			wantDead: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPredictor(t)
			r := result{key: tt.key, value: tt.value, wcost: tt.wcost, types: bigram}
			historyCtype := japanese.GetScriptType(tt.history.Value)
			lastCtype := japanese.LastScriptType(tt.history.Value)
			p.checkBigramResult(tt.history, historyCtype, lastCtype, &r)
			if dead := r.types == noPrediction; dead != tt.wantDead {
				t.Errorf("dead = %v, want %v", dead, tt.wantDead)
			}
		})
	}
}

func TestCheckBigramResultKanjiCompound(t *testing.T) {
	// Kanji compounds of two or more chars skip the dictionary check even
	// when the pair is out of vocabulary.
	p, _ := newTestPredictor(t)
	historyToken := dictionary.Token{Key: "きょうとだいがく", Value: "京都大学", Cost: 1000}
	r := result{
		key:   "きょうとだいがくれいちょうるいけんきゅうじょ",
		value: "京都大学霊長類研究所",
		wcost: 4000,
		types: bigram,
	}
	p.checkBigramResult(historyToken, japanese.Kanji, japanese.Kanji, &r)
	if r.types == noPrediction {
		t.Error("long kanji compound must survive without a dictionary entry")
	}
}

func TestUnigramMixedConversionRefinement(t *testing.T) {
	// Every value extends 東, so the first refinement round drops all of
	// them as redundant and only the five cheapest are revived.
	dict := dictionary.NewTrieDictionary()
	dict.Add(dictionary.Token{Key: "とう", Value: "東", Cost: 100})
	dict.Add(dictionary.Token{Key: "とうきょう", Value: "東京", Cost: 200})
	exts := []string{"東京駅", "東京都", "東京湾", "東京タワー", "東京都庁", "東京駅前", "東京行き"}
	for i, ext := range exts {
		dict.Add(dictionary.Token{Key: "とうきょう" + string(rune('あ'+i)), Value: ext, Cost: 300 + i*10})
	}

	p, env := newTestPredictor(t)
	env.dict = dict
	p.dictionary = dict

	req := request.New(nil, request.ClientRequest{MixedConversion: true}, request.Config{
		UseDictionarySuggest: true,
	})
	segs := makeSegments(segments.Suggestion, "とう")

	results := p.aggregateUnigramPrediction(unigram, req, segs, nil)

	values := make(map[string]bool)
	for _, r := range results {
		values[r.value] = true
	}
	if !values["東"] {
		t.Fatalf("reference result missing: %v", values)
	}
	for _, want := range []string{"東京", "東京駅", "東京都", "東京湾", "東京タワー"} {
		if !values[want] {
			t.Errorf("revived result %q missing", want)
		}
	}
	for _, drop := range []string{"東京都庁", "東京駅前", "東京行き"} {
		if values[drop] {
			t.Errorf("redundant result %q must stay dropped", drop)
		}
	}
}

func TestUnigramDesktopCutoffDiscardsSaturatedPass(t *testing.T) {
	dict := dictionary.NewTrieDictionary()
	for i := 0; i < suggestionCutoff+10; i++ {
		key := "てすと" + string(rune('あ'+i%70)) + string(rune('あ'+i/70))
		dict.Add(dictionary.Token{Key: key, Value: key, Cost: 100 + i})
	}
	p, env := newTestPredictor(t)
	env.dict = dict
	p.dictionary = dict

	segs := makeSegments(segments.Suggestion, "てすと")
	results := p.aggregateUnigramCandidate(suggestRequest(), segs, nil)
	if len(results) != 0 {
		t.Errorf("saturated unigram pass must be discarded, kept %d", len(results))
	}
}

package server

import (
	"bytes"
	"io"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kbc-developers/yosoku/pkg/config"
	"github.com/kbc-developers/yosoku/pkg/dictionary"
	"github.com/kbc-developers/yosoku/pkg/predictor"
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
	"github.com/kbc-developers/yosoku/pkg/suggestionfilter"
)

type noConverter struct{}

func (noConverter) StartConversionForRequest(*request.ConversionRequest, *segments.Segments) bool {
	return false
}
func (noConverter) ConvertForRequest(*request.ConversionRequest, *segments.Segments) bool {
	return false
}

type flatConnector struct{}

func (flatConnector) TransitionCost(rid, lid int) int { return 0 }

type flatSegmenter struct{}

func (flatSegmenter) SuffixPenalty(rid int) int { return 0 }

type posMatcher struct{}

func (posMatcher) CounterSuffixWordID() int { return 2004 }

func testServer(t *testing.T, in io.Reader, out io.Writer) *Server {
	t.Helper()
	dict := dictionary.NewTrieDictionary()
	dict.Add(dictionary.Token{Key: "ぐーぐるあどせんす", Value: "グーグルアドセンス", Cost: 5000})
	suffixDict := dictionary.NewTrieDictionary()

	p := predictor.New(
		noConverter{}, noConverter{}, dict, suffixDict,
		flatConnector{}, flatSegmenter{}, posMatcher{},
		suggestionfilter.New(nil), nil, predictor.Options{},
	)
	return NewServer(p, config.Default(), in, out)
}

func TestServerPredictRoundTrip(t *testing.T) {
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	if err := enc.Encode(PredictRequest{ID: "req1", Key: "ぐーぐるあ", Limit: 5}); err != nil {
		t.Fatal(err)
	}

	srv := testServer(t, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var resp PredictResponse
	if err := msgpack.NewDecoder(&out).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "req1" {
		t.Errorf("ID = %q, want req1", resp.ID)
	}
	if resp.Count == 0 {
		t.Fatal("no candidates returned")
	}
	if resp.Candidates[0].Value != "グーグルアドセンス" {
		t.Errorf("top candidate = %q", resp.Candidates[0].Value)
	}
}

func TestServerEmptyResultIsNotAnError(t *testing.T) {
	var in, out bytes.Buffer
	if err := msgpack.NewEncoder(&in).Encode(PredictRequest{ID: "req2", Key: "しらないことば"}); err != nil {
		t.Fatal(err)
	}

	srv := testServer(t, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var resp PredictResponse
	if err := msgpack.NewDecoder(&out).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("Count = %d, want 0", resp.Count)
	}
}

func TestServerRejectsOversizedKey(t *testing.T) {
	var in, out bytes.Buffer
	long := bytes.Repeat([]byte("あ"), 200)
	if err := msgpack.NewEncoder(&in).Encode(PredictRequest{ID: "req3", Key: string(long)}); err != nil {
		t.Fatal(err)
	}

	srv := testServer(t, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var errResp ErrorResponse
	if err := msgpack.NewDecoder(&out).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != 400 {
		t.Errorf("Code = %d, want 400", errResp.Code)
	}
}

package segments

import "testing"

func TestEncodeDecodeLengths(t *testing.T) {
	encoded, err := EncodeLengths(9, 12, 9, 12)
	if err != nil {
		t.Fatalf("EncodeLengths: %v", err)
	}
	k, v, ck, cv := DecodeLengths(encoded)
	if k != 9 || v != 12 || ck != 9 || cv != 12 {
		t.Errorf("decoded (%d %d %d %d), want (9 12 9 12)", k, v, ck, cv)
	}
}

func TestEncodeLengthsOverflow(t *testing.T) {
	if _, err := EncodeLengths(256, 1, 1, 1); err == nil {
		t.Error("length over one byte must fail")
	}
	if _, err := EncodeLengths(1, -1, 1, 1); err == nil {
		t.Error("negative length must fail")
	}
}

func TestHistoryConversionSplit(t *testing.T) {
	segs := NewSegments()
	segs.AddHistorySegment("ぐーぐる", &Candidate{Key: "ぐーぐる", Value: "グーグル"})
	segs.AddConversionSegment("あ")

	if segs.HistorySegmentsSize() != 1 || segs.ConversionSegmentsSize() != 1 {
		t.Fatal("segment split broken")
	}
	if segs.SegmentsSize() != 2 {
		t.Error("total size broken")
	}
	if segs.Segment(0).Key() != "ぐーぐる" || segs.Segment(1).Key() != "あ" {
		t.Error("history-first indexing broken")
	}
	if segs.HistorySegment(0).Candidate(0).Value != "グーグル" {
		t.Error("history candidate lost")
	}
}

func TestEraseCandidates(t *testing.T) {
	seg := &Segment{}
	for i := 0; i < 5; i++ {
		c := seg.PushBackCandidate()
		c.Cost = i
	}
	seg.EraseCandidates(1, 3)
	if seg.CandidatesSize() != 2 {
		t.Fatalf("size = %d, want 2", seg.CandidatesSize())
	}
	if seg.Candidate(0).Cost != 0 || seg.Candidate(1).Cost != 4 {
		t.Error("wrong candidates erased")
	}
}

func TestCloneIsDeep(t *testing.T) {
	segs := NewSegments()
	segs.SetRequestType(Prediction)
	seg := segs.AddConversionSegment("てすと")
	c := seg.PushBackCandidate()
	c.Value = "テスト"
	c.InnerSegmentBoundary = []uint32{42}

	clone := segs.Clone()
	clone.ConversionSegment(0).Candidate(0).Value = "別物"
	clone.ConversionSegment(0).Candidate(0).InnerSegmentBoundary[0] = 7

	if seg.Candidate(0).Value != "テスト" {
		t.Error("clone shares candidate values")
	}
	if seg.Candidate(0).InnerSegmentBoundary[0] != 42 {
		t.Error("clone shares boundary slices")
	}
	if clone.RequestType() != Prediction {
		t.Error("request type not copied")
	}
}

/*
Package segments holds the segment and candidate containers shared between
the conversion pipeline and the prediction engine.

A Segments value is an ordered list of segments split into a history prefix
(already committed) and a conversion suffix (still being composed). Each
segment carries a reading key and a ranked candidate list; candidate 0 is
the current best.
*/
package segments

import "errors"

// RequestType selects the conversion pipeline behavior for one request.
type RequestType int

const (
	Conversion RequestType = iota
	Suggestion
	Prediction
	PartialSuggestion
	PartialPrediction
	ReverseConversion
)

// SegmentType describes how fixed a segment's top candidate is.
type SegmentType int

const (
	Free SegmentType = iota
	FixedBoundary
	FixedValue
	History
)

// Candidate attribute bits.
const (
	AttrNone                  uint32 = 0
	AttrSpellingCorrection    uint32 = 1 << 0
	AttrUserDictionary        uint32 = 1 << 1
	AttrTypingCorrection      uint32 = 1 << 2
	AttrRealtimeConversion    uint32 = 1 << 3
	AttrNoVariantsExpansion   uint32 = 1 << 4
	AttrNoExtraDescription    uint32 = 1 << 5
	AttrPartiallyKeyConsumed  uint32 = 1 << 6
	AttrAutoPartialSuggestion uint32 = 1 << 7
)

// Source info bits tagging which zero-query table produced a candidate.
const (
	SourceNone                  uint32 = 0
	SourceZeroQueryNone         uint32 = 1 << 0
	SourceZeroQueryNumberSuffix uint32 = 1 << 1
	SourceZeroQueryEmoticon     uint32 = 1 << 2
	SourceZeroQueryEmoji        uint32 = 1 << 3
	SourceZeroQueryBigram       uint32 = 1 << 4
	SourceZeroQuerySuffix       uint32 = 1 << 5
)

var errLengthOverflow = errors.New("segments: length does not fit in one byte")

// Candidate is one conversion result attached to a segment.
type Candidate struct {
	Key          string
	Value        string
	ContentKey   string
	ContentValue string

	// WCost is the per-entry word cost; Cost is the final ranking cost.
	WCost int
	Cost  int

	Lid int
	Rid int

	Attributes uint32
	SourceInfo uint32

	// ConsumedKeySize is set when AttrPartiallyKeyConsumed is present.
	ConsumedKeySize int

	// InnerSegmentBoundary reconstructs multi-segment structure inside a
	// concatenated realtime candidate. Each element encodes the four
	// lengths of one inner segment; see EncodeLengths.
	InnerSegmentBoundary []uint32

	Description string
}

// EncodeLengths packs the four byte-lengths of one inner segment into a
// single uint32. Each length must fit in one byte.
func EncodeLengths(keyLen, valueLen, contentKeyLen, contentValueLen int) (uint32, error) {
	if keyLen > 255 || valueLen > 255 || contentKeyLen > 255 || contentValueLen > 255 ||
		keyLen < 0 || valueLen < 0 || contentKeyLen < 0 || contentValueLen < 0 {
		return 0, errLengthOverflow
	}
	return uint32(keyLen)<<24 | uint32(valueLen)<<16 |
		uint32(contentKeyLen)<<8 | uint32(contentValueLen), nil
}

// DecodeLengths is the inverse of EncodeLengths.
func DecodeLengths(encoded uint32) (keyLen, valueLen, contentKeyLen, contentValueLen int) {
	return int(encoded >> 24 & 0xff), int(encoded >> 16 & 0xff),
		int(encoded >> 8 & 0xff), int(encoded & 0xff)
}

// Segment is one unit of the conversion lattice output: a reading key plus
// its ranked candidates.
type Segment struct {
	key        string
	segType    SegmentType
	candidates []*Candidate
}

// Key returns the segment's reading.
func (s *Segment) Key() string { return s.key }

// SetKey replaces the segment's reading.
func (s *Segment) SetKey(key string) { s.key = key }

// Type returns the segment type.
func (s *Segment) Type() SegmentType { return s.segType }

// SetType changes the segment type.
func (s *Segment) SetType(t SegmentType) { s.segType = t }

// CandidatesSize returns the number of candidates.
func (s *Segment) CandidatesSize() int { return len(s.candidates) }

// Candidate returns the i-th candidate. Callers must bound-check with
// CandidatesSize first.
func (s *Segment) Candidate(i int) *Candidate { return s.candidates[i] }

// PushBackCandidate appends an empty candidate and returns it.
func (s *Segment) PushBackCandidate() *Candidate {
	c := &Candidate{}
	s.candidates = append(s.candidates, c)
	return c
}

// EraseCandidates removes count candidates starting at index start.
func (s *Segment) EraseCandidates(start, count int) {
	if start < 0 || start >= len(s.candidates) {
		return
	}
	end := start + count
	if end > len(s.candidates) {
		end = len(s.candidates)
	}
	s.candidates = append(s.candidates[:start], s.candidates[end:]...)
}

// Segments is the ordered history + conversion segment list for one request.
type Segments struct {
	requestType RequestType
	history     []*Segment
	conversion  []*Segment

	maxPredictionCandidates int
	maxConversionCandidates int
}

// NewSegments returns an empty Segments in Conversion mode.
func NewSegments() *Segments {
	return &Segments{
		maxPredictionCandidates: 10,
		maxConversionCandidates: 20,
	}
}

// RequestType returns the current request type.
func (s *Segments) RequestType() RequestType { return s.requestType }

// SetRequestType changes the request type.
func (s *Segments) SetRequestType(t RequestType) { s.requestType = t }

// HistorySegmentsSize returns the number of history segments.
func (s *Segments) HistorySegmentsSize() int { return len(s.history) }

// ConversionSegmentsSize returns the number of conversion segments.
func (s *Segments) ConversionSegmentsSize() int { return len(s.conversion) }

// SegmentsSize returns the total number of segments.
func (s *Segments) SegmentsSize() int { return len(s.history) + len(s.conversion) }

// HistorySegment returns the i-th history segment.
func (s *Segments) HistorySegment(i int) *Segment { return s.history[i] }

// ConversionSegment returns the i-th conversion segment.
func (s *Segments) ConversionSegment(i int) *Segment { return s.conversion[i] }

// Segment returns the i-th segment counting history first.
func (s *Segments) Segment(i int) *Segment {
	if i < len(s.history) {
		return s.history[i]
	}
	return s.conversion[i-len(s.history)]
}

// AddHistorySegment appends a committed segment with a single fixed
// candidate.
func (s *Segments) AddHistorySegment(key string, c *Candidate) *Segment {
	seg := &Segment{key: key, segType: History}
	seg.candidates = append(seg.candidates, c)
	s.history = append(s.history, seg)
	return seg
}

// AddConversionSegment appends an in-progress segment for the given reading.
func (s *Segments) AddConversionSegment(key string) *Segment {
	seg := &Segment{key: key, segType: Free}
	s.conversion = append(s.conversion, seg)
	return seg
}

// Clone returns a deep copy, used when a segments value must serve as a
// scratch buffer for a nested converter call.
func (s *Segments) Clone() *Segments {
	clone := &Segments{
		requestType:             s.requestType,
		maxPredictionCandidates: s.maxPredictionCandidates,
		maxConversionCandidates: s.maxConversionCandidates,
	}
	for _, seg := range s.history {
		clone.history = append(clone.history, seg.clone())
	}
	for _, seg := range s.conversion {
		clone.conversion = append(clone.conversion, seg.clone())
	}
	return clone
}

func (s *Segment) clone() *Segment {
	c := &Segment{key: s.key, segType: s.segType}
	for _, cand := range s.candidates {
		copied := *cand
		copied.InnerSegmentBoundary = append([]uint32(nil), cand.InnerSegmentBoundary...)
		c.candidates = append(c.candidates, &copied)
	}
	return c
}

// MaxPredictionCandidatesSize returns the per-request prediction cap.
func (s *Segments) MaxPredictionCandidatesSize() int { return s.maxPredictionCandidates }

// SetMaxPredictionCandidatesSize sets the per-request prediction cap.
func (s *Segments) SetMaxPredictionCandidatesSize(n int) { s.maxPredictionCandidates = n }

// MaxConversionCandidatesSize returns the per-request conversion cap.
func (s *Segments) MaxConversionCandidatesSize() int { return s.maxConversionCandidates }

// SetMaxConversionCandidatesSize sets the per-request conversion cap.
func (s *Segments) SetMaxConversionCandidatesSize(n int) { s.maxConversionCandidates = n }

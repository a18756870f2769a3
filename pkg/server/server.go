package server

import (
	"errors"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kbc-developers/yosoku/internal/logger"
	"github.com/kbc-developers/yosoku/pkg/config"
	"github.com/kbc-developers/yosoku/pkg/predictor"
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
)

var log = logger.New("server")

// Server handles the IPC for prediction requests.
type Server struct {
	predictor *predictor.Predictor
	cfg       *config.Config
	decoder   *msgpack.Decoder
	encoder   *msgpack.Encoder
}

// NewServer creates a prediction server reading requests from r and
// writing responses to w.
func NewServer(p *predictor.Predictor, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		predictor: p,
		cfg:       cfg,
		decoder:   msgpack.NewDecoder(r),
		encoder:   msgpack.NewEncoder(w),
	}
}

// Start processes requests until EOF.
func (s *Server) Start() error {
	log.Debug("Starting prediction server")

	for {
		var req PredictRequest
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handlePredict(req)
	}
}

func (s *Server) handlePredict(req PredictRequest) {
	if len(req.Key) > s.cfg.Server.MaxKeyBytes {
		s.sendError(req.ID, "Key exceeds maximum length", 400)
		return
	}

	limit := req.Limit
	if limit < 1 || limit > s.cfg.Server.MaxCandidates {
		limit = s.cfg.Server.MaxCandidates
	}

	segs := segments.NewSegments()
	switch req.Mode {
	case "prediction":
		segs.SetRequestType(segments.Prediction)
	default:
		segs.SetRequestType(segments.Suggestion)
	}
	segs.SetMaxPredictionCandidatesSize(limit)
	if req.HistoryKey != "" || req.HistoryValue != "" {
		segs.AddHistorySegment(req.HistoryKey, &segments.Candidate{
			Key:   req.HistoryKey,
			Value: req.HistoryValue,
		})
	}
	segs.AddConversionSegment(req.Key)

	convReq := request.New(nil, s.cfg.ClientRequest(), s.cfg.RequestConfig())

	start := time.Now()
	s.predictor.PredictForRequest(convReq, segs)
	elapsed := time.Since(start)

	segment := segs.ConversionSegment(0)
	candidates := make([]PredictCandidate, 0, segment.CandidatesSize())
	for i := 0; i < segment.CandidatesSize(); i++ {
		c := segment.Candidate(i)
		candidates = append(candidates, PredictCandidate{
			Key:         c.Key,
			Value:       c.Value,
			Cost:        c.Cost,
			Description: c.Description,
		})
	}

	s.sendResponse(PredictResponse{
		ID:         req.ID,
		Candidates: candidates,
		Count:      len(candidates),
		TimeTaken:  elapsed.Microseconds(),
	})
}

func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}

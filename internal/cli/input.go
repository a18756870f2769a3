// Package cli provides an interactive prompt for exercising the
// prediction engine during development and debugging.
package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kbc-developers/yosoku/internal/logger"
	"github.com/kbc-developers/yosoku/pkg/config"
	"github.com/kbc-developers/yosoku/pkg/predictor"
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
)

// InputHandler reads readings from stdin and prints ranked predictions.
// A line of the form "history_key/history_value reading" sets a committed
// history segment for bigram and zero-query behavior.
type InputHandler struct {
	predictor    *predictor.Predictor
	cfg          *config.Config
	suggestLimit int
	requestCount int
	log          *log.Logger
}

// NewInputHandler initializes the handler with basic parameters.
func NewInputHandler(p *predictor.Predictor, cfg *config.Config, limit int) *InputHandler {
	return &InputHandler{
		predictor:    p,
		cfg:          cfg,
		suggestLimit: limit,
		log:          logger.New("cli"),
	}
}

// Start begins the interface loop. It terminates when stdin closes.
func (h *InputHandler) Start() error {
	log.Print("Yosoku CLI")
	log.Print("type a reading and press Enter; 'history_key/history_value reading' to set history (Ctrl+C to exit):")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	var historyKey, historyValue, key string
	if before, after, found := strings.Cut(line, " "); found && strings.Contains(before, "/") {
		hk, hv, _ := strings.Cut(before, "/")
		historyKey, historyValue = hk, hv
		key = after
	} else {
		key = line
	}

	segs := segments.NewSegments()
	segs.SetRequestType(segments.Suggestion)
	segs.SetMaxPredictionCandidatesSize(h.suggestLimit)
	if historyKey != "" {
		segs.AddHistorySegment(historyKey, &segments.Candidate{
			Key:   historyKey,
			Value: historyValue,
		})
	}
	if key == "-" {
		// Zero-query probe.
		key = ""
	}
	segs.AddConversionSegment(key)

	req := request.New(nil, h.cfg.ClientRequest(), h.cfg.RequestConfig())

	if !h.predictor.PredictForRequest(req, segs) {
		h.log.Infof("No predictions for %q", key)
		return
	}

	segment := segs.ConversionSegment(0)
	for i := 0; i < segment.CandidatesSize(); i++ {
		c := segment.Candidate(i)
		h.log.Printf("%2d. %s (%s) cost=%d %s", i+1, c.Value, c.Key, c.Cost, c.Description)
	}
}

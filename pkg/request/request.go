/*
Package request carries the per-call inputs to the conversion and
prediction pipeline: the composer state, the client feature block, and the
user configuration.
*/
package request

// InputMode is the composer's transliteration mode.
type InputMode int

const (
	ModeHiragana InputMode = iota
	ModeKatakana
	ModeHalfKatakana
	ModeHalfASCII
	ModeFullASCII
)

// Emoji carrier bits advertised by the client.
const (
	EmojiCarrierUnicode  uint32 = 1 << 0
	EmojiCarrierDocomo   uint32 = 1 << 1
	EmojiCarrierSoftbank uint32 = 1 << 2
	EmojiCarrierKDDI     uint32 = 1 << 3
)

// KeySelection chooses which key the converter reads from the composer.
type KeySelection int

const (
	ConversionKey KeySelection = iota
	PredictionKey
)

// TypeCorrectedQuery is one typing-corrected lookup produced by the
// composer: a base key, its ambiguity expansions, and the cost penalty the
// correction carries.
type TypeCorrectedQuery struct {
	Base     string
	Expanded []string
	Cost     int
}

// Composer exposes the in-progress composition to the predictor. Implemented
// by the client's composition engine; test doubles implement it directly.
type Composer interface {
	InputMode() InputMode
	// Cursor and Length are in runes over the composition.
	Cursor() int
	Length() int
	// QueryForPrediction returns the current query string.
	QueryForPrediction() string
	// QueriesForPrediction returns the unambiguous base of the query plus
	// the set of expansion strings that may follow it.
	QueriesForPrediction() (base string, expanded []string)
	// TypeCorrectedQueries returns typing-corrected alternatives of the
	// query, each with a correction penalty.
	TypeCorrectedQueries() []TypeCorrectedQuery
}

// ClientRequest is the feature block sent by the client application.
type ClientRequest struct {
	MixedConversion       bool
	ZeroQuerySuggestion   bool
	AvailableEmojiCarrier uint32
	SpecialRomanjiTable   bool
}

// Config is the user-facing configuration consumed by the predictor.
type Config struct {
	UseDictionarySuggest                 bool
	UseRealtimeConversion                bool
	UseTypingCorrection                  bool
	UseKanaModifierInsensitiveConversion bool
}

// ConversionRequest bundles everything one conversion or prediction call
// needs. Collaborator references are borrowed and must outlive the call.
type ConversionRequest struct {
	composer Composer
	client   ClientRequest
	config   Config

	UseActualConverterForRealtimeConversion bool
	ComposerKeySelection                    KeySelection
	SkipSlowRewriters                       bool
	CreatePartialCandidates                 bool
}

// New returns a request with the given composer, client features and config.
// A nil composer is allowed; HasComposer reports it.
func New(composer Composer, client ClientRequest, config Config) *ConversionRequest {
	return &ConversionRequest{
		composer:                composer,
		client:                  client,
		config:                  config,
		CreatePartialCandidates: true,
	}
}

// HasComposer reports whether composer state is attached.
func (r *ConversionRequest) HasComposer() bool { return r.composer != nil }

// Composer returns the attached composer; callers must check HasComposer.
func (r *ConversionRequest) Composer() Composer { return r.composer }

// Client returns the client feature block.
func (r *ConversionRequest) Client() ClientRequest { return r.client }

// Config returns the user configuration.
func (r *ConversionRequest) Config() Config { return r.config }

// Clone returns a shallow copy suitable for per-call tweaks such as key
// selection overrides.
func (r *ConversionRequest) Clone() *ConversionRequest {
	clone := *r
	return &clone
}

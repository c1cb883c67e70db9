package domain

// EntryKind classifies an interaction
type EntryKind string

const (
	EntrySpeechToText EntryKind = "speech_to_text"
	EntryTextToSpeech EntryKind = "text_to_speech"
	EntrySignToSpeech EntryKind = "sign_to_speech"
	EntrySpeechToSign EntryKind = "speech_to_sign"
)

// Valid reports whether k is a known kind
func (k EntryKind) Valid() bool {
	switch k {
	case EntrySpeechToText, EntryTextToSpeech, EntrySignToSpeech, EntrySpeechToSign:
		return true
	}
	return false
}

// HistoryCapacity is the number of entries kept in the log
const HistoryCapacity = 100

// HistoryEntry is one logged interaction
type HistoryEntry struct {
	Kind      EntryKind `json:"kind"`
	Text      string    `json:"text"`
	Timestamp int64     `json:"timestamp"` // epoch ms
}

// Kind sets shown by the blind and deaf history panels
var (
	BlindHistoryKinds = []EntryKind{EntrySpeechToText, EntryTextToSpeech, EntrySpeechToSign}
	DeafHistoryKinds  = []EntryKind{EntrySpeechToSign, EntrySignToSpeech}
)

package service

import (
	"strings"
	"sync"

	"accessfirst/internal/domain"
)

// maxSignWords caps how many words are rendered as signs
const maxSignWords = 12

const fallbackSign = "🤟"

var signEmoji = map[string]string{
	"hello": "👋",
	"hi":    "👋",
	"yes":   "👍",
	"no":    "👎",
	"thank": "🙏",
	"help":  "🆘",
	"good":  "🌟",
}

// Palette lists the words offered for phrase building
var Palette = []string{"hello", "yes", "no", "thank", "help", "good"}

// SpeechToSign renders the first words of text as sign cards
func SpeechToSign(text string) []domain.SignCard {
	words := strings.Fields(text)
	if len(words) > maxSignWords {
		words = words[:maxSignWords]
	}

	cards := make([]domain.SignCard, 0, len(words))
	for _, w := range words {
		emoji, ok := signEmoji[strings.ToLower(w)]
		if !ok {
			emoji = fallbackSign
		}
		cards = append(cards, domain.SignCard{Word: w, Emoji: emoji})
	}
	return cards
}

// SignService renders signs and speaks assembled phrases, logging both
type SignService struct {
	history *HistoryService
}

func NewSignService(history *HistoryService) *SignService {
	return &SignService{history: history}
}

// Translate renders text as signs and logs it as speech_to_sign
func (s *SignService) Translate(text string) []domain.SignCard {
	cards := SpeechToSign(text)
	if len(cards) > 0 {
		s.history.Log(domain.EntrySpeechToSign, text)
	}
	return cards
}

// SpeakPhrase returns the phrase text and logs it as sign_to_speech.
// ok is false when the phrase is empty.
func (s *SignService) SpeakPhrase(phrase *Phrase) (text string, ok bool) {
	text = phrase.Text()
	if text == "" {
		return "", false
	}
	s.history.Log(domain.EntrySignToSpeech, text)
	return text, true
}

// Phrase is a sentence assembled from palette signs
type Phrase struct {
	mu    sync.Mutex
	words []string
}

// Append adds word to the end of the phrase
func (p *Phrase) Append(word string) string {
	word = strings.TrimSpace(word)

	p.mu.Lock()
	defer p.mu.Unlock()

	if word != "" {
		p.words = append(p.words, word)
	}
	return strings.Join(p.words, " ")
}

func (p *Phrase) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return strings.Join(p.words, " ")
}

func (p *Phrase) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.words = nil
}

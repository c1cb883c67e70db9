package domain

// SignCard is one word rendered as a sign
type SignCard struct {
	Word  string
	Emoji string
}

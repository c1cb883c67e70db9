package handler

import (
	"fmt"
	"strings"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/i18n"
)

const speakPrefix = "🔊 "

var viewEmoji = map[domain.ViewID]string{
	domain.ViewHome:         "🏠",
	domain.ViewAccessChoice: "♿",
	domain.ViewBlindFlow:    "🦯",
	domain.ViewDeafFlow:     "🤟",
	domain.ViewLogin:        "🔑",
	domain.ViewSignup:       "📝",
	domain.ViewSettings:     "⚙️",
	domain.ViewHistory:      "🕘",
}

// viewText returns the localized page text of view
func viewText(catalog *i18n.Catalog, lang domain.Language, view domain.ViewID) string {
	title := catalog.T(lang, "view_"+string(view))
	body := catalog.T(lang, "view_"+string(view)+"_body")
	if body == "view_"+string(view)+"_body" {
		body = ""
	}

	text := viewEmoji[view] + " " + title
	if body != "" {
		text += "\n\n" + body
	}
	return text
}

// formatSigns renders sign cards as "emoji word" pairs
func formatSigns(cards []domain.SignCard) string {
	if len(cards) == 0 {
		return "🤟"
	}
	parts := make([]string, 0, len(cards))
	for _, card := range cards {
		parts = append(parts, card.Emoji+" "+card.Word)
	}
	return strings.Join(parts, "  ")
}

// formatHistory renders entries newest first, one per line
func formatHistory(catalog *i18n.Catalog, lang domain.Language, entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return catalog.T(lang, "history_empty")
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		ts := time.UnixMilli(e.Timestamp).UTC().Format("15:04:05")
		fmt.Fprintf(&b, "%s %s: %s", ts, catalog.T(lang, "kind_"+string(e.Kind)), e.Text)
	}
	return b.String()
}

// formatPreferences renders the settings page body
func formatPreferences(catalog *i18n.Catalog, lang domain.Language, p domain.Preferences) string {
	onOff := func(v bool) string {
		if v {
			return "✅"
		}
		return "⬜"
	}
	return strings.Join([]string{
		fmt.Sprintf("%s %s /contrast", onOff(p.Contrast), catalog.T(lang, "pref_contrast")),
		fmt.Sprintf("%s %s /motion", onOff(p.ReduceMotion), catalog.T(lang, "pref_motion")),
		fmt.Sprintf("%s %s /demo", onOff(p.DemoMode), catalog.T(lang, "pref_demo")),
		fmt.Sprintf("🔠 %s: %s /font", catalog.T(lang, "pref_font"), p.FontSize),
	}, "\n")
}

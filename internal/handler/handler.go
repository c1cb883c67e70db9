package handler

import (
	"strings"
	"sync"

	"accessfirst/internal/domain"
	"accessfirst/internal/i18n"
	"accessfirst/internal/middleware"
	"accessfirst/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	sessions *service.SessionRegistry
	catalog  *i18n.Catalog
	logger   *zap.Logger

	// Per-chat locks serialize update processing
	chatLocks map[int64]*sync.Mutex
	chatMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	sessions *service.SessionRegistry,
	catalog *i18n.Catalog,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		sessions:      sessions,
		catalog:       catalog,
		logger:        logger,
		chatLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.SessionMiddleware(h.sessions, h.logger), h.serializeChat)

	// Navigation
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/home", h.handleHome)
	h.bot.Handle("/back", h.handleBack)

	// Identity
	h.bot.Handle("/guest", h.handleGuest)
	h.bot.Handle("/signup", h.handleSignup)
	h.bot.Handle("/login", h.handleLogin)
	h.bot.Handle("/logout", h.handleLogout)

	// Assistive flows
	h.bot.Handle("/blind", h.handleBlind)
	h.bot.Handle("/deaf", h.handleDeaf)
	h.bot.Handle("/say", h.handleSay)
	h.bot.Handle("/sign", h.handleSign)
	h.bot.Handle("/speak", h.handleSpeakPhrase)
	h.bot.Handle("/clearsign", h.handleClearPhrase)
	h.bot.Handle("/history", h.handleHistory)
	h.bot.Handle("/clearhistory", h.handleClearHistory)

	// Settings
	h.bot.Handle("/prefs", h.handlePrefs)
	h.bot.Handle("/contrast", h.handleContrast)
	h.bot.Handle("/motion", h.handleMotion)
	h.bot.Handle("/font", h.handleFont)
	h.bot.Handle("/demo", h.handleDemo)
	h.bot.Handle("/resetprefs", h.handleResetPrefs)
	h.bot.Handle("/lang", h.handleLang)

	// Commands that act on the current profile
	profileOnly := h.bot.Group()
	profileOnly.Use(middleware.RequireProfile(h.catalog, h.logger))
	profileOnly.Handle("/voice", h.handleVoice)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons), routed by handleCallback
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// getChatLock returns or creates a mutex for the given chat
func (h *Handler) getChatLock(chatID int64) *sync.Mutex {
	h.chatMux.Lock()
	defer h.chatMux.Unlock()

	lock, exists := h.chatLocks[chatID]
	if !exists {
		lock = &sync.Mutex{}
		h.chatLocks[chatID] = lock
	}
	return lock
}

// serializeChat runs the updates of one chat one at a time
func (h *Handler) serializeChat(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return next(c)
		}

		lock := h.getChatLock(chat.ID)
		lock.Lock()
		defer lock.Unlock()

		return next(c)
	}
}

// session returns the session the middleware attached to c
func (h *Handler) session(c tele.Context) *service.Session {
	return middleware.Session(c)
}

// t translates key into the session language
func (h *Handler) t(s *service.Session, key string) string {
	return h.catalog.T(s.Language.Get(), key)
}

// sendKey sends the translated text of key
func (h *Handler) sendKey(c tele.Context, s *service.Session, key string, opts ...interface{}) error {
	return c.Send(h.t(s, key), opts...)
}

// sendError maps a domain fault to its localized message
func (h *Handler) sendError(c tele.Context, s *service.Session, err error) error {
	if i18n.ErrorKey(err) == i18n.KeyErrGeneric {
		h.logger.Error("Unexpected error",
			zap.String("namespace", s.Namespace),
			zap.Error(err),
		)
	}
	return c.Send(h.catalog.Error(s.Language.Get(), err))
}

// Inline keyboard buttons
var (
	btnGetStarted = tele.Btn{Unique: "get_started"}
	btnGuest      = tele.Btn{Unique: "guest"}
	btnBlind      = tele.Btn{Unique: "blind"}
	btnDeaf       = tele.Btn{Unique: "deaf"}
	btnBack       = tele.Btn{Unique: "back"}
	btnSettings   = tele.Btn{Unique: "settings"}
)

// button returns a copy of b labelled in lang
func (h *Handler) button(lang domain.Language, b tele.Btn, key string) tele.Btn {
	b.Text = h.catalog.T(lang, key)
	return b
}

// homeMarkup returns the home page keyboard
func (h *Handler) homeMarkup(lang domain.Language) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(h.button(lang, btnGetStarted, "get_started")),
		menu.Row(h.button(lang, btnGuest, "continue_guest")),
		menu.Row(h.button(lang, btnSettings, "settings")),
	)
	return menu
}

// accessChoiceMarkup returns the access-choice page keyboard
func (h *Handler) accessChoiceMarkup(lang domain.Language) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(h.button(lang, btnBlind, "blind"), h.button(lang, btnDeaf, "deaf")),
		menu.Row(h.button(lang, btnBack, "back")),
	)
	return menu
}

// paletteMarkup returns the sign palette keyboard of the deaf flow
func (h *Handler) paletteMarkup(lang domain.Language) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var signs []tele.Btn
	for _, card := range service.SpeechToSign(strings.Join(service.Palette, " ")) {
		signs = append(signs, menu.Data(card.Emoji+" "+card.Word, signPrefix+card.Word))
	}
	rows := menu.Split(3, signs)
	rows = append(rows, menu.Row(h.button(lang, btnBack, "back")))
	menu.Inline(rows...)
	return menu
}

// backMarkup returns a keyboard with only the back button
func (h *Handler) backMarkup(lang domain.Language) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(h.button(lang, btnBack, "back")))
	return menu
}

package widget

import "portfolio-chat/internal/types"

// Strings holds every static text the widget renders for one language.
type Strings struct {
	Title       string
	Greeting    string
	Placeholder string
	Send        string
	Close       string
	Typing      string
	ToggleLabel string
	You         string
	Bot         string

	ErrDefault        string
	ErrConfiguration  string
	ErrAuthentication string
	ErrRateLimit      string
}

var translations = map[types.Language]Strings{
	types.LanguageEnglish: {
		Title:       "Chat with Gordon's assistant",
		Greeting:    "Hi! I'm Gordon's assistant. Ask me anything about his work in content creation, AI and video production.",
		Placeholder: "Type your message...",
		Send:        "Send",
		Close:       "Close",
		Typing:      "typing...",
		ToggleLabel: "DE",
		You:         "You",
		Bot:         "Assistant",

		ErrDefault:        "Sorry, something went wrong. Please try again.",
		ErrConfiguration:  "The chat is not configured correctly yet. Please try again later.",
		ErrAuthentication: "The chat service could not authenticate. Please try again later.",
		ErrRateLimit:      "Too many requests right now. Please wait a moment and try again.",
	},
	types.LanguageGerman: {
		Title:       "Chat mit Gordons Assistent",
		Greeting:    "Hallo! Ich bin Gordons Assistent. Frag mich alles über seine Arbeit als Content Creator, mit KI und in der Videoproduktion.",
		Placeholder: "Nachricht eingeben...",
		Send:        "Senden",
		Close:       "Schließen",
		Typing:      "schreibt...",
		ToggleLabel: "EN",
		You:         "Du",
		Bot:         "Assistent",

		ErrDefault:        "Entschuldigung, da ist etwas schiefgelaufen. Bitte versuche es erneut.",
		ErrConfiguration:  "Der Chat ist noch nicht richtig eingerichtet. Bitte versuche es später erneut.",
		ErrAuthentication: "Der Chat-Dienst konnte sich nicht authentifizieren. Bitte versuche es später erneut.",
		ErrRateLimit:      "Gerade gibt es zu viele Anfragen. Bitte warte einen Moment und versuche es erneut.",
	},
}

// StringsFor returns the translation table for lang, English when unknown.
func StringsFor(lang types.Language) Strings {
	if s, ok := translations[lang]; ok {
		return s
	}
	return translations[types.LanguageEnglish]
}

// ErrorMessage returns the localized text for an error message key.
func (s Strings) ErrorMessage(c MessageKey) string {
	switch c {
	case MessageConfiguration:
		return s.ErrConfiguration
	case MessageAuthentication:
		return s.ErrAuthentication
	case MessageRateLimit:
		return s.ErrRateLimit
	default:
		return s.ErrDefault
	}
}

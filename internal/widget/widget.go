// Package widget is the client side of the portfolio chat: an explicit state
// machine for the chat window plus an HTTP client for the proxy. It has no
// rendering of its own; front ends read State and call the operations below.
package widget

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/types"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type ChatMessage struct {
	Text    string
	Sender  Sender
	Pending bool
	// Error marks a bot message that replaced a failed request.
	Error bool

	greeting bool
	errKey   MessageKey
}

// IsGreeting reports whether m is the localized greeting added on Open.
func (m ChatMessage) IsGreeting() bool { return m.greeting }

type State struct {
	Open     bool
	Language types.Language
	Messages []ChatMessage
}

// Chatter delivers one chat request to the proxy. *Client implements it.
type Chatter interface {
	Chat(ctx context.Context, req types.ChatRequest) (string, error)
}

// Pending identifies an in-flight request started by Begin.
type Pending struct {
	Request types.ChatRequest

	seq   uint64
	index int
}

// Widget is not safe for concurrent use. Front ends drive it from a single
// event loop and resolve requests back on that loop.
type Widget struct {
	state   State
	client  Chatter
	pending *Pending
	seq     uint64
}

func New(client Chatter, lang types.Language) *Widget {
	return &Widget{
		client: client,
		state:  State{Language: types.ParseLanguage(string(lang))},
	}
}

// State returns a copy of the current state.
func (w *Widget) State() State {
	s := w.state
	s.Messages = append([]ChatMessage(nil), w.state.Messages...)
	return s
}

func (w *Widget) Strings() Strings { return StringsFor(w.state.Language) }

// Busy reports whether a request is waiting for its reply. Input stays
// disabled while it is.
func (w *Widget) Busy() bool { return w.pending != nil }

// Open shows the window with a fresh conversation holding only the greeting.
// A request still in flight from the previous conversation is discarded.
func (w *Widget) Open() {
	if w.state.Open {
		return
	}
	w.state.Open = true
	w.pending = nil
	w.state.Messages = []ChatMessage{{
		Text:     w.Strings().Greeting,
		Sender:   SenderBot,
		greeting: true,
	}}
}

func (w *Widget) Close() { w.state.Open = false }

func (w *Widget) Toggle() {
	if w.state.Open {
		w.Close()
		return
	}
	w.Open()
}

// Begin records a user message and a pending bot placeholder. It returns
// false without changing anything when text is blank or a request is
// already pending.
func (w *Widget) Begin(text string) (*Pending, bool) {
	text = strings.TrimSpace(text)
	if text == "" || w.pending != nil {
		return nil, false
	}

	w.state.Messages = append(w.state.Messages,
		ChatMessage{Text: text, Sender: SenderUser},
		ChatMessage{Text: w.Strings().Typing, Sender: SenderBot, Pending: true},
	)
	w.seq++
	p := &Pending{
		Request: types.ChatRequest{Message: text, Language: w.state.Language},
		seq:     w.seq,
		index:   len(w.state.Messages) - 1,
	}
	w.pending = p
	return p, true
}

// Resolve replaces the placeholder of p with reply, or with a localized
// error when err is set. Stale handles are ignored.
func (w *Widget) Resolve(p *Pending, reply string, err error) {
	if p == nil || w.pending == nil || p.seq != w.pending.seq {
		return
	}
	w.pending = nil

	msg := ChatMessage{Text: reply, Sender: SenderBot}
	if err != nil {
		key := Classify(err)
		log.Debug().Err(err).Str("key", key.String()).Msg("chat request failed")
		msg = ChatMessage{
			Text:   w.Strings().ErrorMessage(key),
			Sender: SenderBot,
			Error:  true,
			errKey: key,
		}
	}
	w.state.Messages[p.index] = msg
}

// Send runs a whole exchange synchronously. It returns false when nothing
// was sent.
func (w *Widget) Send(ctx context.Context, text string) bool {
	p, ok := w.Begin(text)
	if !ok {
		return false
	}
	reply, err := w.client.Chat(ctx, p.Request)
	w.Resolve(p, reply, err)
	return true
}

// ToggleLanguage switches between English and German. Static texts already
// in the log (greeting, typing indicator, error messages) are re-rendered;
// user messages and model replies are kept as they are.
func (w *Widget) ToggleLanguage() {
	w.state.Language = w.state.Language.Toggle()
	s := w.Strings()
	for i := range w.state.Messages {
		m := &w.state.Messages[i]
		switch {
		case m.greeting:
			m.Text = s.Greeting
		case m.Pending:
			m.Text = s.Typing
		case m.Error:
			m.Text = s.ErrorMessage(m.errKey)
		}
	}
}

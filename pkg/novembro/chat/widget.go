// Package chat implements the embedded assistant widget: open/close state,
// focus hand-off and the message log.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/dom"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
)

// Widget messages.
const (
	WelcomeMessage        = "Olá! Sou o assistente do Novembro Azul. Posso responder perguntas sobre prevenção, exames e orientações. Como posso ajudar você hoje?"
	TypingText            = "Digitando..."
	NoReplyMessage        = "Desculpe, não obtive resposta."
	ErrorPrefix           = "Desculpe, ocorreu um erro: "
	ConnectionErrorPrefix = "Erro de conexão: "
)

// Element ids.
const (
	LauncherID = "chat-bubble"
	WindowID   = "chat-window"
	CloseID    = "chat-close"
	InputID    = "chat-input"
)

var (
	// ErrWidgetClosed is returned when sending while the widget is closed.
	ErrWidgetClosed = errors.New("chat widget is closed")
	// ErrEmptyMessage is returned for empty or whitespace-only input.
	ErrEmptyMessage = errors.New("empty message")
)

// Focuser moves input focus to an element id.
type Focuser interface {
	Focus(id string)
}

// Widget is the chat dialog. Sends are not serialized: each one gets its own
// request and its reply is appended when it arrives.
type Widget struct {
	mu       sync.Mutex
	client   Client
	launcher dom.Node
	window   dom.Node
	focus    Focuser
	open     bool
	pending  int
	messages []models.ChatMessage
}

// NewWidget creates a closed widget on doc with the welcome message logged.
func NewWidget(client Client, doc *dom.Document) *Widget {
	w := &Widget{
		client:   client,
		launcher: doc.Element(LauncherID),
		window:   doc.Element(WindowID),
		focus:    doc,
	}
	w.render()
	w.messages = append(w.messages, models.ChatMessage{Text: WelcomeMessage, Sender: models.SenderBot})
	return w
}

func (w *Widget) render() {
	w.window.SetAttribute("aria-hidden", boolAttr(!w.open))
	w.launcher.SetAttribute("aria-expanded", boolAttr(w.open))
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Open shows the dialog and focuses the input.
func (w *Widget) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
	w.render()
	w.focus.Focus(InputID)
}

// Close hides the dialog and returns focus to the launcher.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
	w.render()
	w.focus.Focus(LauncherID)
}

// IsOpen reports whether the dialog is shown.
func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Activate handles input on the launcher or the close button.
func (w *Widget) Activate(target string, e dom.Event) bool {
	if !e.Activates() {
		return false
	}
	switch target {
	case LauncherID:
		w.Open()
	case CloseID:
		w.Close()
	default:
		return false
	}
	return true
}

// Typing reports whether the typing placeholder is shown.
func (w *Widget) Typing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending > 0
}

// Messages returns a copy of the log. The typing placeholder is included last
// while a request is outstanding.
func (w *Widget) Messages() []models.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := append([]models.ChatMessage(nil), w.messages...)
	if w.pending > 0 {
		out = append(out, models.ChatMessage{Text: TypingText, Sender: models.SenderBot})
	}
	return out
}

// SendMessage logs the user's text, asks the proxy and logs the bot reply.
// Proxy failures become bot messages; the returned error covers only input
// that was not sent.
func (w *Widget) SendMessage(ctx context.Context, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)

	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return models.ChatMessage{}, ErrWidgetClosed
	}
	if text == "" {
		w.mu.Unlock()
		return models.ChatMessage{}, ErrEmptyMessage
	}
	w.messages = append(w.messages, models.ChatMessage{Text: text, Sender: models.SenderUser})
	w.pending++
	w.mu.Unlock()

	reply, err := w.client.Send(ctx, text)
	msg := models.ChatMessage{Text: replyText(reply, err), Sender: models.SenderBot}

	w.mu.Lock()
	w.pending--
	w.messages = append(w.messages, msg)
	w.mu.Unlock()
	return msg, nil
}

// InputKey sends text when Enter is pressed in the input.
func (w *Widget) InputKey(ctx context.Context, key, text string) (models.ChatMessage, bool, error) {
	if key != dom.KeyEnter {
		return models.ChatMessage{}, false, nil
	}
	msg, err := w.SendMessage(ctx, text)
	return msg, err == nil, err
}

func replyText(reply string, err error) string {
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return ErrorPrefix + httpErr.Error()
		}
		return ConnectionErrorPrefix + err.Error()
	}
	if reply == "" {
		return NoReplyMessage
	}
	return reply
}

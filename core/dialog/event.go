// Package dialog classifies inbound events against registered handlers and
// runs exactly one of them under the sender's lock.
package dialog

import "strings"

// Kind is the class of an inbound event.
type Kind string

const (
	KindCommand  Kind = "command"
	KindCallback Kind = "callback"
	KindText     Kind = "text"
)

// User carries the sender's public identity as reported by the transport.
type User struct {
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
}

// DisplayName joins first and last name, falling back to the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	return u.Username
}

// Event is a transport-neutral inbound event.
type Event struct {
	Kind     Kind
	SenderID string
	ChatID   string
	// Text is the raw message text, including the command token for commands.
	Text string
	// Command is the lowercased command name without slash or bot mention.
	Command string
	// Args holds command arguments, if any.
	Args         string
	CallbackData string
	From         User
	// UpdateID is the transport's update sequence number, used for log correlation.
	UpdateID int
}

// Button is one inline keyboard button.
type Button struct {
	Text string
	Data string
}

// Keyboard is a grid of inline buttons.
type Keyboard struct {
	Rows [][]Button
}

// NewKeyboard builds a keyboard from rows of buttons.
func NewKeyboard(rows ...[]Button) *Keyboard {
	return &Keyboard{Rows: rows}
}

// Row is a convenience for building one keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

// Btn creates a callback button.
func Btn(text, data string) Button {
	return Button{Text: text, Data: data}
}

// OutboundCommand is one reply instruction for the delivery collaborator.
type OutboundCommand struct {
	ChatID   string
	Text     string
	Keyboard *Keyboard
}

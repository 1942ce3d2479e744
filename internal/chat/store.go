// Package chat holds the conversation state machine.
//
// A Store is owned by a single event loop (the TUI Update function or the
// one-shot query command). Every mutation goes through a named transition;
// network and file I/O happen elsewhere and report back through Complete and
// Attach. A Store is not safe for concurrent use.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/jewelchat/internal/models"
)

// State is derived from the draft and the pending flag
type State int

const (
	StateIdle State = iota
	StateComposing
	StateSending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Draft is the user's unsent input
type Draft struct {
	Text       string
	Attachment *models.Attachment
}

// IsEmpty reports whether the draft has nothing worth sending
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Text) == "" && d.Attachment == nil
}

// Turn is a send that has been committed locally and must be dispatched to the transport
type Turn struct {
	Request    models.ChatRequest
	Generation uint64
}

// TurnResult is the settled outcome of a Turn
type TurnResult struct {
	Generation uint64
	Reply      *models.Reply
	Err        error
}

// ResetRequest is returned by Reset for the best-effort remote reset
type ResetRequest struct {
	ThreadID string
}

// AttachTicket identifies one attachment selection. Zero means the selection was refused.
type AttachTicket uint64

// Store is the single source of truth for what the conversation shows
type Store struct {
	conversationID string
	messages       []models.Message
	draft          Draft
	pending        bool

	// generation is bumped by Reset; results of turns from older generations are dropped
	generation uint64
	attachSeq  uint64

	now func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithConversationID uses id instead of a fresh random identifier
func WithConversationID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.conversationID = id
		}
	}
}

// WithClock replaces time.Now for message timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore starts a conversation with a newly generated identifier
func NewStore(opts ...Option) *Store {
	s := &Store{
		conversationID: uuid.NewString(),
		messages:       []models.Message{},
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConversationID returns the identifier sent with every request
func (s *Store) ConversationID() string {
	return s.conversationID
}

// State returns the current state of the machine
func (s *Store) State() State {
	switch {
	case s.pending:
		return StateSending
	case s.draft.Text != "" || s.draft.Attachment != nil:
		return StateComposing
	default:
		return StateIdle
	}
}

// Pending reports whether a send is in flight
func (s *Store) Pending() bool {
	return s.pending
}

// Draft returns the current draft
func (s *Store) Draft() Draft {
	return s.draft
}

// CanSend reports whether Send would commit a turn
func (s *Store) CanSend() bool {
	return !s.pending && !s.draft.IsEmpty()
}

// Len returns the number of messages
func (s *Store) Len() int {
	return len(s.messages)
}

// Messages returns a copy of the conversation in display order
func (s *Store) Messages() []models.Message {
	out := make([]models.Message, len(s.messages))
	for i, msg := range s.messages {
		out[i] = msg.Clone()
	}
	return out
}

// LastAssistant returns the most recent assistant message
func (s *Store) LastAssistant() (models.Message, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == models.RoleAssistant {
			return s.messages[i].Clone(), true
		}
	}
	return models.Message{}, false
}

// Compose replaces the draft text. It is a no-op while sending.
func (s *Store) Compose(text string) bool {
	if s.pending {
		return false
	}
	s.draft.Text = text
	return true
}

// BeginAttach starts a new attachment selection and returns its ticket.
// Any earlier selection still being read is superseded.
func (s *Store) BeginAttach() AttachTicket {
	if s.pending {
		return 0
	}
	s.attachSeq++
	return AttachTicket(s.attachSeq)
}

// Attach sets the pending attachment if ticket belongs to the latest selection.
// A nil attachment (failed encoding) leaves the draft without one.
func (s *Store) Attach(ticket AttachTicket, att *models.Attachment) bool {
	if s.pending || ticket == 0 || uint64(ticket) != s.attachSeq {
		return false
	}
	s.draft.Attachment = att
	return att != nil
}

// ClearAttachment drops the pending attachment and supersedes any selection in progress
func (s *Store) ClearAttachment() bool {
	if s.pending {
		return false
	}
	s.attachSeq++
	s.draft.Attachment = nil
	return true
}

// Send commits the draft: the user message is appended, the draft is cleared and the
// store enters StateSending. The returned Turn must be dispatched to the transport and
// its outcome fed back through Complete. Send returns false, changing nothing, when the
// draft is empty or another send is pending.
func (s *Store) Send() (Turn, bool) {
	if !s.CanSend() {
		return Turn{}, false
	}

	images := []string{}
	var image *string
	if att := s.draft.Attachment; att != nil {
		uri := att.DataURI
		images = append(images, uri)
		image = &uri
	}

	s.messages = append(s.messages, models.Message{
		Role:      models.RoleUser,
		Content:   s.draft.Text,
		Images:    images,
		Timestamp: models.FormatTimestamp(s.now()),
	})

	turn := Turn{
		Request: models.ChatRequest{
			Query:    s.draft.Text,
			Image:    image,
			ThreadID: s.conversationID,
		},
		Generation: s.generation,
	}

	s.draft = Draft{}
	s.attachSeq++
	s.pending = true

	return turn, true
}

// Complete applies the outcome of a turn and leaves StateSending.
// Failures become a single assistant message carrying models.ErrorLiteral.
// Results from before the latest Reset only clear the pending flag.
// It reports whether a message was appended.
func (s *Store) Complete(res TurnResult) bool {
	if !s.pending {
		return false
	}
	s.pending = false

	if res.Generation != s.generation {
		return false
	}

	msg := models.Message{
		Role:      models.RoleAssistant,
		Timestamp: models.FormatTimestamp(s.now()),
	}
	if res.Err != nil || res.Reply == nil {
		msg.Content = models.ErrorLiteral
		msg.Images = []string{}
	} else {
		msg.Content = res.Reply.Text
		msg.Images = make([]string, len(res.Reply.Images))
		copy(msg.Images, res.Reply.Images)
	}

	s.messages = append(s.messages, msg)
	return true
}

// Reset clears the conversation and the draft in any state. The pending flag is
// left alone so an in-flight send still gates input until it settles, but its
// result will not be appended.
func (s *Store) Reset() ResetRequest {
	s.messages = []models.Message{}
	s.draft = Draft{}
	s.attachSeq++
	s.generation++
	return ResetRequest{ThreadID: s.conversationID}
}

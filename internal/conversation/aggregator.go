// Package conversation derives two-party conversation threads from a flat
// collection of messages. All functions are pure: they perform no I/O,
// never mutate their inputs, and produce identical output for identical
// input, so they are safe to call on every poll refresh.
package conversation

import (
	"sort"
	"strings"

	"github.com/edushare/edushare-backend/internal/models"
)

// KeyDelimiter joins the two participant identities of a conversation key.
const KeyDelimiter = "_"

// Conversation is a derived view over the messages exchanged between the
// viewer and one counterpart. It is rebuilt from scratch on every refresh
// and never persisted.
type Conversation struct {
	ID               string           `json:"id"`
	CounterpartEmail string           `json:"counterpart_email"`
	Messages         []models.Message `json:"messages"`
	LastMessage      models.Message   `json:"last_message"`
	UnreadCount      int              `json:"unread_count"`
}

// Key returns the conversation key for a pair of participant identities.
// It is commutative: both participants compute the same key without
// coordination, before the first message of a thread exists.
func Key(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + KeyDelimiter + b
}

// Aggregate partitions messages by conversation and derives one
// Conversation per distinct conversation ID, ordered most recently active
// first. Messages that do not involve the viewer are excluded entirely.
//
// The counterpart is resolved from the most recent message of each
// partition, so a partition whose participant pairs disagree still
// aggregates without failing.
func Aggregate(messages []models.Message, viewer string) []Conversation {
	if viewer == "" {
		return nil
	}

	index := make(map[string]int)
	var convs []Conversation

	for _, msg := range messages {
		if !msg.Involves(viewer) {
			continue
		}

		i, ok := index[msg.ConversationID]
		if !ok {
			i = len(convs)
			index[msg.ConversationID] = i
			convs = append(convs, Conversation{
				ID:               msg.ConversationID,
				CounterpartEmail: msg.Counterpart(viewer),
				LastMessage:      msg,
			})
		}

		conv := &convs[i]
		conv.Messages = append(conv.Messages, msg)

		if msg.ReceiverEmail == viewer && !msg.Read {
			conv.UnreadCount++
		}

		// Strict comparison keeps the earliest-seen message on a
		// timestamp tie, mark-read reconciliation depends on that
		// being stable across refreshes.
		if msg.CreatedAt.After(conv.LastMessage.CreatedAt) {
			conv.LastMessage = msg
		}

		// The counterpart follows the newest observation, including
		// later input positions on a timestamp tie.
		if !msg.CreatedAt.Before(conv.LastMessage.CreatedAt) {
			conv.CounterpartEmail = msg.Counterpart(viewer)
		}
	}

	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastMessage.CreatedAt.After(convs[j].LastMessage.CreatedAt)
	})

	return convs
}

// OrderedMessages returns the conversation's messages oldest first, for
// chat-thread rendering. The input slice is not modified.
func OrderedMessages(conv Conversation) []models.Message {
	out := make([]models.Message, len(conv.Messages))
	copy(out, conv.Messages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// UnreadIn returns the messages of the conversation that are addressed to
// the viewer and not yet read. Callers use this to drive mark-read
// mutations when a conversation is opened.
func UnreadIn(conv Conversation, viewer string) []models.Message {
	var unread []models.Message
	for _, msg := range conv.Messages {
		if msg.ReceiverEmail == viewer && !msg.Read {
			unread = append(unread, msg)
		}
	}
	return unread
}

// Filter returns the conversations whose counterpart display name or last
// message body contains the query, case-insensitively. A blank query
// returns the input unchanged. displayName resolves a participant identity
// to a human-readable name; it may return the empty string.
func Filter(convs []Conversation, query string, displayName func(email string) string) []Conversation {
	query = strings.TrimSpace(query)
	if query == "" {
		return convs
	}
	query = strings.ToLower(query)

	var out []Conversation
	for _, conv := range convs {
		name := ""
		if displayName != nil {
			name = displayName(conv.CounterpartEmail)
		}
		if strings.Contains(strings.ToLower(name), query) ||
			strings.Contains(strings.ToLower(conv.LastMessage.Body), query) {
			out = append(out, conv)
		}
	}
	return out
}

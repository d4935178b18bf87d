// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered message history of the active conversation.
//
// It is append-only while a conversation is open: user messages are inserted
// optimistically before the network round trip, and the server reply is
// appended after. Existing entries are never reordered or removed; the only
// in-place mutation is Reconcile, which stamps a server ID onto an optimistic
// message once the server acknowledges it.
//
// Transcript is not safe for concurrent use; the owning component guards
// access.
type Transcript struct {
	messages []Message
}

// NewTranscript creates a transcript pre-loaded with history, e.g. from a
// conversation detail fetch.
func NewTranscript(history []Message) *Transcript {
	t := &Transcript{}
	t.messages = append(t.messages, history...)
	return t
}

// AppendOptimistic appends a message to the end of the transcript and returns
// its local ID for later reconciliation.
func (t *Transcript) AppendOptimistic(m Message) string {
	t.messages = append(t.messages, m)
	return m.LocalID
}

// Reconcile stamps the server-assigned ID onto the optimistic message with
// the given local ID. It reports whether a matching message was found.
// Content and position are left untouched.
func (t *Transcript) Reconcile(localID string, serverID int64) bool {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].LocalID == localID {
			t.messages[i].ID = serverID
			return true
		}
	}
	return false
}

// Messages returns a copy of the transcript in chronological order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message and true, or a zero message and false
// when the transcript is empty.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Clear removes all messages. Used when switching conversations or starting
// a new one.
func (t *Transcript) Clear() {
	t.messages = t.messages[:0]
}

// Package chat drives a streaming conversation with the assistant over a
// fixed system context.
package chat

import (
	"context"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/faegents/openclaw/internal/errors"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Streamer sends the system text and history to an assistant and yields the
// reply as it arrives. A non-nil error ends the stream.
type Streamer interface {
	Stream(ctx context.Context, system string, turns []Turn) iter.Seq2[string, error]
}

// Session holds the system text, fixed at creation, and an append-only
// history. A Session is not safe for concurrent use.
type Session struct {
	ID string

	system   string
	turns    []Turn
	streamer Streamer
	log      *zap.Logger
}

// NewSession starts a session. log may be nil.
func NewSession(system string, streamer Streamer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := ulid.Make().String()
	s := &Session{
		ID:       id,
		system:   system,
		streamer: streamer,
		log:      log.With(zap.String("session_id", id)),
	}
	s.log.Info("chat session started", zap.Int("system_chars", utf8.RuneCountInString(system)))
	return s
}

// System returns the system text.
func (s *Session) System() string {
	return s.system
}

// Turns returns a copy of the history.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Send appends text as a user turn, streams the reply through onChunk and
// appends the assembled assistant turn. On a stream error the user turn is
// removed again and a STREAM_FAILED error wrapping the cause is returned;
// chunks already passed to onChunk are not retracted. Blank text is ignored.
func (s *Session) Send(ctx context.Context, text string, onChunk func(string)) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	s.turns = append(s.turns, Turn{Role: RoleUser, Text: text})
	pending := len(s.turns) - 1

	var reply strings.Builder
	for chunk, err := range s.streamer.Stream(ctx, s.system, s.Turns()) {
		if err != nil {
			s.turns = s.turns[:pending]
			s.log.Warn("assistant stream failed", zap.Error(err), zap.Int("turns", len(s.turns)))
			return "", errors.NewStreamFailed(err)
		}
		if onChunk != nil {
			onChunk(chunk)
		}
		reply.WriteString(chunk)
	}

	answer := reply.String()
	s.turns = append(s.turns, Turn{Role: RoleAssistant, Text: answer})
	s.log.Debug("assistant replied", zap.Int("reply_chars", len(answer)), zap.Int("turns", len(s.turns)))
	return answer, nil
}

// Close logs the end of the session.
func (s *Session) Close() {
	s.log.Info("chat session ended", zap.Int("turns", len(s.turns)))
}

package session

// MaxContextMessages bounds how many history entries are sent to the
// completion service per request.
const MaxContextMessages = 12

// BuildContext returns the outbound message list for a completion
// request: the last MaxContextMessages entries in their original order,
// preceded by one synthetic system message carrying the topic instruction
// when the session has one. The system message is never part of the
// persisted history.
func BuildContext(s *Session) []Message {
	msgs := s.Messages
	if len(msgs) > MaxContextMessages {
		msgs = msgs[len(msgs)-MaxContextMessages:]
	}

	out := make([]Message, 0, len(msgs)+1)
	if s.Topic != "" {
		out = append(out, Message{Role: RoleSystem, Content: s.Topic})
	}
	return append(out, msgs...)
}

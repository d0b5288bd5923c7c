package domain

// MessageKind is the protocol verb of a message.
type MessageKind string

const (
	KindRequest MessageKind = "REQUEST" // asks the recipient for one token of Color
	KindSend    MessageKind = "SEND"    // carries exactly one token of Color
	KindDone    MessageKind = "DONE"    // announces that From has terminated
)

// Message is a point-to-point protocol message.
type Message struct {
	Kind  MessageKind `json:"kind"`
	From  ProcessID   `json:"from"`
	To    ProcessID   `json:"to"`
	Color Color       `json:"color,omitempty"`
	Seq   uint64      `json:"seq"`
}

// CarriesToken reports whether the message holds a token in flight.
func (m Message) CarriesToken() bool {
	return m.Kind == KindSend
}

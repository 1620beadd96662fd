package flow

// Event is a normalized inbound message. Parsing the provider wire format
// is the webhook adapter's job; the engine only reads these fields.
type Event struct {
	From        string
	Body        string
	NumMedia    int
	MediaURLs   []string
	MessageSID  string
	ProfileName string
}

// HasMedia reports whether the event carries at least one attachment.
func (e *Event) HasMedia() bool {
	return e != nil && e.NumMedia > 0
}

package gmail

import gmailapi "google.golang.org/api/gmail/v1"

// Message is a simplified view of a Gmail message. The raw MIME tree
// is kept privately so attachment and body extraction can walk it
// without re-fetching.
type Message struct {
	ID      string
	Subject string
	Snippet string

	payload *gmailapi.MessagePart
}

// Attachment is one downloaded attachment blob.
type Attachment struct {
	Filename string
	Data     []byte
}

package models

// Attachment is an image selected by the user but not yet sent
type Attachment struct {
	Name     string // base name of the source file
	MIMEType string
	Size     int64  // size of the decoded image in bytes
	DataURI  string // data:<mime>;base64,<payload>
}

// ChatRequest is the body of POST /chat.
// Image is nil when no attachment is sent and is encoded as JSON null.
type ChatRequest struct {
	Query    string  `json:"query"`
	Image    *string `json:"image"`
	ThreadID string  `json:"thread_id"`
}

// ResetRequest is the body of POST /reset
type ResetRequest struct {
	ThreadID string `json:"thread_id"`
}

// Reply is the parsed success body of POST /chat
type Reply struct {
	Text   string
	Images []string
}

// HasImages reports whether the reply carries any image payloads
func (r *Reply) HasImages() bool {
	return r != nil && len(r.Images) > 0
}

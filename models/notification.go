package models

// PushRequest is the payload of a push notification dispatch.
type PushRequest struct {
	Token    string `json:"token"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
}

// MissingFields lists the required fields left empty, in a stable order.
func (p PushRequest) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"senderId", p.SenderID},
		{"title", p.Title},
		{"body", p.Body},
		{"chatId", p.ChatID},
		{"token", p.Token},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// PushResult is returned to callers of the synchronous push endpoint.
type PushResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
}

// ChatID is the conversation id shared by two users: their ids sorted and joined by "_".
func ChatID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

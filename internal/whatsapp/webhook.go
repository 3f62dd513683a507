package whatsapp

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// MessageHandler is called for each incoming user action with
// (chatID, messageID, text, callback). Exactly one of text/callback carries
// the user's input: free text arrives in text, a tap on a control arrives as
// the control's reply ID in callback (with the control title in text).
type MessageHandler func(chatID, messageID, text, callback string)

type WebhookHandler struct {
	verifyToken string
	onMessage   MessageHandler
}

func NewWebhookHandler(verifyToken string, onMessage MessageHandler) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		onMessage:   onMessage,
	}
}

// HandleVerify handles the GET webhook verification from Meta.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/get-started#webhook-verification
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleIncoming processes incoming webhook POST notifications. Meta
// requires a quick 200 regardless of outcome, so decode failures are logged
// and acknowledged.
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logrus.WithError(err).Warn("webhook: failed to decode payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				h.dispatch(msg)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) dispatch(msg Message) {
	switch msg.Type {
	case "text":
		if msg.Text != nil {
			h.onMessage(msg.From, msg.ID, msg.Text.Body, "")
		}
	case "interactive":
		if msg.Interactive == nil {
			return
		}
		switch msg.Interactive.Type {
		case "button_reply":
			if r := msg.Interactive.ButtonReply; r != nil {
				h.onMessage(msg.From, msg.ID, r.Title, r.ID)
			}
		case "list_reply":
			if r := msg.Interactive.ListReply; r != nil {
				h.onMessage(msg.From, msg.ID, r.Title, r.ID)
			}
		}
	}
}

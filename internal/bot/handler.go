package bot

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/menuqrcode/menubot/internal/session"
)

// handleTimeout bounds one inbound event end to end, including every
// outbound send of a multi-message render.
const handleTimeout = 60 * time.Second

// Handler glues the webhook intake to the router. Events for the same chat
// are serialized through the session manager so multi-message renders from
// concurrent deliveries do not interleave.
type Handler struct {
	router   *Router
	sessions *session.Manager
}

func NewHandler(router *Router, sessions *session.Manager) *Handler {
	return &Handler{router: router, sessions: sessions}
}

// HandleMessage is the webhook callback: one inbound user action in,
// rendered replies out. Unrecognized input is dropped silently.
func (h *Handler) HandleMessage(chatID, messageID, text, callback string) {
	action := ParseAction(text, callback)
	if action.Kind == ActionNone {
		logrus.WithFields(logrus.Fields{"chat": chatID, "message": messageID}).Debug("bot: ignoring unrecognized input")
		return
	}

	logrus.WithFields(logrus.Fields{"chat": chatID, "action": action.Kind}).Info("bot: handling action")

	_ = h.sessions.WithLock(chatID, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		h.router.Handle(ctx, chatID, action)
		return nil
	})
}

package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/menuqrcode/menubot/internal/bot"
	"github.com/menuqrcode/menubot/internal/metrics"
)

const apiURL = "https://graph.facebook.com/v21.0"

// Platform limits for interactive messages.
const (
	maxButtons     = 3
	buttonTitleMax = 20
	rowTitleMax    = 24
)

// Client sends messages through the WhatsApp Cloud API. It implements
// bot.Gateway.
type Client struct {
	phoneNumberID string
	accessToken   string
	apiBase       string
	http          *http.Client
}

func NewClient(phoneNumberID, accessToken string) *Client {
	return &Client{
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		apiBase:       apiURL,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

// SendText delivers body as a plain text message, or as an interactive
// message when controls are present: reply buttons up to the platform's
// three-button limit, a list beyond that.
func (c *Client) SendText(ctx context.Context, to, body string, controls []bot.Control) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
	}

	switch {
	case len(controls) == 0:
		msg.Type = "text"
		msg.Text = &SendText{Body: body}
	case len(controls) <= maxButtons:
		msg.Type = "interactive"
		msg.Interactive = &Interactive{
			Type:   "button",
			Body:   InteractiveBody{Text: body},
			Action: InteractiveAction{Buttons: toButtons(controls)},
		}
	default:
		msg.Type = "interactive"
		msg.Interactive = &Interactive{
			Type: "list",
			Body: InteractiveBody{Text: body},
			Action: InteractiveAction{
				Button:   "Choose",
				Sections: []Section{{Title: "Options", Rows: toRows(controls)}},
			},
		}
	}

	return c.send(ctx, msg, "text")
}

// SendImage delivers an image by link with a caption.
func (c *Client) SendImage(ctx context.Context, to, link, caption string, controls []bot.Control) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "image",
		Image:            &SendImage{Link: link, Caption: caption},
	}
	if err := c.send(ctx, msg, "image"); err != nil {
		return err
	}
	// Image messages cannot carry interactive controls; follow up with a
	// controls prompt when the caller asked for them.
	if len(controls) == 0 {
		return nil
	}
	return c.SendText(ctx, to, "Choose an option:", controls)
}

func (c *Client) send(ctx context.Context, msg SendMessageRequest, kind string) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiBase, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.SendFailures.WithLabelValues(kind).Inc()
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.SendFailures.WithLabelValues(kind).Inc()
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp API status %d: %s", resp.StatusCode, respBody)
	}

	metrics.MessagesSent.WithLabelValues(kind).Inc()
	return nil
}

func toButtons(controls []bot.Control) []Button {
	buttons := make([]Button, len(controls))
	for i, ctl := range controls {
		buttons[i] = Button{
			Type:  "reply",
			Reply: ButtonReply{ID: ctl.ID, Title: clip(ctl.Title, buttonTitleMax)},
		}
	}
	return buttons
}

func toRows(controls []bot.Control) []SectionRow {
	rows := make([]SectionRow, len(controls))
	for i, ctl := range controls {
		rows[i] = SectionRow{ID: ctl.ID, Title: clip(ctl.Title, rowTitleMax)}
	}
	return rows
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

package whatsapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	chatID, messageID, text, callback string
}

func TestHandleVerify(t *testing.T) {
	h := NewWebhookHandler("secret", nil)

	t.Run("valid token echoes challenge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil)
		w := httptest.NewRecorder()
		h.HandleVerify(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "12345", w.Body.String())
	})

	t.Run("wrong token is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
		w := httptest.NewRecorder()
		h.HandleVerify(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandleIncoming(t *testing.T) {
	post := func(t *testing.T, body string) []received {
		t.Helper()
		var got []received
		h := NewWebhookHandler("secret", func(chatID, messageID, text, callback string) {
			got = append(got, received{chatID, messageID, text, callback})
		})
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.HandleIncoming(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		return got
	}

	t.Run("text message", func(t *testing.T) {
		got := post(t, `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{
			"messages":[{"from":"5511999","id":"m1","type":"text","text":{"body":"/start"}}]}}]}]}`)
		require.Len(t, got, 1)
		assert.Equal(t, received{"5511999", "m1", "/start", ""}, got[0])
	})

	t.Run("button reply carries callback token", func(t *testing.T) {
		got := post(t, `{"entry":[{"changes":[{"value":{"messages":[{"from":"5511999","id":"m2",
			"type":"interactive","interactive":{"type":"button_reply",
			"button_reply":{"id":"refresh","title":"🔄 Refresh"}}}]}}]}]}`)
		require.Len(t, got, 1)
		assert.Equal(t, received{"5511999", "m2", "🔄 Refresh", "refresh"}, got[0])
	})

	t.Run("list reply carries callback token", func(t *testing.T) {
		got := post(t, `{"entry":[{"changes":[{"value":{"messages":[{"from":"5511999","id":"m3",
			"type":"interactive","interactive":{"type":"list_reply",
			"list_reply":{"id":"category:c1","title":"📂 Drinks"}}}]}}]}]}`)
		require.Len(t, got, 1)
		assert.Equal(t, received{"5511999", "m3", "📂 Drinks", "category:c1"}, got[0])
	})

	t.Run("status-only notification is ignored", func(t *testing.T) {
		got := post(t, `{"entry":[{"changes":[{"value":{"statuses":[{"id":"m4","status":"delivered"}]}}]}]}`)
		assert.Empty(t, got)
	})

	t.Run("malformed body still acknowledged", func(t *testing.T) {
		got := post(t, `{"entry":`)
		assert.Empty(t, got)
	})
}

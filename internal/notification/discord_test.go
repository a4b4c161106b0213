package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDiscordSuccessNotification(t *testing.T) {
	var got DiscordMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	t.Setenv("DISCORD_SUCCESS_NOTIFICATION_URL", srv.URL)

	require.NoError(t, SendDiscordSuccessNotification("SC.tif written"))
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "SC.tif written", got.Embeds[0].Description)
	assert.Equal(t, colorGreen, got.Embeds[0].Color)
}

func TestSendDiscordErrorNotificationStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", srv.URL)

	err := SendDiscordErrorNotification("boom")
	assert.ErrorContains(t, err, "429")
}

func TestSendWithoutWebhookIsNoop(t *testing.T) {
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", "")
	t.Setenv("DISCORD_SUCCESS_NOTIFICATION_URL", "")

	assert.NoError(t, SendDiscordErrorNotification("boom"))
	assert.NoError(t, SendDiscordSuccessNotification("ok"))
}

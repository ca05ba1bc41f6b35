package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDiscordClientSend(t *testing.T) {
	t.Run("posts payload and returns message id", func(t *testing.T) {
		var (
			gotMethod      string
			gotWait        string
			gotContentType string
			gotPayload     discordWebhook
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotWait = r.URL.Query().Get("wait")
			gotContentType = r.Header.Get("Content-Type")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			fmt.Fprint(w, `{"id": "1244558899221100"}`)
		}))
		defer srv.Close()

		c := NewDiscordClient(zerolog.Nop(), srv.URL)

		id, err := c.Send(context.Background(), discordWebhook{Embeds: []discordEmbed{{Title: "Chương mới"}}})
		require.NoError(t, err)
		require.Equal(t, "1244558899221100", id)

		require.Equal(t, http.MethodPost, gotMethod)
		require.Equal(t, "true", gotWait)
		require.Equal(t, "application/json", gotContentType)
		require.Len(t, gotPayload.Embeds, 1)
		require.Equal(t, "Chương mới", gotPayload.Embeds[0].Title)
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		c := NewDiscordClient(zerolog.Nop(), srv.URL)

		_, err := c.Send(context.Background(), discordWebhook{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "status 400")
	})
}

func TestDiscordClientEdit(t *testing.T) {
	t.Run("patches the targeted message", func(t *testing.T) {
		var (
			gotMethod string
			gotPath   string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			fmt.Fprint(w, `{"id": "42"}`)
		}))
		defer srv.Close()

		c := NewDiscordClient(zerolog.Nop(), srv.URL)

		err := c.Edit(context.Background(), "42", discordWebhook{})
		require.NoError(t, err)
		require.Equal(t, http.MethodPatch, gotMethod)
		require.Equal(t, "/messages/42", gotPath)
	})

	t.Run("deleted message maps to ErrMessageNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewDiscordClient(zerolog.Nop(), srv.URL)

		err := c.Edit(context.Background(), "42", discordWebhook{})
		require.True(t, errors.Is(err, ErrMessageNotFound))
	})
}

package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/chime/internal/config"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		_, _ = io.WriteString(w, `{"text":"do I have any reminders"}`)
	}))
	defer srv.Close()

	tr := New(config.OpenAIConfig{APIKey: "sk-test", Model: "whisper-1", Endpoint: srv.URL})
	res, err := tr.Transcribe(context.Background(), []byte("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "do I have any reminders", res.Text)
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	_, err := New(config.OpenAIConfig{}).Transcribe(context.Background(), []byte("RIFF"))
	assert.Error(t, err)
}

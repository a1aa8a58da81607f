package whisper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/chime/internal/config"
	"github.com/nadzzz/chime/internal/stt"
)

func TestTranscribeOpenAIFlavor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "en", r.FormValue("language"))
		assert.Equal(t, "json", r.FormValue("response_format"))

		if f, _, err := r.FormFile("file"); assert.NoError(t, err) {
			data, _ := io.ReadAll(f)
			assert.Equal(t, "RIFF", string(data))
		}

		_, _ = io.WriteString(w, `{"text":"  set a reminder ","language":"en"}`)
	}))
	defer srv.Close()

	tr := New(config.WhisperConfig{Endpoint: srv.URL, Language: "en"})
	res, err := tr.Transcribe(context.Background(), []byte("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "set a reminder", res.Text)
	assert.Equal(t, "en", res.Language)
}

func TestTranscribeASRFlavor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "transcribe", q.Get("task"))
		assert.Equal(t, "fr", q.Get("language"))
		assert.Equal(t, "true", q.Get("vad_filter"))

		_, _, err := r.FormFile("audio_file")
		assert.NoError(t, err)

		_, _ = io.WriteString(w, `{"text":"call mom at 5:30 pm"}`)
	}))
	defer srv.Close()

	tr := New(config.WhisperConfig{Endpoint: srv.URL, Type: "asr", Language: "fr", VADFilter: true})
	res, err := tr.Transcribe(context.Background(), []byte("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "call mom at 5:30 pm", res.Text)
}

func TestTranscribeErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		isErr  error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "bad json", status: http.StatusOK, body: "{"},
		{name: "silence", status: http.StatusOK, body: `{"text":"   "}`, isErr: stt.ErrEmptyTranscript},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			_, err := New(config.WhisperConfig{Endpoint: srv.URL}).Transcribe(context.Background(), []byte("RIFF"))
			require.Error(t, err)
			if tc.isErr != nil {
				assert.ErrorIs(t, err, tc.isErr)
			}
		})
	}
}

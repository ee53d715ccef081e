package reminder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleeplog/internal"
)

// fakeBotAPI answers the three Bot API methods the notifier uses.
type fakeBotAPI struct {
	mu        sync.Mutex
	chatFound bool
	sent      int
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"sleeplog","username":"sleeplog_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/getChat"):
		if !f.chatFound {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":42,"type":"private","accent_color_id":0,"max_reaction_count":0}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		f.sent++
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func TestTelegramNotifier(t *testing.T) {
	api := &fakeBotAPI{chatFound: true}
	srv := httptest.NewServer(api)
	defer srv.Close()

	n, err := newTelegramNotifier("123:abc", 42, srv.URL, internal.NopLogger())
	require.NoError(t, err)

	ok, err := n.CheckPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, n.Notify(context.Background(), Notification{ID: "r1", Title: DefaultTitle, Body: DefaultBody}))
	assert.Equal(t, 1, api.sent)
}

func TestTelegramNotifierChatUnreachable(t *testing.T) {
	srv := httptest.NewServer(&fakeBotAPI{})
	defer srv.Close()

	n, err := newTelegramNotifier("123:abc", 42, srv.URL, internal.NopLogger())
	require.NoError(t, err)

	ok, err := n.RequestPermission(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)

	s := NewScheduler(n, internal.NopLogger())
	defer s.Stop()
	_, scheduled := s.Schedule(context.Background(), 0)
	assert.False(t, scheduled)
}

func TestTelegramNotifierWithoutChat(t *testing.T) {
	srv := httptest.NewServer(&fakeBotAPI{chatFound: true})
	defer srv.Close()

	n, err := newTelegramNotifier("123:abc", 0, srv.URL, internal.NopLogger())
	require.NoError(t, err)

	ok, err := n.CheckPermission(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Error(t, n.Notify(context.Background(), Notification{}))
}

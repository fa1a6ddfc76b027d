package bootstrap

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_ShutdownEndsOpenStreams(t *testing.T) {
	app, mock := testAppWithMock(t)
	expectUser(mock, 3, "fb-streamer", "user")

	srv := NewServer("127.0.0.1:0", app)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()

	req, err := http.NewRequest("GET", "http://"+ln.Addr().String()+"/api/notifications/stream", nil)
	require.NoError(t, err)
	req.Header.Set("X-User-Id", "fb-streamer")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: unread\n", line)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, srv.Shutdown(ctx))
	assert.Less(t, time.Since(start), 3*time.Second)

	rest, _ := io.ReadAll(reader)
	assert.Contains(t, string(rest), "event: shutdown")
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/stretchr/testify/require"
)

func TestServerCreateDatabaseRoundTrip(t *testing.T) {
	reg, err := objdb.NewRegistry(t.TempDir(), objdb.LockWait, objdb.DefaultPartSize)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	srv := New(reg, addr, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	body := `{"name":"shop"}`
	fmt.Fprintf(conn, "POST /databases HTTP/1.1\r\nContent-Length: %d\r\n\r\n%s", len(body), body)

	buf := make([]byte, 4096)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)

	var resp wireResponse
	require.NoError(t, json.Unmarshal(buf[:n], &resp))
	require.True(t, resp.OK)

	cancel()
}

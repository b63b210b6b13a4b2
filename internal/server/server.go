// Package server runs the TCP listener that accepts request envelopes,
// dispatches them against a Registry, and writes back a JSON response.
// Grounded on original_source/api/src/main.rs's TcpListener-plus-thread-pool
// bootstrap; the bounded worker pool is golang.org/x/sync/errgroup, the Go
// analogue of rayon::ThreadPoolBuilder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/corentin-rs/objdb/internal/request"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Server accepts connections on Addr and dispatches each request envelope
// against Registry, bounded to WorkerPool concurrent connections.
type Server struct {
	Registry   *objdb.Registry
	Addr       string
	WorkerPool int
}

// New builds a Server. A WorkerPool of 0 or less falls back to 8, matching
// internal/config's default.
func New(reg *objdb.Registry, addr string, workerPool int) *Server {
	if workerPool <= 0 {
		workerPool = 8
	}
	return &Server{Registry: reg, Addr: addr, WorkerPool: workerPool}
}

// ListenAndServe opens the listener and accepts connections until ctx is
// canceled, at which point it stops accepting and waits for in-flight
// connections to drain.
func (s *Server) ListenAndServe(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("objdb: server: listening on %s: %w", s.Addr, err)
	}
	defer ln.Close()

	log.Printf("objdb: server listening on %s (worker pool %d)", s.Addr, s.WorkerPool)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.WorkerPool)

	go func() {
		<-groupCtx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(groupCtx.Err(), context.Canceled) {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				break
			}
			log.Printf("objdb: server: accept error: %v", err)
			continue
		}
		group.Go(func() error {
			s.handleConn(conn)
			return nil
		})
	}

	return group.Wait()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()

	req, err := request.Parse(conn)
	if err != nil {
		log.Printf("objdb: server[%s]: parse error: %v", connID, err)
		writeError(conn, err)
		return
	}

	dispatch, err := request.Route(req)
	if err != nil {
		log.Printf("objdb: server[%s]: %s %s: route error: %v", connID, req.Method, req.Path, err)
		writeError(conn, err)
		return
	}

	resp, err := s.Registry.Dispatch(dispatch)
	if err != nil {
		log.Printf("objdb: server[%s]: %s %s: %v", connID, req.Method, req.Path, err)
		writeError(conn, err)
		return
	}

	log.Printf("objdb: server[%s]: %s %s: ok", connID, req.Method, req.Path)
	writeResponse(conn, resp)
}

type wireResponse struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
	Records []objdb.Record `json:"records,omitempty"`
	Count   int            `json:"count,omitempty"`
}

type wireError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeResponse(conn net.Conn, resp objdb.Response) {
	body, err := json.Marshal(wireResponse{OK: resp.OK, Message: resp.Message, Records: resp.Records, Count: resp.Count})
	if err != nil {
		writeError(conn, err)
		return
	}
	conn.Write(body)
}

func writeError(conn net.Conn, err error) {
	body, encodeErr := json.Marshal(wireError{OK: false, Error: err.Error()})
	if encodeErr != nil {
		return
	}
	conn.Write(body)
}

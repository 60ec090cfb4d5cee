package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/nickyhof/CommitFrame"
	"github.com/nickyhof/CommitFrame/db"
)

// Server is a TCP server that runs statements against a CommitFrame
// instance. Every connection shares the instance's tables.
type Server struct {
	listener   net.Listener
	instance   *CommitFrame.Instance
	engine     *db.Engine
	authConfig *AuthConfig
	tls        bool
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewServer creates a server without authentication.
func NewServer(instance *CommitFrame.Instance) *Server {
	return NewServerWithAuth(instance, nil)
}

// NewServerWithAuth creates a server that requires AUTH when authConfig is
// enabled.
func NewServerWithAuth(instance *CommitFrame.Instance, authConfig *AuthConfig) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		instance:   instance,
		engine:     instance.Engine(),
		authConfig: authConfig,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.serve(listener)
	log.Printf("Server listening on %s", s.Addr())
	return nil
}

// StartTLS begins listening for TLS connections using the given certificate
// and key files.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	listener, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	s.tls = true
	s.serve(listener)
	log.Printf("TLS server listening on %s", s.Addr())
	return nil
}

func (s *Server) serve(listener net.Listener) {
	s.listener = listener
	s.wg.Add(1)
	go s.acceptLoop()
}

// Stop closes the listener, cancels running statements and waits for
// connections to finish.
func (s *Server) Stop() error {
	s.cancel()
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.wg.Wait()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// TLSEnabled reports whether the server was started with StartTLS.
func (s *Server) TLSEnabled() bool {
	return s.tls
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			log.Printf("Accept error: %v", err)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	// Unblock the read below on shutdown.
	stop := context.AfterFunc(s.ctx, func() { conn.Close() })
	defer stop()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	reader := bufio.NewReader(conn)
	state := &ConnectionState{}

	for {
		// Read until newline (one statement per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF && s.ctx.Err() == nil {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		if strings.EqualFold(query, "quit") || strings.EqualFold(query, "exit") {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		if isAuthCommand(query) {
			response = s.handleAuth(query, state)
		} else {
			response = s.handleLine(query, state)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		if _, err := conn.Write(data); err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

// handleLine runs one statement line. A line starting with '{' is decoded as
// a JSON Request.
func (s *Server) handleLine(line string, state *ConnectionState) Response {
	if err := state.authorize(s.authConfig); err != nil {
		return Response{Success: false, Error: err.Error()}
	}

	query := line
	if strings.HasPrefix(line, "{") {
		req, err := DecodeRequest([]byte(line))
		if err != nil {
			return Response{Success: false, Error: fmt.Sprintf("invalid request: %v", err)}
		}
		query = req.Query
	}

	if identity := state.Identity(); identity != nil {
		log.Printf("%s: %s", identity, query)
	}
	return s.executeQuery(query)
}

func (s *Server) executeQuery(query string) Response {
	result, err := s.engine.ExecuteContext(s.ctx, query)
	if err != nil {
		return Response{
			Success: false,
			Error:   err.Error(),
		}
	}

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		}
		if qr.Columns == nil {
			qr.Columns = []string{}
		}
		if qr.Data == nil {
			qr.Data = [][]string{}
		}
		data, _ := json.Marshal(qr)
		return Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.CommandResult:
		cr := CommandResponse{
			TablesCreated:  r.TablesCreated,
			TablesReplaced: r.TablesReplaced,
			TablesDeleted:  r.TablesDeleted,
			ColumnsAltered: r.ColumnsAltered,
			RecordsRead:    r.RecordsRead,
			RecordsWritten: r.RecordsWritten,
			TimeMs:         r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(cr)
		return Response{
			Success: true,
			Type:    "command",
			Result:  data,
		}

	default:
		return Response{
			Success: true,
			Type:    "unknown",
		}
	}
}

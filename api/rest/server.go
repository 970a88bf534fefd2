package rest

import (
	"context"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/abcfe/avax-types/common/logger"
	"github.com/abcfe/avax-types/key"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/abcfe/avax-types/storage"
)

// Server REST API server: a custody-compatible signer service plus key
// and address lookups.
type Server struct {
	host       string
	port       int
	networkID  uint32
	httpServer *http.Server
	signers    map[string]key.Signer
	store      *storage.KeyStore
	hub        *WSHub
	limiter    *RateLimiter
	authToken  string
}

// NewServer copies signers; the set is fixed for the server's lifetime.
// The custody routes stay closed until SetAuthToken is called.
func NewServer(host string, port int, networkID uint32, signers map[string]key.Signer, store *storage.KeyStore) *Server {
	s := &Server{
		host:      host,
		port:      port,
		networkID: networkID,
		signers:   make(map[string]key.Signer, len(signers)),
		store:     store,
		hub:       NewWSHub(),
		limiter:   NewRateLimiter(nil),
	}
	for id, signer := range signers {
		s.signers[id] = signer
	}
	go s.hub.Run()
	return s
}

// SetRateLimit replaces the per-client limits. Call before Handler.
func (s *Server) SetRateLimit(cfg *RateLimitConfig) {
	s.limiter = NewRateLimiter(cfg)
}

// SetAuthToken sets the bearer token for the custody routes. Call before
// Handler.
func (s *Server) SetAuthToken(token string) {
	s.authToken = token
}

func (s *Server) status() StatusResp {
	ids := make([]string, 0, len(s.signers))
	for id := range s.signers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return StatusResp{
		NetworkID: s.networkID,
		HRP:       prt.HRP(s.networkID),
		Signers:   ids,
	}
}

// Handler returns the router without starting a listener.
func (s *Server) Handler() http.Handler {
	return setupRouter(s)
}

// Start API 서버 시작
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("REST API Server starting on ", addr, " with ", len(s.signers), " signer(s)")
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("REST API Server error: ", err)
		}
	}()

	return nil
}

// Stop API 서버 종료
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer == nil {
		return nil
	}
	logger.Info("Shutting down REST API Server...")
	return s.httpServer.Shutdown(ctx)
}

package rest

import (
	"net/http"
	"strings"

	"github.com/abcfe/avax-types/key/custody"
	"github.com/gorilla/mux"
)

func setupRouter(s *Server) http.Handler {
	r := mux.NewRouter()

	// Middleware setup
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(RateLimitMiddleware(s.limiter))

	// Base route
	r.HandleFunc("/", HomeHandler).Methods("GET")

	// Custody signer API, consumed by custody.HTTPClient
	custodyRouter := r.PathPrefix(custody.PathPrefix).Subrouter()
	custodyRouter.Use(RequireToken(s.authToken))
	custodyRouter.HandleFunc(strings.TrimPrefix(custody.PathPublicKey, custody.PathPrefix), GetCustodyPublicKey(s.signers)).Methods("POST")
	custodyRouter.HandleFunc(strings.TrimPrefix(custody.PathSign, custody.PathPrefix), SignCustodyDigest(s)).Methods("POST")

	// Signing and encoding event stream
	r.HandleFunc("/ws", HandleWebSocket(s))

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	apiRouter.HandleFunc("/status", GetStatus(s)).Methods("GET")

	// Key info
	apiRouter.HandleFunc("/keys", GetKeys(s.store)).Methods("GET")
	apiRouter.HandleFunc("/keys/{address}", GetKey(s.store)).Methods("GET")

	// Address helpers
	apiRouter.HandleFunc("/address/{address}", ParseAddress()).Methods("GET")

	// Wire message encoding
	apiRouter.HandleFunc("/message/encode", EncodeMessage(s)).Methods("POST")

	return r
}

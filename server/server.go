// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ava-labs/niftyvm/config"
)

const HealthEndpoint = "/health"

// Server maintains the HTTP router
type Server struct {
	log             logging.Logger
	router          *mux.Router
	srv             *http.Server
	listener        net.Listener
	shutdownTimeout time.Duration
}

// New returns a server that accepts connections on [listener] once
// [Server.Dispatch] is called.
func New(cfg config.HTTP, log logging.Logger, listener net.Listener) *Server {
	router := mux.NewRouter()
	router.HandleFunc(HealthEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(router)
	handler := gziphandler.GzipHandler(corsHandler)

	log.Info("API created",
		zap.Strings("allowedOrigins", cfg.AllowedOrigins),
	)
	return &Server{
		log:    log,
		router: router,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		listener:        listener,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// AddRoute registers [handler] at [endpoint].
func (s *Server) AddRoute(handler http.Handler, endpoint string) {
	s.log.Info("adding route",
		zap.String("endpoint", endpoint),
	)
	s.router.Handle(endpoint, handler)
}

// Dispatch serves until [Server.Shutdown] is called.
func (s *Server) Dispatch() error {
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}

package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Router binds the HTTP surface of the bank.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	r.HandleFunc("/accounts", s.openAccount).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id}", s.getAccount).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id}", s.closeAccount).Methods(http.MethodDelete)
	r.HandleFunc("/accounts/{id}/deposit", s.deposit).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id}/entries", s.accountEntries).Methods(http.MethodGet)

	r.HandleFunc("/transfers", s.transfer).Methods(http.MethodPost)
	r.HandleFunc("/journal", s.journal).Methods(http.MethodGet)
	r.HandleFunc("/interest/run", s.runInterest).Methods(http.MethodPost)
	r.HandleFunc("/audit", s.audit).Methods(http.MethodGet)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

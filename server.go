package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type APIServer struct {
	h       *http.Server
	addr    string
	port    string
	engine  *Engine
	metrics *Metrics
	router  *mux.Router
}

func InitServer(cfg *Config, engine *Engine) *APIServer {
	s := &APIServer{
		addr:    cfg.Addr,
		port:    cfg.Port,
		engine:  engine,
		metrics: NewMetrics(cfg.Name),
		router:  mux.NewRouter(),
	}

	s.router.HandleFunc("/read", s.readHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/write", s.writeHandler).Methods(http.MethodPost, http.MethodPut)
	s.router.HandleFunc("/delete", s.deleteHandler).Methods(http.MethodPost, http.MethodDelete)
	s.router.HandleFunc("/pairs", s.pairsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/digest", s.digestHandler).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return s
}

func (s *APIServer) Handler() http.Handler {
	return s.router
}

func (s *APIServer) Start() error {
	s.h = &http.Server{
		Addr:    s.addr + ":" + s.port,
		Handler: s.router,
	}

	log.Info("Starting server at " + s.addr + ":" + s.port)

	err := s.h.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Errorf("Server stopped: %v", err)
		return err
	}
	return nil
}

func (s *APIServer) readHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	log.Infof("Server processing read request for key=%s", key)
	value, err := s.engine.Read(key)
	s.observe("read", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(value))
}

func (s *APIServer) writeHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	log.Infof("Server processing write request for key=%s", key)
	value := r.URL.Query().Get("value")
	err := s.engine.Write(key, value)
	s.observe("write", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *APIServer) deleteHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	log.Infof("Server processing delete request for key=%s", key)
	err := s.engine.Delete(key)
	s.observe("delete", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *APIServer) pairsHandler(w http.ResponseWriter, r *http.Request) {
	log.Infof("Server processing pairs request")
	writeJSON(w, s.engine.Pairs())
}

func (s *APIServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Stats())
}

func (s *APIServer) digestHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%016x", s.engine.Digest())
}

func (s *APIServer) observe(op string, err error) {
	result := "ok"
	switch errors.Cause(err) {
	case nil:
	case ErrKeyNotFound:
		result = "not_found"
	default:
		result = "error"
	}
	s.metrics.Observe(op, result, s.engine.Stats())
}

func (s *APIServer) Stop() {
	if s.h != nil {
		s.h.Close()
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch errors.Cause(err) {
	case ErrKeyNotFound:
		w.WriteHeader(http.StatusNotFound)
	case ErrEmptyKey:
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	w.Write([]byte(err.Error()))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

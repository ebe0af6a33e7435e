package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/utils"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/api"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/api/http/common"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

const (
	wait = 30 * time.Second

	// maxRecordingBytes caps candidate uploads (browser webm recordings).
	maxRecordingBytes = 512 << 20
)

type Server struct {
	addr       string
	static     string
	debug      bool
	log        *slog.Logger
	svc        api.API
	exit       chan os.Signal
	httpserver *http.Server
}

func NewServer(addr, static string, debug bool, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		addr:   addr,
		static: static,
		debug:  debug,
		log:    log,
		exit:   make(chan os.Signal, 1),
	}
}

func (s *Server) ServeForever(svc api.API) error {
	s.svc = svc

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)
	router.HandleFunc(common.API_INTERVIEWS, s.Interviews).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc(common.API_INTERVIEW, s.Interview).Methods(http.MethodGet)
	router.HandleFunc(common.API_RECORDING, s.SubmitRecording).Methods(http.MethodPost)
	router.HandleFunc(common.API_STATE, s.SetState).Methods(http.MethodPatch)
	router.HandleFunc(common.API_AVATARS, s.Avatars).Methods(http.MethodGet)

	if s.static != "" {
		s.log.Info("serving static files", "dir", s.static)
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.static)))
	}

	if s.debug {
		router.Use(s.loggingMiddleware)
	}

	s.httpserver = &http.Server{
		Handler:      router,
		Addr:         s.addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		s.log.Info("listening", "addr", s.httpserver.Addr)
		if err := s.httpserver.ListenAndServe(); err != nil {
			s.log.Error("server stopped", "error", err)
		}
	}()

	signal.Notify(s.exit, os.Interrupt)
	<-s.exit

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	return s.httpserver.Shutdown(ctx)
}

func (s *Server) Close() error {
	s.exit <- os.Interrupt
	return nil
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) Interviews(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getInterviews(w, r)
	case http.MethodPost:
		s.createInterview(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) createInterview(w http.ResponseWriter, r *http.Request) {
	cir := &structs.CreateInterviewRequest{}
	err := unmarshalJson(w, r, cir)
	if err != nil {
		return
	}

	in, err := s.svc.CreateInterview(cir)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(&structs.CreateInterviewResponse{ID: in.ID, State: in.State})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) getInterviews(w http.ResponseWriter, r *http.Request) {
	q := &structs.Query{}
	err := unmarshalQuery(w, r, q)
	if err != nil {
		return
	}

	items, err := s.svc.Interviews(q)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	if s.debug {
		s.log.Debug("query returned", "url", r.URL.String(), "items", len(items))
	}

	err = json.NewEncoder(w).Encode(items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) Interview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !utils.IsValidID(id) {
		http.Error(w, "bad interview id", http.StatusBadRequest)
		return
	}

	in, err := s.svc.Interview(id)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) SubmitRecording(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !utils.IsValidID(id) {
		http.Error(w, "bad interview id", http.StatusBadRequest)
		return
	}

	err := r.ParseMultipartForm(maxRecordingBytes)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, _, err := r.FormFile(common.RecordingField)
	if err != nil {
		http.Error(w, "missing video", http.StatusBadRequest)
		return
	}
	defer f.Close()

	in, err := s.svc.SubmitRecording(id, f)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) SetState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !utils.IsValidID(id) {
		http.Error(w, "bad interview id", http.StatusBadRequest)
		return
	}

	ssr := &structs.SetStateRequest{}
	err := unmarshalJson(w, r, ssr)
	if err != nil {
		return
	}

	state := structs.ToState(string(ssr.State))
	if state == "" {
		http.Error(w, "bad state", http.StatusBadRequest)
		return
	}

	in, err := s.svc.SetState(id, state)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) Avatars(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Avatars(r.Context())
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

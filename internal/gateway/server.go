package gateway

import (
	"net/http"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Server wires the gateway service into an HTTP router.
type Server struct {
	service *Service
	log     *logger.Logger
}

// NewServer creates the HTTP surface in front of the gateway service.
func NewServer(service *Service, log *logger.Logger) *Server {
	return &Server{
		service: service,
		log:     log,
	}
}

// Router builds the route table. JSON in, WAV bytes out on the synthesis
// endpoints; /health never fails.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.Use(s.recoverMiddleware)
	router.Use(s.corsMiddleware)
	router.Use(s.accessLogMiddleware)

	router.HandleFunc("/api/tts", s.handleTTS).
		Methods(http.MethodPost, http.MethodGet, http.MethodOptions)
	router.HandleFunc("/api/tts/bark", s.handleBark).
		Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/api/speakers", s.handleSpeakers).
		Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/health", s.handleHealth).
		Methods(http.MethodGet, http.MethodOptions)

	return router
}

// corsMiddleware mirrors the allow-all CORS policy of the deployment this
// gateway fronts.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")
		writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if request.Method == http.MethodOptions {
			writer.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// accessLogMiddleware records one line per request.
func (s *Server) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		s.log.Info("Received request: %s %s", request.Method, request.URL.Path)
		next.ServeHTTP(writer, request)
	})
}

// recoverMiddleware converts a handler panic into a structured 500 so no
// request ever dies with an unhandled fault.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			errorID := uuid.NewString()
			s.log.Error(
				"Panic handling %s %s: error_id=%s detail=%v",
				request.Method, request.URL.Path, errorID, recovered,
			)

			writeJSON(writer, http.StatusInternalServerError, errorBody{
				ErrorID: errorID,
				Error:   codeInternal,
				Detail:  "internal server error",
			})
		}()

		next.ServeHTTP(writer, request)
	})
}

package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates the custom handler router. The Functions host posts
// invocations to /{functionName}; /api/v1 is for operators.
func NewRouter(trigger *BlobTriggerHandler, functionName string, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "pdf-blob-analyzer"})
	}).Methods("GET")

	// Blob trigger invocations
	router.HandleFunc("/"+functionName, trigger.ServeInvoke).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", trigger.AnalyzeUpload).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}

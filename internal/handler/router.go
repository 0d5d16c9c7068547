package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const apiPrefix = "/api/v1"

// NewRouter creates a new HTTP router with all routes configured. Middlewares
// wrap the whole router, first outermost, so unmatched and rejected requests
// pass through them too.
func NewRouter(correctionHandler *CorrectionHandler, middlewares ...mux.MiddlewareFunc) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "docid-ocr-corrector"})
	}).Methods("GET")

	// API routes live on the root router so a method mismatch answers 405.
	router.HandleFunc(apiPrefix+"/corrections", correctionHandler.CorrectPage).Methods("POST")
	router.HandleFunc(apiPrefix+"/documents/corrections", correctionHandler.CorrectDocument).Methods("POST")
	router.HandleFunc(apiPrefix+"/documents/corrections/pdf", correctionHandler.CorrectPDF).Methods("POST")
	router.HandleFunc(apiPrefix+"/reports/{id}", correctionHandler.GetReport).Methods("GET")
	router.HandleFunc(apiPrefix+"/rules", correctionHandler.GetRules).Methods("GET")
	router.HandleFunc(apiPrefix+"/grammar", correctionHandler.GetGrammar).Methods("GET")

	var h http.Handler = router
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:4173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			requestIDHeader,
		},
		ExposedHeaders: []string{
			requestIDHeader,
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(h)
}

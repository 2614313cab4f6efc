package main

import (
	"net/http"
	"os"
	"strings"

	"docsign/pkg/httpx"
	"docsign/pkg/logx"
	"docsign/services/devbackend/internal/stub"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	logx.Setup(os.Getenv("LOG_LEVEL"), "console")

	port := os.Getenv("SERVICE_PORT")
	if port == "" {
		port = "8091"
	}
	signatoryID := strings.TrimSpace(os.Getenv("DEVBACKEND_SIGNATORY_ID"))
	if signatoryID == "" {
		signatoryID = uuid.NewString()
	}

	st := stub.NewStore()
	appID := st.Seed(signatoryID)

	r := chi.NewRouter()
	r.Use(httpx.RequestID, httpx.AccessLog)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	stub.Routes(r, st)

	log.Info().Str("port", port).Str("signatory_id", signatoryID).Str("sign_application_id", appID).Msg("dev backend listening")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal().Err(err).Msg("dev backend stopped")
	}
}

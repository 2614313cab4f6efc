package main

import (
	"context"
	"net/http"

	"docsign/pkg/config"
	"docsign/pkg/httpx"
	"docsign/pkg/logx"
	"docsign/pkg/pdfload"
	"docsign/pkg/pdfstore"
	"docsign/pkg/signclient"
	"docsign/pkg/signpage"
	"docsign/services/signweb/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.FromEnv()
	logx.Setup(cfg.LogLevel, cfg.LogFormat)

	store, closeStore, err := pdfstore.Open(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("open pdf cache")
	}
	defer closeStore()

	client := signclient.FromConfig(cfg)
	orch := signpage.New(client, pdfload.New(client, store, cfg.PDFPolicy), cfg)

	r := chi.NewRouter()
	r.Use(httpx.RequestID, httpx.AccessLog)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	web.NewHandler(orch, cfg).Routes(r)

	log.Info().
		Str("port", cfg.ServicePort).
		Str("api_base", cfg.APIBaseURL).
		Str("pdf_policy", cfg.PDFPolicy).
		Str("cache_backend", cfg.CacheBackend).
		Msg("signweb listening")
	if err := http.ListenAndServe(":"+cfg.ServicePort, r); err != nil {
		log.Fatal().Err(err).Msg("signweb stopped")
	}
}

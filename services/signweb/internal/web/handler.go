package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docsign/pkg/config"
	"docsign/pkg/httpx"
	"docsign/pkg/i18n"
	"docsign/pkg/signpage"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type Handler struct {
	orch    *signpage.Orchestrator
	cfg     config.Config
	limiter *signLimiter
}

func NewHandler(orch *signpage.Orchestrator, cfg config.Config) *Handler {
	return &Handler{
		orch:    orch,
		cfg:     cfg.Normalized(),
		limiter: newSignLimiter(cfg.SignRatePerMinute, time.Minute),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/sign/document", h.HandlePage)
	r.Get("/sign/document/", h.HandlePage)
	r.Get("/sign/document/{signatoryId}", h.HandlePage)
	r.Post("/sign/document/{signatoryId}/sign", h.HandleSign)
	r.Get("/api/sign/document/{signatoryId}", h.HandleAPI)
}

func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	view := signpage.NewView()
	state := h.orch.Run(r.Context(), h.request(r, locale), view)
	h.render(w, r, statusFor(state, view.Snapshot()), locale, view.Snapshot(), "")
}

func (h *Handler) HandleAPI(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	view := signpage.NewView()
	state := h.orch.Run(r.Context(), h.request(r, locale), view)
	snap := view.Snapshot()
	httpx.WriteJSON(w, statusFor(state, snap), snap)
}

// HandleSign starts signing and redirects to the returned link. A failure
// re-renders the page with an alert and the sign control enabled again.
func (h *Handler) HandleSign(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	signatoryID := strings.TrimSpace(chi.URLParam(r, "signatoryId"))
	if !h.limiter.Allow(signatoryID, time.Now().UTC()) {
		log.Warn().Str("signatory_id", signatoryID).Msg("sign attempts rate limited")
		h.renderSignFailure(w, r, locale, http.StatusTooManyRequests, i18n.Translate(locale, "signingError"))
		return
	}
	link, err := h.orch.InitiateSigning(r.Context(), signatoryID)
	if err == nil {
		http.Redirect(w, r, link, http.StatusSeeOther)
		return
	}
	status := http.StatusBadGateway
	if errors.Is(err, signpage.ErrNoSignatory) {
		status = http.StatusBadRequest
	}
	h.renderSignFailure(w, r, locale, status, signpage.SigningAlert(locale, err))
}

func (h *Handler) renderSignFailure(w http.ResponseWriter, r *http.Request, locale string, status int, alert string) {
	view := signpage.NewView()
	h.orch.Run(r.Context(), h.request(r, locale), view)
	h.render(w, r, status, locale, view.Snapshot(), alert)
}

func (h *Handler) request(r *http.Request, locale string) signpage.Request {
	return signpage.Request{
		SignatoryID: strings.TrimSpace(chi.URLParam(r, "signatoryId")),
		Path:        r.URL.Path,
		Query:       r.URL.Query(),
		Locale:      locale,
	}
}

// locale picks ?lang=, then Accept-Language, then the configured default.
func (h *Handler) locale(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return i18n.Normalize(lang)
	}
	if m := i18n.Match(r.Header.Get("Accept-Language")); m != "" {
		return m
	}
	return i18n.Normalize(h.cfg.DefaultLocale)
}

func statusFor(state signpage.State, snap signpage.Snapshot) int {
	if state != signpage.StateError {
		return http.StatusOK
	}
	if snap.Error != nil && !snap.Error.Retry {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, locale string, snap signpage.Snapshot, alert string) {
	data := pageData{
		Snapshot:  snap,
		Locale:    locale,
		Alert:     alert,
		PageURL:   r.URL.Path,
		Languages: languageLinks(r.URL, locale),
	}
	if snap.Page != nil {
		data.SignAction = "/sign/document/" + url.PathEscape(snap.Page.SignatoryID) + "/sign"
		if q := r.URL.RawQuery; q != "" {
			data.SignAction += "?" + q
		}
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r.Context())).Msg("render signing page")
		httpx.WriteError(w, r, http.StatusInternalServerError, "RENDER_ERROR", "page could not be rendered")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Package stub serves fixture versions of the backend endpoints the signing
// page consumes.
package stub

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"docsign/pkg/httpx"
	"docsign/pkg/lookup"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// samplePDF is a one-page blank document.
var samplePDF = []byte("%PDF-1.4\n1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 595 842]>>endobj\ntrailer<</Root 1 0 R>>\n%%EOF\n")

type Store struct {
	mu        sync.Mutex
	sessions  map[string]map[string]any
	pdfs      map[string][]byte
	SignLinks string
}

func NewStore() *Store {
	return &Store{
		sessions:  map[string]map[string]any{},
		pdfs:      map[string][]byte{},
		SignLinks: "https://sign.dev.local/",
	}
}

// Seed registers a pending session for signatoryID and returns the sign
// application id its document is served under.
func (s *Store) Seed(signatoryID string) string {
	appID := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdfs[appID] = samplePDF
	s.sessions[signatoryID] = map[string]any{
		"createdDate": time.Now().UTC().Format(time.RFC3339),
		"signApplicationFile": map[string]any{
			"fileName":      "contract.pdf",
			"fileRef":       fmt.Sprintf("s3://dev-bucket/%s.pdf", appID),
			"fileRefWithQr": fmt.Sprintf("/rest/api/v1/files/sign-applications/%s/pdf", appID),
		},
		"signers": []map[string]any{
			{"id": uuid.NewString(), "isMainSigner": true, "name": "ТОО Строй Сервис", "bin": "180340012345", "phone": "+77010000000", "signState": "SIGNED", "signedTime": time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)},
			{"id": signatoryID, "isMainSigner": false, "name": "Иванов Иван", "iin": "900101300123", "signState": "PENDING"},
		},
	}
	return appID
}

func (s *Store) session(signatoryID string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions[signatoryID]
	return v, ok
}

func (s *Store) pdf(appID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.pdfs[appID]
	return v, ok
}

func Routes(r chi.Router, s *Store) {
	r.Route("/rest/api/v1", func(api chi.Router) {
		api.Get("/aitu/sign-applications/by-signatory/{signatoryId}", func(w http.ResponseWriter, r *http.Request) {
			sess, ok := s.session(chi.URLParam(r, "signatoryId"))
			if !ok {
				httpx.WriteError(w, r, 404, "NOT_FOUND", "signatory not found")
				return
			}
			httpx.WriteJSON(w, 200, sess)
		})
		api.Post("/aitu/signable-pdf/{signatoryId}/process", func(w http.ResponseWriter, r *http.Request) {
			if _, ok := s.session(chi.URLParam(r, "signatoryId")); !ok {
				httpx.WriteError(w, r, 404, "NOT_FOUND", "signatory not found")
				return
			}
			httpx.WriteJSON(w, 200, map[string]any{"signLink": s.SignLinks + uuid.NewString()})
		})
		api.Get("/files/sign-applications/{signApplicationId}/pdf", func(w http.ResponseWriter, r *http.Request) {
			b, ok := s.pdf(chi.URLParam(r, "signApplicationId"))
			if !ok {
				httpx.WriteError(w, r, 404, "NOT_FOUND", "sign application not found")
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.WriteHeader(200)
			_, _ = w.Write(b)
		})

		api.Get(lookupRoute(lookup.CompanyEndpoint, "id"), func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, 200, map[string]any{"id": chi.URLParam(r, "id"), "name": "ТОО Строй Сервис", "bin": "180340012345"})
		})
		api.Get(lookupRoute(lookup.OrderEndpoint, "reg"), func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, 200, map[string]any{"regNumber": chi.URLParam(r, "reg"), "status": "ACTIVE"})
		})
		api.Get(lookupRoute(lookup.ResumeEndpoint, "reg"), func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, 200, map[string]any{"regNumber": chi.URLParam(r, "reg"), "fullName": "Иванов Иван"})
		})
	})
}

// lookupRoute turns a full lookup endpoint into a route under /rest/api/v1.
func lookupRoute(endpoint, param string) string {
	return endpoint[len("/rest/api/v1"):] + "{" + param + "}"
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsign/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appID = "11111111-1111-4111-8111-111111111111"

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == config.SignatoryEndpoint+"sig-1":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"signApplicationId": appID,
				"signers":           []any{map[string]any{"id": "sig-1", "signState": "PENDING"}},
			})
		case r.URL.Path == config.SigningEndpoint+"sig-1/process":
			_ = json.NewEncoder(w).Encode(map[string]any{"signLink": "https://sign.example/1"})
		case r.URL.Path == "/rest/api/v1/files/sign-applications/"+appID+"/pdf":
			_, _ = w.Write([]byte("%PDF-1.4"))
		case r.URL.Path == "/rest/api/v1/analytics/company/7":
			_ = json.NewEncoder(w).Encode(map[string]any{"name": "Stroy LLP"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(`{"signApplicationFile":{"fileRef":"s3://b/` + appID + `.pdf"}}`))
	cmd.SetArgs(args)
	err := cmd.Execute()

	var summary map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary), out.String())
	return summary, err
}

func TestResolveFromStdinPayload(t *testing.T) {
	summary, err := run(t, "resolve", "--payload", "-", "--api-base", "https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, "PASS", summary["status"])
	assert.Equal(t, appID, summary["sign_application_id"])
	assert.Equal(t, "file-reference", summary["provenance"])
	assert.Equal(t, "https://api.example.com/rest/api/v1/files/sign-applications/"+appID+"/pdf", summary["pdf_url"])
}

func TestResolveQueryWins(t *testing.T) {
	summary, err := run(t, "resolve", "--payload", "-", "--query", "?sa=from-query")
	require.NoError(t, err)
	assert.Equal(t, "from-query", summary["sign_application_id"])
	assert.Equal(t, "query", summary["provenance"])
}

func TestSessionAndSign(t *testing.T) {
	srv := newBackend(t)

	summary, err := run(t, "session", "sig-1", "--api-base", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "RENDERED", summary["state"])
	assert.Equal(t, true, summary["can_sign"])

	summary, err = run(t, "sign", "sig-1", "--api-base", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://sign.example/1", summary["sign_link"])

	summary, err = run(t, "session", "missing", "--api-base", srv.URL)
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, "FAIL", summary["status"])
	assert.Equal(t, float64(404), summary["http_status"])
}

func TestFetchPDFWritesFile(t *testing.T) {
	srv := newBackend(t)
	out := filepath.Join(t.TempDir(), "doc.pdf")

	summary, err := run(t, "fetch-pdf", "--id", appID, "--out", out, "--api-base", srv.URL, "--pdf-policy", "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", summary["policy"])
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(b))

	summary, err = run(t, "fetch-pdf", "--api-base", srv.URL)
	assert.Error(t, err)
	assert.Equal(t, "FAIL", summary["status"])
}

func TestLookupCompany(t *testing.T) {
	srv := newBackend(t)

	summary, err := run(t, "lookup", "company", "7", "--api-base", srv.URL)
	require.NoError(t, err)
	record := summary["record"].(map[string]any)
	assert.Equal(t, "Stroy LLP", record["name"])
}

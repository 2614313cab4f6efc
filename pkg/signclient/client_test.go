package signclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionJSON = `{
  "createdDate": "2024-05-02T09:30:00Z",
  "signApplicationId": "app-1",
  "signApplicationFile": {"fileName": "contract.pdf", "fileRef": "s3://bucket/contract.pdf"},
  "signers": [
    {"id": "s-1", "isMainSigner": false, "iin": "900101300123", "signState": "PENDING"},
    {"id": "s-2", "isMainSigner": true, "bin": "123456789012", "signState": "SIGNED", "signedTime": "2024-05-02T10:00:00Z"}
  ]
}`

func TestClientSessionSignAndPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/api/v1/aitu/sign-applications/by-signatory/s-1":
			w.Header().Set("content-type", "application/json")
			_, _ = w.Write([]byte(sessionJSON))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/api/v1/aitu/signable-pdf/s-1/process":
			w.Header().Set("content-type", "application/json")
			_, _ = w.Write([]byte(`{"signLink":"https://aitu.example/sign/xyz"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/rest/api/v1/files/sign-applications/app-1/pdf":
			if r.Header.Get("Accept") != "application/pdf" {
				http.Error(w, "bad accept", http.StatusNotAcceptable)
				return
			}
			w.Header().Set("content-type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7 test"))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithTimeout(2*time.Second))
	ctx := context.Background()

	s, err := c.GetSigningSession(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, s.Signers, 2)
	assert.Equal(t, "contract.pdf", s.File().FileName)
	assert.Equal(t, "s3://bucket/contract.pdf", s.File().RawReference())
	assert.Equal(t, "app-1", s.Raw["signApplicationId"])
	signer, ok := s.FindSigner("s-2")
	require.True(t, ok)
	assert.True(t, signer.IsMainSigner)
	assert.Equal(t, SignStateSigned, signer.SignState)

	link, err := c.InitiateSigning(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "https://aitu.example/sign/xyz", link)

	pdf, err := c.FetchPDF(ctx, c.PDFURL("app-1"), false)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 test", string(pdf))
}

func TestClientHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetSigningSession(context.Background(), "nope")
	require.Error(t, err)
	var se *HTTPStatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.False(t, IsNetworkError(err))
}

func TestClientMissingSignLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).InitiateSigning(context.Background(), "s-1")
	assert.True(t, errors.Is(err, ErrMissingSignLink))
}

func TestClientTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).GetSigningSession(context.Background(), "slow")
	require.Error(t, err)
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.True(t, ne.Timeout())
}

func TestClientFreshHeaders(t *testing.T) {
	var gotCacheControl, gotPragma string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		gotPragma = r.Header.Get("Pragma")
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchPDF(context.Background(), srv.URL+"/doc.pdf", true)
	require.NoError(t, err)
	assert.Equal(t, "no-cache", gotCacheControl)
	assert.Equal(t, "no-cache", gotPragma)
}

func TestClientURLs(t *testing.T) {
	c := New("https://api.example.com/")
	assert.Equal(t, "https://api.example.com/rest/api/v1/aitu/sign-applications/by-signatory/a%2Fb", c.SessionURL("a/b"))
	assert.Equal(t, "https://api.example.com/rest/api/v1/aitu/signable-pdf/s-1/process", c.SigningURL("s-1"))
	assert.Equal(t, "https://api.example.com/rest/api/v1/files/sign-applications/app-1/pdf", c.PDFURL("app-1"))
}

func TestClientRejectsOversizedPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 a document longer than the limit"))
	}))
	defer srv.Close()

	body, err := New(srv.URL, WithMaxPDFBytes(8)).FetchPDF(context.Background(), srv.URL+"/doc.pdf", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResponseTooLarge))
	assert.Nil(t, body)

	body, err = New(srv.URL, WithMaxPDFBytes(41)).FetchPDF(context.Background(), srv.URL+"/doc.pdf", false)
	require.NoError(t, err)
	assert.Len(t, body, 41)
}

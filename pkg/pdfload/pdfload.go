package pdfload

import (
	"context"
	"fmt"

	"docsign/pkg/config"
	"docsign/pkg/pdfstore"
	"docsign/pkg/signclient"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const DefaultFileName = "document.pdf"

type Fetcher interface {
	FetchPDF(ctx context.Context, url string, fresh bool) ([]byte, error)
}

// Viewer receives the PDF slots of a page: viewer source, download link and
// new-window link.
type Viewer interface {
	// SetFallback is called before any fetch so the links are never empty.
	SetFallback(url, fileName string)
	SetDocument(doc Document)
	// SetDegraded points the viewer straight at url after a failed fetch.
	SetDegraded(url string, err error)
}

type Document struct {
	URL       string
	FileName  string
	Data      []byte
	FromCache bool
}

type PDFFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *PDFFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pdf fetch error: %d", e.StatusCode)
	}
	return fmt.Sprintf("pdf fetch error: %v", e.Err)
}

func (e *PDFFetchError) Unwrap() error { return e.Err }

// Loader fetches documents through a Fetcher. Under the cache policy it
// consults the store first and writes successful fetches back; under the
// fresh policy the store is never touched.
type Loader struct {
	fetcher Fetcher
	store   pdfstore.Store
	policy  string
	group   singleflight.Group
}

func New(f Fetcher, st pdfstore.Store, policy string) *Loader {
	if policy != config.PolicyFresh {
		policy = config.PolicyCache
	}
	return &Loader{fetcher: f, store: st, policy: policy}
}

func (l *Loader) Policy() string { return l.policy }

func (l *Loader) caching() bool { return l.policy == config.PolicyCache && l.store != nil }

// Load renders url into v. A failed fetch is reported to v as degraded and
// returned as *PDFFetchError; callers may ignore it.
func (l *Loader) Load(ctx context.Context, url, fileName string, v Viewer) (*Document, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	v.SetFallback(url, fileName)

	if l.caching() {
		data, ok, err := l.store.Get(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("pdf cache read failed")
		}
		if ok {
			doc := Document{URL: url, FileName: fileName, Data: data, FromCache: true}
			v.SetDocument(doc)
			return &doc, nil
		}
	}

	data, err := l.fetch(ctx, url)
	if err != nil {
		ferr := &PDFFetchError{URL: url, StatusCode: signclient.StatusCode(err), Err: err}
		log.Warn().Err(err).Str("url", url).Int("status", ferr.StatusCode).Msg("pdf fetch failed, falling back to direct url")
		v.SetDegraded(url, ferr)
		return nil, ferr
	}

	if l.caching() {
		if err := l.store.Put(ctx, url, data); err != nil {
			log.Warn().Err(errors.WithStack(err)).Str("url", url).Msg("pdf cache write failed")
		}
	}
	doc := Document{URL: url, FileName: fileName, Data: data}
	v.SetDocument(doc)
	return &doc, nil
}

// fetch shares one in-flight request per URL between callers. The shared
// request is detached from any single caller's cancellation and is bounded by
// the fetcher's own timeout; each caller still stops waiting when its ctx ends.
func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(l.policy+" "+url, func() (any, error) {
		return l.fetcher.FetchPDF(shared, url, l.policy == config.PolicyFresh)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

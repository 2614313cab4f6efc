// Package signpage drives one signing page load: session fetch, identifier
// resolution, PDF retrieval and the render slots.
package signpage

import (
	"context"

	"docsign/pkg/config"
	"docsign/pkg/i18n"
	"docsign/pkg/pdfload"
	"docsign/pkg/signclient"
	"docsign/pkg/signid"
	"docsign/pkg/urlnorm"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type SessionClient interface {
	GetSigningSession(ctx context.Context, signatoryID string) (*signclient.Session, error)
	InitiateSigning(ctx context.Context, signatoryID string) (string, error)
	SessionURL(signatoryID string) string
	SigningURL(signatoryID string) string
	PDFURL(signApplicationID string) string
}

type PDFLoader interface {
	Load(ctx context.Context, url, fileName string, v pdfload.Viewer) (*pdfload.Document, error)
	Policy() string
}

type Orchestrator struct {
	client   SessionClient
	loader   PDFLoader
	resolver *signid.Resolver
	norm     urlnorm.Normalizer
	cfg      config.Config
}

type Option func(*Orchestrator)

func WithResolver(r *signid.Resolver) Option {
	return func(o *Orchestrator) { o.resolver = r }
}

func New(client SessionClient, loader PDFLoader, cfg config.Config, opts ...Option) *Orchestrator {
	cfg = cfg.Normalized()
	o := &Orchestrator{
		client:   client,
		loader:   loader,
		resolver: signid.NewResolver(),
		norm: urlnorm.Normalizer{
			APIBase:      cfg.APIBaseURL,
			PageOrigin:   cfg.PageOrigin,
			S3PublicBase: cfg.S3PublicBase,
		},
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run performs one page load into p and returns the terminal state. PDF
// loads run in the background but are finished before Run returns; their
// failures never change the returned state.
func (o *Orchestrator) Run(ctx context.Context, req Request, p Presenter) State {
	locale := o.locale(req.Locale)
	p.SetState(StateInit)

	signatoryID := req.signatoryID()
	if signatoryID == "" {
		log.Warn().Str("path", req.Path).Msg("no signatory id in request")
		p.SetError(ErrNoSignatory, i18n.Translate(locale, "noSignatory"), false)
		p.SetState(StateError)
		return StateError
	}
	diag := Diagnostics{
		SignatoryID: signatoryID,
		SessionURL:  o.client.SessionURL(signatoryID),
		SigningURL:  o.client.SigningURL(signatoryID),
		PDFPolicy:   o.loader.Policy(),
	}

	p.SetState(StateLoading)
	var pdfs errgroup.Group
	defer func() { _ = pdfs.Wait() }()

	if early := o.resolver.FromQuery(req.Query); early != nil {
		diag.QueryID = early.ID
		if o.cfg.EarlyPDF {
			diag.EarlyPDFURL = o.norm.Resolve(o.client.PDFURL(early.ID))
			log.Debug().Str("sign_application_id", early.ID).Str("url", diag.EarlyPDFURL).Msg("early pdf load")
			o.loadAsync(ctx, &pdfs, diag.EarlyPDFURL, "", p)
		}
	}

	session, err := o.client.GetSigningSession(ctx, signatoryID)
	if err != nil {
		log.Error().Err(err).Str("signatory_id", signatoryID).Int("status", signclient.StatusCode(err)).Msg("signing session fetch failed")
		p.SetDiagnostics(diag)
		p.SetError(err, i18n.Translate(locale, "loadError"), true)
		p.SetState(StateError)
		return StateError
	}

	p.SetState(StateResolved)
	file := session.File()
	fileName := ""
	if file != nil {
		fileName = file.FileName
	}
	p.SetFileName(fileName)

	if fromPayload := o.resolver.FromPayload(session.Raw); fromPayload != nil {
		diag.PayloadID = fromPayload.ID
	}
	pdfURL := ""
	if res := o.resolver.Resolve(req.Query, session.Raw); res != nil {
		diag.ChosenID, diag.Provenance, diag.Source = res.ID, string(res.Provenance), res.Source
		pdfURL = o.norm.Resolve(o.client.PDFURL(res.ID))
	} else {
		pdfURL = o.fileReferenceURL(file, session.Raw, &diag)
	}
	diag.PDFURL = pdfURL

	switch {
	case pdfURL == "":
		log.Warn().Str("signatory_id", signatoryID).Msg("no pdf url or sign application id available")
	case pdfURL == diag.EarlyPDFURL:
		// already loading
	default:
		o.loadAsync(ctx, &pdfs, pdfURL, fileName, p)
	}

	log.Debug().
		Str("signatory_id", signatoryID).
		Str("sign_application_id", diag.ChosenID).
		Str("provenance", diag.Provenance).
		Str("url", pdfURL).
		Msg("signing session resolved")
	p.SetDiagnostics(diag)
	p.SetPage(o.page(locale, signatoryID, session))
	p.SetState(StateRendered)
	return StateRendered
}

// fileReferenceURL handles a session with no resolvable identifier: a raw
// file reference is used as a URL, unless it still carries a UUID.
func (o *Orchestrator) fileReferenceURL(file *signclient.SignableFile, raw map[string]any, diag *Diagnostics) string {
	ref := file.RawReference()
	if ref == "" {
		ref = signid.RawFileReference(raw)
	}
	if ref == "" {
		return ""
	}
	diag.RawFileRef = ref
	if id, ok := signid.ExtractUUID(ref); ok {
		diag.ChosenID, diag.Provenance, diag.Source = id, string(signid.ProvenanceFileReference), "rawFileRef"
		return o.norm.Resolve(o.client.PDFURL(id))
	}
	return o.norm.Resolve(ref)
}

func (o *Orchestrator) loadAsync(ctx context.Context, g *errgroup.Group, url, fileName string, v pdfload.Viewer) {
	g.Go(func() error {
		// failures are rendered degraded by the loader
		_, _ = o.loader.Load(ctx, url, fileName, v)
		return nil
	})
}

func (o *Orchestrator) page(locale, signatoryID string, s *signclient.Session) Page {
	sorted := SortSigners(s.Signers)
	views := make([]SignerView, 0, len(sorted))
	for _, sg := range sorted {
		views = append(views, presentSigner(locale, signatoryID, sg))
	}
	pg := Page{
		Locale:      locale,
		SignatoryID: signatoryID,
		Signers:     views,
		FileName:    i18n.Translate(locale, "notSpecified"),
		Created:     i18n.FormatDate(locale, s.CreatedDate),
	}
	if f := s.File(); f != nil && f.FileName != "" {
		pg.FileName = f.FileName
	}
	if current, ok := s.FindSigner(signatoryID); ok && current.SignState == signclient.SignStatePending {
		pg.CanSign = true
		pg.AppStoreURL = o.cfg.AppStoreURL
		pg.PlayStoreURL = o.cfg.PlayStoreURL
	}
	return pg
}

// InitiateSigning starts the signing process and returns the link to
// redirect to.
func (o *Orchestrator) InitiateSigning(ctx context.Context, signatoryID string) (string, error) {
	if signatoryID == "" {
		return "", ErrNoSignatory
	}
	link, err := o.client.InitiateSigning(ctx, signatoryID)
	if err != nil {
		log.Error().Err(err).Str("signatory_id", signatoryID).Msg("initiate signing failed")
		return "", errors.Wrapf(err, "initiate signing for %s", signatoryID)
	}
	log.Info().Str("signatory_id", signatoryID).Msg("signing initiated")
	return link, nil
}

// SigningAlert is the user-facing message for an InitiateSigning failure.
func SigningAlert(locale string, err error) string {
	if errors.Is(err, signclient.ErrMissingSignLink) {
		return i18n.Translate(locale, "signLinkNotReceived")
	}
	return i18n.Translate(locale, "signingError")
}

// LoadPDFFor loads the files endpoint document of an arbitrary sign
// application id into v.
func (o *Orchestrator) LoadPDFFor(ctx context.Context, signApplicationID, fileName string, v pdfload.Viewer) (*pdfload.Document, error) {
	u := o.norm.Resolve(o.client.PDFURL(signApplicationID))
	log.Info().Str("sign_application_id", signApplicationID).Str("url", u).Msg("forced pdf load")
	return o.loader.Load(ctx, u, fileName, v)
}

func (o *Orchestrator) locale(requested string) string {
	if requested != "" {
		return i18n.Normalize(requested)
	}
	return i18n.Normalize(o.cfg.DefaultLocale)
}

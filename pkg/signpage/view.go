package signpage

import (
	"encoding/base64"
	"sync"

	"docsign/pkg/pdfload"
	"docsign/pkg/signclient"
)

// Presenter materializes the render slots of a page. PDF slot methods may be
// called from background loads concurrently with the others.
type Presenter interface {
	pdfload.Viewer
	SetState(s State)
	SetPage(p Page)
	SetError(err error, message string, retry bool)
	SetDiagnostics(d Diagnostics)
	// SetFileName names the document once the session is known. It applies
	// to PDF slots already rendered and to any rendered later.
	SetFileName(name string)
}

// Page is the rendered session: signer list, document metadata and the sign
// control.
type Page struct {
	Locale       string       `json:"locale"`
	SignatoryID  string       `json:"signatory_id"`
	Signers      []SignerView `json:"signers"`
	FileName     string       `json:"file_name"`
	Created      string       `json:"created"`
	CanSign      bool         `json:"can_sign"`
	AppStoreURL  string       `json:"app_store_url,omitempty"`
	PlayStoreURL string       `json:"play_store_url,omitempty"`
}

type Diagnostics struct {
	SignatoryID string `json:"signatory_id"`
	SessionURL  string `json:"session_url"`
	SigningURL  string `json:"signing_url"`
	QueryID     string `json:"query_id,omitempty"`
	PayloadID   string `json:"payload_id,omitempty"`
	ChosenID    string `json:"chosen_id,omitempty"`
	Provenance  string `json:"provenance,omitempty"`
	Source      string `json:"source,omitempty"`
	EarlyPDFURL string `json:"early_pdf_url,omitempty"`
	RawFileRef  string `json:"raw_file_ref,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty"`
	PDFPolicy   string `json:"pdf_policy"`
}

// PDFSlots are the viewer source and the two links. ViewerSrc is a data URI
// once the document bytes are available.
type PDFSlots struct {
	URL          string `json:"url"`
	FileName     string `json:"file_name"`
	ViewerSrc    string `json:"viewer_src,omitempty"`
	DownloadURL  string `json:"download_url"`
	NewWindowURL string `json:"new_window_url"`
	Degraded     bool   `json:"degraded"`
	FromCache    bool   `json:"from_cache"`
	Size         int    `json:"size,omitempty"`
}

type ErrorSlot struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Status  int    `json:"status,omitempty"`
	Retry   bool   `json:"retry"`
}

// Snapshot is a point-in-time copy of a View.
type Snapshot struct {
	State       State       `json:"state"`
	Page        *Page       `json:"page,omitempty"`
	PDF         *PDFSlots   `json:"pdf,omitempty"`
	Error       *ErrorSlot  `json:"error,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// View is the default Presenter. Each setter replaces its slot, so the last
// render wins.
type View struct {
	mu       sync.Mutex
	snap     Snapshot
	fileName string
}

func NewView() *View { return &View{snap: Snapshot{State: StateInit}} }

func (v *View) SetState(s State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.State = s
}

func (v *View) SetPage(p Page) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.Page = &p
}

func (v *View) SetError(err error, message string, retry bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	slot := &ErrorSlot{Message: message, Retry: retry}
	if err != nil {
		slot.Detail = err.Error()
		slot.Status = signclient.StatusCode(err)
	}
	v.snap.Error = slot
}

func (v *View) SetDiagnostics(d Diagnostics) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.Diagnostics = d
}

func (v *View) SetFileName(name string) {
	if name == "" {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fileName = name
	if v.snap.PDF != nil {
		v.snap.PDF.FileName = name
	}
}

func (v *View) name(fallback string) string {
	if v.fileName != "" {
		return v.fileName
	}
	return fallback
}

func (v *View) SetFallback(url, fileName string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.PDF = &PDFSlots{URL: url, FileName: v.name(fileName), DownloadURL: url, NewWindowURL: url}
}

func (v *View) SetDocument(doc pdfload.Document) {
	src := DataURI(doc.Data)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.PDF = &PDFSlots{
		URL:          doc.URL,
		FileName:     v.name(doc.FileName),
		ViewerSrc:    src,
		DownloadURL:  src,
		NewWindowURL: src,
		FromCache:    doc.FromCache,
		Size:         len(doc.Data),
	}
}

func (v *View) SetDegraded(url string, _ error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	slots := PDFSlots{URL: url, DownloadURL: url, NewWindowURL: url, FileName: v.name("")}
	if slots.FileName == "" && v.snap.PDF != nil && v.snap.PDF.URL == url {
		slots.FileName = v.snap.PDF.FileName
	}
	slots.ViewerSrc = url
	slots.Degraded = true
	v.snap.PDF = &slots
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.snap
	if out.Page != nil {
		p := *out.Page
		p.Signers = append([]SignerView(nil), p.Signers...)
		out.Page = &p
	}
	if out.PDF != nil {
		pdf := *out.PDF
		out.PDF = &pdf
	}
	if out.Error != nil {
		e := *out.Error
		out.Error = &e
	}
	return out
}

func DataURI(data []byte) string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data)
}

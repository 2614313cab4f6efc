package signpage

import (
	"net/url"
	"regexp"

	"github.com/pkg/errors"
)

// State is the page lifecycle: INIT -> LOADING -> RESOLVED -> RENDERED, or
// ERROR from INIT or LOADING.
type State string

const (
	StateInit     State = "INIT"
	StateLoading  State = "LOADING"
	StateResolved State = "RESOLVED"
	StateRendered State = "RENDERED"
	StateError    State = "ERROR"
)

var ErrNoSignatory = errors.New("no signatory specified")

var signatoryPathRE = regexp.MustCompile(`/sign/document/([^/]+)$`)

// SignatoryIDFromPath returns the trailing segment after /sign/document/, or
// "" when the path has none.
func SignatoryIDFromPath(path string) string {
	m := signatoryPathRE.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	id, err := url.PathUnescape(m[1])
	if err != nil {
		return m[1]
	}
	return id
}

// Request describes one page load. SignatoryID, when set, takes precedence
// over Path.
type Request struct {
	Path        string
	SignatoryID string
	Query       url.Values
	Locale      string
}

func (r Request) signatoryID() string {
	if r.SignatoryID != "" {
		return r.SignatoryID
	}
	return SignatoryIDFromPath(r.Path)
}

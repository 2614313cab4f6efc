package web

import (
	"html/template"
	"net/url"
	"strings"

	"docsign/pkg/i18n"
	"docsign/pkg/signpage"
)

type languageLink struct {
	Code   string
	Label  string
	Href   string
	Active bool
}

type pageData struct {
	signpage.Snapshot
	Locale     string
	Alert      string
	PageURL    string
	SignAction string
	Languages  []languageLink
}

func (d pageData) T(key string) string { return i18n.Translate(d.Locale, key) }

// PDFSrc marks the viewer source safe for an object/iframe attribute. Only
// data URIs minted by the view and http(s) URLs pass.
func (d pageData) PDFSrc() template.URL {
	if d.PDF == nil {
		return ""
	}
	return trustedURL(d.PDF.ViewerSrc)
}

func (d pageData) DownloadHref() template.URL {
	if d.PDF == nil {
		return ""
	}
	return trustedURL(d.PDF.DownloadURL)
}

func (d pageData) NewWindowHref() template.URL {
	if d.PDF == nil {
		return ""
	}
	return trustedURL(d.PDF.NewWindowURL)
}

func (d pageData) DownloadName() string {
	if d.PDF == nil || d.PDF.FileName == "" {
		return "document.pdf"
	}
	return d.PDF.FileName
}

func trustedURL(s string) template.URL {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "data:application/pdf;base64,"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
		return template.URL(s)
	default:
		return ""
	}
}

func languageLinks(u *url.URL, active string) []languageLink {
	labels := map[string]string{"ru": "Рус", "kk": "Қаз"}
	out := make([]languageLink, 0, len(i18n.Supported))
	for _, code := range i18n.Supported {
		q := u.Query()
		q.Set("lang", code)
		out = append(out, languageLink{
			Code:   code,
			Label:  labels[code],
			Href:   u.Path + "?" + q.Encode(),
			Active: code == active,
		})
	}
	return out
}

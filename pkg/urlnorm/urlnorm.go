package urlnorm

import (
	"net/url"
	"regexp"
	"strings"
)

var absoluteRE = regexp.MustCompile(`(?i)^https?://`)

var DefaultAPIPrefixes = []string{"rest/"}

// Normalizer turns the path fragments found in signing payloads into request
// URLs. APIBase serves API-prefixed paths, PageOrigin everything else.
type Normalizer struct {
	APIBase     string
	PageOrigin  string
	APIPrefixes []string
	// S3PublicBase, when set, rewrites s3://<key> references to <base>/<key>.
	S3PublicBase string
}

func Resolve(raw, apiBase, pageOrigin string) string {
	n := Normalizer{APIBase: apiBase, PageOrigin: pageOrigin}
	return n.Resolve(raw)
}

// Resolve never fails: on any internal fault the input is returned as is.
func (n Normalizer) Resolve(raw string) (out string) {
	if raw == "" {
		return raw
	}
	defer func() {
		if r := recover(); r != nil {
			out = raw
		}
	}()
	val := strings.TrimSpace(raw)
	if val == "" {
		return raw
	}
	if absoluteRE.MatchString(val) {
		return val
	}
	if base := strings.TrimRight(strings.TrimSpace(n.S3PublicBase), "/"); base != "" && strings.HasPrefix(strings.ToLower(val), "s3://") {
		return base + "/" + val[len("s3://"):]
	}
	if strings.HasPrefix(val, "//") {
		return n.pageProtocol() + val
	}
	path := "/" + strings.TrimPrefix(val, "/")
	if n.isAPIPath(path[1:]) {
		return strings.TrimRight(strings.TrimSpace(n.APIBase), "/") + path
	}
	return n.pageOriginBase() + path
}

func (n Normalizer) isAPIPath(p string) bool {
	prefixes := n.APIPrefixes
	if len(prefixes) == 0 {
		prefixes = DefaultAPIPrefixes
	}
	lower := strings.ToLower(p)
	for _, pre := range prefixes {
		if strings.HasPrefix(lower, strings.ToLower(strings.TrimPrefix(pre, "/"))) {
			return true
		}
	}
	return false
}

func (n Normalizer) pageProtocol() string {
	u, err := url.Parse(strings.TrimSpace(n.PageOrigin))
	if err != nil || u.Scheme == "" {
		return "https:"
	}
	return strings.ToLower(u.Scheme) + ":"
}

func (n Normalizer) pageOriginBase() string {
	u, err := url.Parse(strings.TrimSpace(n.PageOrigin))
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.TrimSpace(n.PageOrigin), "/")
	}
	return u.Scheme + "://" + u.Host
}

package signid

import (
	"net/url"
	"sort"
	"strings"
)

type Provenance string

const (
	ProvenanceQuery         Provenance = "query"
	ProvenancePayloadDirect Provenance = "payload-direct"
	ProvenancePayloadNested Provenance = "payload-nested"
	ProvenanceFileReference Provenance = "file-reference"
)

// Resolved is a chosen sign-application id. Provenance and Source are for
// diagnostics only.
type Resolved struct {
	ID         string     `json:"id"`
	Provenance Provenance `json:"provenance"`
	Source     string     `json:"source"`
}

// DefaultQueryKeys are the query parameter names accepted for a
// sign-application id, in precedence order.
var DefaultQueryKeys = []string{
	"signApplicationId",
	"signApplicationUuid",
	"signAppId",
	"applicationId",
	"saId",
	"sa",
	"uuid",
	"id",
}

// aliasKeys are compared against lower-cased payload root keys.
var aliasKeys = map[string]struct{}{
	"signapplicationid":     {},
	"sign_application_id":   {},
	"signappid":             {},
	"signappuuid":           {},
	"sign_application_uuid": {},
}

// Extractor pulls one candidate id out of a payload object.
type Extractor struct {
	Source     string
	Provenance Provenance
	Extract    func(obj map[string]any) (string, bool)
}

// Resolver tries the query keys first and then each payload extractor in
// order; the first non-empty candidate wins.
type Resolver struct {
	QueryKeys  []string
	Extractors []Extractor
}

func NewResolver() *Resolver {
	return &Resolver{QueryKeys: DefaultQueryKeys, Extractors: PayloadExtractors()}
}

// Resolve applies the default resolver. A nil result means no identifier
// was found; callers fall back to the raw file reference.
func Resolve(query url.Values, payload map[string]any) *Resolved {
	return NewResolver().Resolve(query, payload)
}

func (r *Resolver) Resolve(query url.Values, payload map[string]any) *Resolved {
	if res := r.FromQuery(query); res != nil {
		return res
	}
	return r.FromPayload(payload)
}

func (r *Resolver) FromQuery(query url.Values) *Resolved {
	for _, k := range r.QueryKeys {
		if v := strings.TrimSpace(query.Get(k)); v != "" {
			return &Resolved{ID: v, Provenance: ProvenanceQuery, Source: "query." + k}
		}
	}
	return nil
}

func (r *Resolver) FromPayload(payload map[string]any) *Resolved {
	if payload == nil {
		return nil
	}
	for _, ex := range r.Extractors {
		if v, ok := ex.Extract(payload); ok {
			return &Resolved{ID: v, Provenance: ex.Provenance, Source: ex.Source}
		}
	}
	return nil
}

// PayloadExtractors returns the payload ladder: direct root fields, the
// nested signApplication object, the nested file object, file references on
// the root and finally a scan for alias keys.
func PayloadExtractors() []Extractor {
	var out []Extractor
	for _, k := range []string{"signApplicationId", "signApplicationUuid", "applicationId", "signAppId", "id", "uuid"} {
		out = append(out, direct("data."+k, ProvenancePayloadDirect, k))
	}
	out = append(out,
		direct("data.signApplication.id", ProvenancePayloadNested, "signApplication", "id"),
		direct("data.signApplication.uuid", ProvenancePayloadNested, "signApplication", "uuid"),
		fileObject("data.signApplicationFile.signApplicationId", ProvenancePayloadNested, str("signApplicationId")),
		fileObject("data.signApplicationFile.applicationId", ProvenancePayloadNested, str("applicationId")),
		fileObject("data.signApplicationFile.signApplication.id", ProvenancePayloadNested, str("signApplication", "id")),
		fileObject("data.signApplicationFile.signApplication.uuid", ProvenancePayloadNested, str("signApplication", "uuid")),
		fileObject("data.signApplicationFile.fileRefWithQr(uuid)", ProvenanceFileReference, uuidAt("fileRefWithQr")),
		fileObject("data.signApplicationFile.fileRef(uuid)", ProvenanceFileReference, uuidAt("fileRef")),
		Extractor{Source: "data.fileRefWithQr(uuid)", Provenance: ProvenanceFileReference, Extract: uuidAt("fileRefWithQr")},
		Extractor{Source: "data.fileRef(uuid)", Provenance: ProvenanceFileReference, Extract: uuidAt("fileRef")},
		Extractor{Source: "data[alias]", Provenance: ProvenancePayloadDirect, Extract: aliasScan},
	)
	return out
}

// FileObject returns the nested file description of a session payload. The
// backend names it signApplicationFile; file is accepted as well.
func FileObject(payload map[string]any) map[string]any {
	if f, ok := payload["signApplicationFile"].(map[string]any); ok {
		return f
	}
	if f, ok := payload["file"].(map[string]any); ok {
		return f
	}
	return nil
}

// RawFileReference returns fileRefWithQr, or fileRef, of the file object.
func RawFileReference(payload map[string]any) string {
	f := FileObject(payload)
	for _, k := range []string{"fileRefWithQr", "fileRef"} {
		if v, ok := stringAt(f, k); ok {
			return v
		}
	}
	return ""
}

func direct(source string, p Provenance, path ...string) Extractor {
	return Extractor{Source: source, Provenance: p, Extract: str(path...)}
}

func fileObject(source string, p Provenance, inner func(map[string]any) (string, bool)) Extractor {
	return Extractor{Source: source, Provenance: p, Extract: func(obj map[string]any) (string, bool) {
		f := FileObject(obj)
		if f == nil {
			return "", false
		}
		return inner(f)
	}}
}

func str(path ...string) func(map[string]any) (string, bool) {
	return func(obj map[string]any) (string, bool) {
		return stringAt(obj, path...)
	}
}

func uuidAt(key string) func(map[string]any) (string, bool) {
	return func(obj map[string]any) (string, bool) {
		return extractUUIDValue(obj[key])
	}
}

func stringAt(obj map[string]any, path ...string) (string, bool) {
	cur := obj
	for i, k := range path {
		if cur == nil {
			return "", false
		}
		if i == len(path)-1 {
			s, ok := cur[k].(string)
			s = strings.TrimSpace(s)
			return s, ok && s != ""
		}
		cur, _ = cur[k].(map[string]any)
	}
	return "", false
}

func aliasScan(obj map[string]any) (string, bool) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := aliasKeys[strings.ToLower(k)]; !ok {
			continue
		}
		if v, ok := stringAt(obj, k); ok {
			return v, true
		}
	}
	return "", false
}

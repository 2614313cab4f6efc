package signpage

import (
	"sort"
	"strings"

	"docsign/pkg/i18n"
	"docsign/pkg/signclient"
)

// SortSigners returns a copy with main signers first. Relative order is
// otherwise preserved.
func SortSigners(in []signclient.Signer) []signclient.Signer {
	out := make([]signclient.Signer, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsMainSigner && !out[j].IsMainSigner
	})
	return out
}

type SignerKind string

const (
	SignerOrganization SignerKind = "LLP"
	SignerIndividual   SignerKind = "Person"
)

// SignerType derives the entity kind: a non-blank BIN means an organization.
func SignerType(s signclient.Signer) SignerKind {
	if strings.TrimSpace(s.BIN) != "" {
		return SignerOrganization
	}
	return SignerIndividual
}

type SignerView struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	IDLine     string `json:"id_line"`
	Phone      string `json:"phone"`
	State      string `json:"state"`
	StateText  string `json:"state_text"`
	StateClass string `json:"state_class"`
	SignedAt   string `json:"signed_at,omitempty"`
	Main       bool   `json:"main"`
	Current    bool   `json:"current"`
}

func presentSigner(locale, currentID string, s signclient.Signer) SignerView {
	notSpecified := i18n.Translate(locale, "notSpecified")
	v := SignerView{
		ID:         s.ID,
		Type:       i18n.Translate(locale, string(SignerType(s))),
		Name:       orDefault(s.Name, notSpecified),
		Phone:      orDefault(s.Phone, notSpecified),
		State:      string(s.SignState),
		StateText:  i18n.SignState(locale, string(s.SignState)),
		StateClass: i18n.SignStateClass(string(s.SignState)),
		Main:       s.IsMainSigner,
		Current:    s.ID == currentID,
	}
	if SignerType(s) == SignerOrganization {
		v.IDLine = i18n.Translate(locale, "iinBin") + ": " + s.BIN
	} else {
		v.IDLine = i18n.Translate(locale, "iin") + ": " + orDefault(s.IIN, notSpecified)
	}
	if s.SignedTime != "" {
		v.SignedAt = i18n.FormatDate(locale, s.SignedTime)
	}
	return v
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

package signid

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fileUUID = "11111111-1111-4111-8111-111111111111"

func TestResolveQueryWinsOverPayload(t *testing.T) {
	q := url.Values{"signApplicationId": {"AAA"}}
	got := Resolve(q, map[string]any{"signApplicationId": "BBB"})
	require.NotNil(t, got)
	assert.Equal(t, "AAA", got.ID)
	assert.Equal(t, ProvenanceQuery, got.Provenance)
}

func TestResolveQueryKeyOrder(t *testing.T) {
	q := url.Values{"id": {"last"}, "sa": {"middle"}, "signAppId": {"  "}}
	got := Resolve(q, nil)
	require.NotNil(t, got)
	assert.Equal(t, "middle", got.ID)
	assert.Equal(t, "query.sa", got.Source)
}

func TestResolveEmbeddedFileReference(t *testing.T) {
	payload := map[string]any{
		"signApplicationFile": map[string]any{"fileRef": "s3://bucket/" + fileUUID + ".pdf"},
	}
	got := Resolve(url.Values{}, payload)
	require.NotNil(t, got)
	assert.Equal(t, fileUUID, got.ID)
	assert.Equal(t, ProvenanceFileReference, got.Provenance)
}

func TestResolvePayloadLadder(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]any
		want    string
		prov    Provenance
	}{
		{
			name:    "direct beats nested",
			payload: map[string]any{"applicationId": "direct", "signApplication": map[string]any{"id": "nested"}},
			want:    "direct",
			prov:    ProvenancePayloadDirect,
		},
		{
			name:    "named fields beat root id",
			payload: map[string]any{"id": "root", "signAppId": "named"},
			want:    "named",
			prov:    ProvenancePayloadDirect,
		},
		{
			name:    "nested sign application",
			payload: map[string]any{"signApplication": map[string]any{"uuid": "nested-uuid"}},
			want:    "nested-uuid",
			prov:    ProvenancePayloadNested,
		},
		{
			name: "file object id beats file reference",
			payload: map[string]any{"signApplicationFile": map[string]any{
				"applicationId": "file-app",
				"fileRef":       "s3://bucket/" + fileUUID,
			}},
			want: "file-app",
			prov: ProvenancePayloadNested,
		},
		{
			name: "qr reference beats plain reference",
			payload: map[string]any{"signApplicationFile": map[string]any{
				"fileRefWithQr": "qr/22222222-2222-4222-9222-222222222222.pdf",
				"fileRef":       "s3://bucket/" + fileUUID,
			}},
			want: "22222222-2222-4222-9222-222222222222",
			prov: ProvenanceFileReference,
		},
		{
			name:    "root file reference",
			payload: map[string]any{"fileRef": "/files/" + fileUUID},
			want:    fileUUID,
			prov:    ProvenanceFileReference,
		},
		{
			name:    "alias key",
			payload: map[string]any{"sign_application_id": "aliased", "createdDate": "2024-01-01"},
			want:    "aliased",
			prov:    ProvenancePayloadDirect,
		},
		{
			name:    "non string id ignored",
			payload: map[string]any{"id": 42.0, "uuid": "fallback"},
			want:    "fallback",
			prov:    ProvenancePayloadDirect,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(nil, tc.payload)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.ID)
			assert.Equal(t, tc.prov, got.Provenance)
		})
	}
}

func TestResolveNothingFound(t *testing.T) {
	payload := map[string]any{
		"createdDate":         "2024-01-01T10:00:00Z",
		"signApplicationFile": map[string]any{"fileRefWithQr": "s3://bucket/contract.pdf"},
		"signers":             []any{},
	}
	assert.Nil(t, Resolve(url.Values{}, payload))
	assert.Nil(t, Resolve(nil, nil))
	assert.Equal(t, "s3://bucket/contract.pdf", RawFileReference(payload))
}

func TestFileObjectAcceptsFileAlias(t *testing.T) {
	payload := map[string]any{"file": map[string]any{"fileRef": "/docs/a.pdf"}}
	assert.Equal(t, "/docs/a.pdf", RawFileReference(payload))
}

func TestCustomExtractorChain(t *testing.T) {
	r := &Resolver{
		QueryKeys: []string{"doc"},
		Extractors: []Extractor{{
			Source:     "data.ref",
			Provenance: ProvenancePayloadDirect,
			Extract:    str("ref"),
		}},
	}
	got := r.Resolve(url.Values{"id": {"ignored"}}, map[string]any{"ref": "custom"})
	require.NotNil(t, got)
	assert.Equal(t, "custom", got.ID)
	assert.Equal(t, "data.ref", got.Source)
}

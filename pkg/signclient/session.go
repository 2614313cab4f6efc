package signclient

type SignState string

const (
	SignStatePending  SignState = "PENDING"
	SignStateSigned   SignState = "SIGNED"
	SignStateRejected SignState = "REJECTED"
	SignStateExpired  SignState = "EXPIRED"
)

type Signer struct {
	ID           string    `json:"id"`
	IsMainSigner bool      `json:"isMainSigner"`
	Name         string    `json:"name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	BIN          string    `json:"bin,omitempty"`
	IIN          string    `json:"iin,omitempty"`
	SignState    SignState `json:"signState"`
	SignedTime   string    `json:"signedTime,omitempty"`
}

type SignableFile struct {
	FileName      string `json:"fileName,omitempty"`
	FileRef       string `json:"fileRef,omitempty"`
	FileRefWithQr string `json:"fileRefWithQr,omitempty"`
}

// RawReference is the reference used when no sign-application id can be
// resolved.
func (f *SignableFile) RawReference() string {
	if f == nil {
		return ""
	}
	if f.FileRefWithQr != "" {
		return f.FileRefWithQr
	}
	return f.FileRef
}

// Session is a signing session as returned by the by-signatory endpoint.
// Raw keeps the decoded payload for identifier resolution.
type Session struct {
	CreatedDate         string         `json:"createdDate,omitempty"`
	SignApplicationFile *SignableFile  `json:"signApplicationFile,omitempty"`
	AltFile             *SignableFile  `json:"file,omitempty"`
	Signers             []Signer       `json:"signers"`
	Raw                 map[string]any `json:"-"`
}

func (s *Session) File() *SignableFile {
	if s == nil {
		return nil
	}
	if s.SignApplicationFile != nil {
		return s.SignApplicationFile
	}
	return s.AltFile
}

// FindSigner returns the signer with the given id.
func (s *Session) FindSigner(id string) (Signer, bool) {
	if s == nil {
		return Signer{}, false
	}
	for _, sg := range s.Signers {
		if sg.ID == id {
			return sg, true
		}
	}
	return Signer{}, false
}

type signResponse struct {
	SignLink string `json:"signLink"`
}

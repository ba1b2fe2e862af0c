package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/SeakMengs/AutoActa/internal/constant"
)

// AppliedEffect remembers what a transition did to the record so it can be undone exactly.
type AppliedEffect struct {
	Applied        bool     `json:"applied"`
	PrevState      string   `json:"prevState,omitempty"`
	SetState       string   `json:"setState,omitempty"`
	AddedSubstates []string `json:"addedSubstates,omitempty"`
}

func (ae AppliedEffect) Value() (driver.Value, error) {
	b, err := json.Marshal(ae)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (ae *AppliedEffect) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*ae = AppliedEffect{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("applied effect: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*ae = AppliedEffect{}
		return nil
	}
	return json.Unmarshal(raw, ae)
}

type GeneratedDocument struct {
	BaseModel
	ConcursoID     string                 `gorm:"type:text;not null;index" json:"concursoId"`
	TypeKey        string                 `gorm:"type:text;not null;index" json:"typeKey"`
	State          constant.DocumentState `gorm:"type:text;not null" json:"state"`
	DraftFileRef   *string                `gorm:"type:text" json:"draftFileRef"`
	FinalFileRef   *string                `gorm:"type:text" json:"finalFileRef"`
	SignatureCount int                    `gorm:"type:integer;not null;default:0" json:"signatureCount"`
	DraftEffect    AppliedEffect          `gorm:"type:text" json:"-"`
	SignedEffect   AppliedEffect          `gorm:"type:text" json:"-"`
	CreatedBy      string                 `gorm:"type:text" json:"createdBy"`

	Concurso Concurso `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (gd GeneratedDocument) TableName() string {
	return "generated_documents"
}

// Signature is one signer's mark on a document. At most one per (document, signer).
type Signature struct {
	BaseModel
	DocumentID string `gorm:"type:text;not null;uniqueIndex:idx_signature_document_signer" json:"documentId"`
	SignerID   string `gorm:"type:text;not null;uniqueIndex:idx_signature_document_signer" json:"signerId"`
	// Name parts and role as stamped, so verification does not depend on the roster.
	SignerSurname string `gorm:"type:text;not null" json:"signerSurname"`
	SignerName    string `gorm:"type:text;not null" json:"signerName"`
	SignerRole    string `gorm:"type:text" json:"signerRole"`
	Ordinal       int    `gorm:"type:integer;not null" json:"ordinal"`

	Document GeneratedDocument `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (s Signature) TableName() string {
	return "signatures"
}

type DocumentLog struct {
	BaseModel
	ActorID     string                  `gorm:"type:text;not null" json:"actorId"`
	Role        string                  `gorm:"type:text;not null" json:"role"`
	Action      constant.DocumentAction `gorm:"type:text;not null" json:"action"`
	Description string                  `gorm:"type:text;not null" json:"description"`

	DocumentID string `gorm:"type:text;not null;index" json:"documentId"`
	ConcursoID string `gorm:"type:text;not null;index" json:"concursoId"`
}

func (dl DocumentLog) TableName() string {
	return "document_logs"
}

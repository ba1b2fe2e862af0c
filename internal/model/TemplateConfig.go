package model

import "github.com/SeakMengs/AutoActa/internal/constant"

// Effect is a record-level side effect declared by a template.
type Effect struct {
	NewRecordState     string    `gorm:"type:text" json:"newRecordState" yaml:"newRecordState"`
	NewRecordSubstates Substates `gorm:"type:text" json:"newRecordSubstates" yaml:"newRecordSubstates"`
}

func (e Effect) IsZero() bool {
	return e.NewRecordState == "" && len(e.NewRecordSubstates) == 0
}

// TemplateConfig describes one document type. TypeKey never changes once documents reference it.
type TemplateConfig struct {
	BaseModel
	TypeKey                  string                      `gorm:"type:text;not null;uniqueIndex" json:"typeKey"`
	DisplayName              string                      `gorm:"type:text;not null" json:"displayName"`
	Class                    constant.DocumentClass      `gorm:"type:text;not null;default:'OTHER'" json:"class"`
	ConcursoVisibility       constant.ConcursoVisibility `gorm:"type:text;not null;default:'BOTH'" json:"concursoVisibility"`
	UniquePerRecord          bool                        `gorm:"type:boolean;default:false" json:"uniquePerRecord"`
	SignerCanSign            bool                        `gorm:"type:boolean;default:false" json:"signerCanSign"`
	SignerCanUploadSigned    bool                        `gorm:"type:boolean;default:false" json:"signerCanUploadSigned"`
	AdminCanSign             bool                        `gorm:"type:boolean;default:false" json:"adminCanSign"`
	AdminCanSendForSignature bool                        `gorm:"type:boolean;default:false" json:"adminCanSendForSignature"`
	// VisibilityRules is the raw JSON document {"<STATE>": {"roles": [...], "groups": [...]}}.
	VisibilityRules string `gorm:"type:text;not null;default:'{}'" json:"visibilityRules"`
	OnDraftCreated  Effect `gorm:"embedded;embeddedPrefix:on_draft_created_" json:"onDraftCreated"`
	OnFullySigned   Effect `gorm:"embedded;embeddedPrefix:on_fully_signed_" json:"onFullySigned"`
	TemplateFileID  string `gorm:"type:text" json:"templateFileId"`
	FileNamePattern string `gorm:"type:text" json:"fileNamePattern"`
	IsActive        bool   `gorm:"type:boolean;default:true" json:"isActive"`
}

func (tc TemplateConfig) TableName() string {
	return "template_configs"
}

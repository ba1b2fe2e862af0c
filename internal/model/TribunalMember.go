package model

import "github.com/SeakMengs/AutoActa/internal/constant"

type TribunalMember struct {
	BaseModel
	ConcursoID string `gorm:"type:text;not null;index;uniqueIndex:idx_tribunal_concurso_user" json:"concursoId"`
	// UserID is the identity subject of the member.
	UserID          string                 `gorm:"type:text;not null;uniqueIndex:idx_tribunal_concurso_user" json:"userId"`
	Surname         string                 `gorm:"type:text;not null" json:"surname"`
	Name            string                 `gorm:"type:text;not null" json:"name"`
	DNI             string                 `gorm:"type:text" json:"dni"`
	Email           string                 `gorm:"type:text" json:"email"`
	Role            constant.TribunalRole  `gorm:"type:text;not null" json:"role"`
	Group           constant.TribunalGroup `gorm:"column:member_group;type:text;not null" json:"group"`
	CanUploadSigned bool                   `gorm:"type:boolean;default:false" json:"canUploadSigned"`

	Concurso Concurso `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (tm TribunalMember) TableName() string {
	return "tribunal_members"
}

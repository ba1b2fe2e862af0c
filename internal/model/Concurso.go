package model

import (
	"time"

	"github.com/SeakMengs/AutoActa/internal/constant"
)

// Concurso is the competition record every generated document belongs to.
type Concurso struct {
	BaseModel
	Kind          constant.RecordKind `gorm:"type:text;not null" json:"kind"`
	State         string              `gorm:"type:text;not null;default:''" json:"state"`
	Substates     Substates           `gorm:"type:text;not null;default:'[]'" json:"substates"`
	Area          string              `gorm:"type:text" json:"area"`
	Orientation   string              `gorm:"type:text" json:"orientation"`
	PositionCount int                 `gorm:"type:integer;not null;default:1" json:"positionCount"`
	CategoryCode  string              `gorm:"type:text" json:"categoryCode"`
	CategoryName  string              `gorm:"type:text" json:"categoryName"`
	Dedication    string              `gorm:"type:text" json:"dedication"`
	Expediente    string              `gorm:"type:text" json:"expediente"`
	CouncilDate   *time.Time          `gorm:"type:date" json:"councilDate"`
	CommitteeDate *time.Time          `gorm:"type:date" json:"committeeDate"`
	VacancyReason string              `gorm:"type:text" json:"vacancyReason"`
	// Topics is pipe-delimited free text.
	Topics     string `gorm:"type:text" json:"topics"`
	FolderID   string `gorm:"type:text" json:"folderId"`
	FolderName string `gorm:"type:text" json:"folderName"`

	DepartmentID string     `gorm:"type:text;not null" json:"departmentId"`
	Department   Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"department"`
}

func (c Concurso) TableName() string {
	return "concursos"
}

package model

import "time"

// Schedule holds the dates of a competition record. One per record.
type Schedule struct {
	BaseModel
	ConcursoID         string     `gorm:"type:text;not null;uniqueIndex" json:"concursoId"`
	RegistrationOpens  *time.Time `gorm:"type:date" json:"registrationOpens"`
	RegistrationCloses *time.Time `gorm:"type:date" json:"registrationCloses"`
	InterviewDate      *time.Time `gorm:"type:timestamptz" json:"interviewDate"`
	ExamDate           *time.Time `gorm:"type:timestamptz" json:"examDate"`
	Place              string     `gorm:"type:text" json:"place"`

	Concurso Concurso `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (s Schedule) TableName() string {
	return "schedules"
}

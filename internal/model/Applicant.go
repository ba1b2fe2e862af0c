package model

type Applicant struct {
	BaseModel
	ConcursoID string `gorm:"type:text;not null;index" json:"concursoId"`
	Surname    string `gorm:"type:text;not null" json:"surname"`
	Name       string `gorm:"type:text;not null" json:"name"`
	DNI        string `gorm:"type:text" json:"dni"`
	Email      string `gorm:"type:text" json:"email"`

	Concurso Concurso `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (a Applicant) TableName() string {
	return "applicants"
}

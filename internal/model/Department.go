package model

type Department struct {
	BaseModel
	Name      string `gorm:"type:text;not null" json:"name"`
	HeadName  string `gorm:"type:text" json:"headName"`
	HeadTitle string `gorm:"type:text" json:"headTitle"`
}

func (d Department) TableName() string {
	return "departments"
}

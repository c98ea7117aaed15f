package model

// swagger:model Class
type Class struct {
	BaseModel
	Name      string `gorm:"size:100;not null" json:"name"`
	Grade     string `gorm:"size:20" json:"grade"`
	TeacherID uint   `gorm:"index;not null" json:"teacherId"`
}

func (Class) TableName() string {
	return "classes"
}

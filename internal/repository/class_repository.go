package repository

import (
	"eduplay_backend/internal/model"

	"gorm.io/gorm"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(class *model.Class) error {
	return r.DB.Create(class).Error
}

func (r *ClassRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	err := r.DB.First(&class, id).Error
	return &class, err
}

func (r *ClassRepository) FindByTeacher(teacherID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.Where("teacher_id = ?", teacherID).Order("name").Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) CountStudents(classID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("class_id = ?", classID).Count(&count).Error
	return count, err
}

// Package course manages the catalogue and student enrollments.
package course

import (
	"context"
	"errors"

	"github.com/edvora/edvora-api/internal/model"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

type Repository interface {
	ListPublished(ctx context.Context) ([]model.Course, error)
	ListAll(ctx context.Context) ([]model.Course, error)
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id int64) error

	Enroll(ctx context.Context, enrollment *model.Enrollment) error
	GetEnrollment(ctx context.Context, id int64) (*model.Enrollment, error)
	ListEnrollments(ctx context.Context, userID int64) ([]model.Enrollment, error)
	ActivateEnrollment(ctx context.Context, id int64) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListPublished(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *gormRepository) ListAll(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&courses).Error
	return courses, err
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *gormRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *gormRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Course{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) Enroll(ctx context.Context, enrollment *model.Enrollment) error {
	var existing model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", enrollment.UserID, enrollment.CourseID).
		First(&existing).Error
	if err == nil {
		return ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *gormRepository) GetEnrollment(ctx context.Context, id int64) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).First(&enrollment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *gormRepository) ListEnrollments(ctx context.Context, userID int64) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *gormRepository) ActivateEnrollment(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("id = ?", id).
		Update("status", model.EnrollmentActive).Error
}

// Package storage adapts the GORM models to the lesson core: it loads the
// structure snapshot and persists progress records with partial-field writes.
package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clarity-academy/backend/lesson"
	"clarity-academy/backend/models"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseStore loads course structures. Implements lesson.StructureLoader.
type CourseStore struct {
	DB *gorm.DB
}

func NewCourseStore(db *gorm.DB) *CourseStore {
	return &CourseStore{DB: db}
}

// LoadCourse returns the full module/lesson tree in one call.
func (cs *CourseStore) LoadCourse(ctx context.Context, courseID uint) (*lesson.Structure, error) {
	var course models.Course
	err := cs.DB.WithContext(ctx).Preload("Modules.Lessons").First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return toStructure(&course), nil
}

func toStructure(course *models.Course) *lesson.Structure {
	s := &lesson.Structure{
		CourseID: course.ID,
		Title:    course.Title,
		Access: lesson.AccessConfig{
			Type:      lesson.Rule(course.AccessType),
			AllowSkip: course.AllowSkip,
		},
	}
	for i := range course.Modules {
		m := &course.Modules[i]
		module := lesson.Module{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Order:       m.SequenceOrder,
		}
		for j := range m.Lessons {
			l := &m.Lessons[j]
			module.Lessons = append(module.Lessons, lesson.Lesson{
				ID:         l.ID,
				Title:      l.Title,
				Order:      l.SequenceOrder,
				Type:       l.Type,
				VideoURL:   l.VideoURL,
				Content:    l.Content,
				Duration:   l.Duration,
				AccessRule: lesson.Rule(l.AccessRule),
			})
		}
		s.Modules = append(s.Modules, module)
	}
	s.Normalize()
	return s
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Access rule values stored on courses and lessons. A lesson-level rule
// overrides the course rule; an empty lesson rule falls back to the course.
const (
	AccessSequential = "sequential"
	AccessAnytime    = "anytime"
	AccessDaily      = "daily"
	AccessWeekly     = "weekly"
	AccessMonthly    = "monthly"
)

// Lesson content types.
const (
	LessonTypeVideo = "video"
	LessonTypeText  = "text"
	LessonTypeMixed = "mixed"
)

type Course struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Category    string
	Instructor  string
	Thumbnail   string
	Price       float64
	Published   bool   `gorm:"default:false"`
	AccessType  string `gorm:"default:sequential"` // sequential, anytime, daily, weekly, monthly
	AllowSkip   bool   `gorm:"default:false"`      // course-wide override, unlocks everything
	Modules     []Module
}

type Module struct {
	ID            string `gorm:"primaryKey;size:36"`
	CourseID      uint   `gorm:"not null;index"`
	Title         string `gorm:"not null"`
	Description   string
	SequenceOrder int      `gorm:"not null"`
	Lessons       []Lesson `gorm:"foreignKey:ModuleID"`
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type Lesson struct {
	ID            string `gorm:"primaryKey;size:36"`
	ModuleID      string `gorm:"size:36;not null;index"`
	Title         string `gorm:"not null"`
	Type          string `gorm:"default:text"` // video, text, mixed
	VideoURL      string
	Content       string
	Duration      int    // minutes
	AccessRule    string // optional override of the course access type
	SequenceOrder int    `gorm:"not null"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type Enrollment struct {
	gorm.Model
	UserID   uint `gorm:"not null;index"`
	CourseID uint `gorm:"not null;index"`
}

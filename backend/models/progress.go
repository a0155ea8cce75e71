package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressRecord is the per-(user, course) progress document. The set-shaped
// fields are stored as JSON columns, mirroring the document they came from:
//
//	CompletedModules: ["moduleId", ...]
//	CompletedLessons: {"moduleId": ["lessonId", ...], ...}
//	AccessHistory:    [{"lessonId": "...", "accessedAt": "..."}, ...]
//
// AccessHistory keeps one entry per lesson; a repeat visit overwrites the
// timestamp rather than appending.
type ProgressRecord struct {
	gorm.Model
	UserID           uint `gorm:"not null;index:idx_progress_user_course,unique"`
	CourseID         uint `gorm:"not null;index:idx_progress_user_course,unique"`
	CompletedModules datatypes.JSON
	CompletedLessons datatypes.JSON
	CurrentModule    string `gorm:"size:36"`
	CurrentLesson    string `gorm:"size:36"`
	AccessHistory    datatypes.JSON
	LastAccessedAt   time.Time
}

// AccessEntry is one element of the AccessHistory column.
type AccessEntry struct {
	LessonID   string    `json:"lessonId"`
	AccessedAt time.Time `json:"accessedAt"`
}

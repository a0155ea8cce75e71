package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"clarity-academy/backend/lesson"
	"clarity-academy/backend/models"
)

// ProgressStore persists progress records. Implements lesson.ProgressStore;
// each Save method updates only the columns it owns, everything else on the
// row is left alone.
type ProgressStore struct {
	DB *gorm.DB
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{DB: db}
}

// Load returns the record for a (user, course) pair, or nil when none exists.
func (ps *ProgressStore) Load(ctx context.Context, userID, courseID uint) (*lesson.Progress, error) {
	var rec models.ProgressRecord
	err := ps.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return fromRecord(&rec)
}

// Create inserts the initial record and backfills the generated id.
func (ps *ProgressStore) Create(ctx context.Context, p *lesson.Progress) error {
	rec, err := toRecord(p)
	if err != nil {
		return err
	}
	if err := ps.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	p.ID = rec.ID
	return nil
}

// SaveState writes the completion sets and the resume pointer in one update.
func (ps *ProgressStore) SaveState(ctx context.Context, p *lesson.Progress) error {
	completedModules, completedLessons, err := completionJSON(p)
	if err != nil {
		return err
	}
	return ps.DB.WithContext(ctx).
		Model(&models.ProgressRecord{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"completed_modules": completedModules,
			"completed_lessons": completedLessons,
			"current_module":    p.CurrentModule,
			"current_lesson":    p.CurrentLesson,
		}).Error
}

// SaveAccess writes the access history and the last-access timestamp.
func (ps *ProgressStore) SaveAccess(ctx context.Context, p *lesson.Progress) error {
	history, err := historyJSON(p)
	if err != nil {
		return err
	}
	return ps.DB.WithContext(ctx).
		Model(&models.ProgressRecord{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"access_history":   history,
			"last_accessed_at": p.LastAccessedAt,
		}).Error
}

func completionJSON(p *lesson.Progress) (datatypes.JSON, datatypes.JSON, error) {
	modules := p.CompletedModules
	if modules == nil {
		modules = []string{}
	}
	rawModules, err := json.Marshal(modules)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal completed modules: %w", err)
	}
	lessons := p.CompletedLessons
	if lessons == nil {
		lessons = map[string][]string{}
	}
	rawLessons, err := json.Marshal(lessons)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal completed lessons: %w", err)
	}
	return datatypes.JSON(rawModules), datatypes.JSON(rawLessons), nil
}

func historyJSON(p *lesson.Progress) (datatypes.JSON, error) {
	entries := make([]models.AccessEntry, 0, len(p.AccessHistory))
	for id, at := range p.AccessHistory {
		entries = append(entries, models.AccessEntry{LessonID: id, AccessedAt: at})
	}
	// Stable column contents for a map-backed history.
	sort.Slice(entries, func(i, j int) bool { return entries[i].LessonID < entries[j].LessonID })
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal access history: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func toRecord(p *lesson.Progress) (*models.ProgressRecord, error) {
	completedModules, completedLessons, err := completionJSON(p)
	if err != nil {
		return nil, err
	}
	history, err := historyJSON(p)
	if err != nil {
		return nil, err
	}
	return &models.ProgressRecord{
		UserID:           p.UserID,
		CourseID:         p.CourseID,
		CompletedModules: completedModules,
		CompletedLessons: completedLessons,
		CurrentModule:    p.CurrentModule,
		CurrentLesson:    p.CurrentLesson,
		AccessHistory:    history,
		LastAccessedAt:   p.LastAccessedAt,
	}, nil
}

func fromRecord(rec *models.ProgressRecord) (*lesson.Progress, error) {
	p := &lesson.Progress{
		ID:               rec.ID,
		UserID:           rec.UserID,
		CourseID:         rec.CourseID,
		CompletedModules: []string{},
		CompletedLessons: map[string][]string{},
		CurrentModule:    rec.CurrentModule,
		CurrentLesson:    rec.CurrentLesson,
		AccessHistory:    map[string]time.Time{},
		LastAccessedAt:   rec.LastAccessedAt,
	}
	if len(rec.CompletedModules) > 0 {
		if err := json.Unmarshal(rec.CompletedModules, &p.CompletedModules); err != nil {
			return nil, fmt.Errorf("unmarshal completed modules: %w", err)
		}
	}
	if len(rec.CompletedLessons) > 0 {
		if err := json.Unmarshal(rec.CompletedLessons, &p.CompletedLessons); err != nil {
			return nil, fmt.Errorf("unmarshal completed lessons: %w", err)
		}
	}
	if len(rec.AccessHistory) > 0 {
		var entries []models.AccessEntry
		if err := json.Unmarshal(rec.AccessHistory, &entries); err != nil {
			return nil, fmt.Errorf("unmarshal access history: %w", err)
		}
		for _, e := range entries {
			p.AccessHistory[e.LessonID] = e.AccessedAt
		}
	}
	return p, nil
}

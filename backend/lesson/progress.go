package lesson

import "time"

// Progress is the in-memory working copy of a learner's progress record for
// one course. The session owns it for the duration of a request; mutations
// flow through Clone so a failed persist never leaves a half-applied copy.
type Progress struct {
	ID       uint
	UserID   uint
	CourseID uint

	CompletedModules []string
	// CompletedLessons maps module id -> completed lesson ids in that module.
	CompletedLessons map[string][]string

	CurrentModule string
	CurrentLesson string

	// AccessHistory keeps the last access time per lesson id.
	AccessHistory  map[string]time.Time
	LastAccessedAt time.Time
}

// NewProgress builds the initial record for a first visit, pointing at the
// given resume position.
func NewProgress(userID, courseID uint, moduleID, lessonID string, now time.Time) *Progress {
	return &Progress{
		UserID:           userID,
		CourseID:         courseID,
		CompletedModules: []string{},
		CompletedLessons: map[string][]string{},
		CurrentModule:    moduleID,
		CurrentLesson:    lessonID,
		AccessHistory:    map[string]time.Time{},
		LastAccessedAt:   now,
	}
}

func (p *Progress) ModuleCompleted(moduleID string) bool {
	for _, id := range p.CompletedModules {
		if id == moduleID {
			return true
		}
	}
	return false
}

func (p *Progress) LessonCompleted(moduleID, lessonID string) bool {
	for _, id := range p.CompletedLessons[moduleID] {
		if id == lessonID {
			return true
		}
	}
	return false
}

// AccessedAt returns the recorded last access time for a lesson.
func (p *Progress) AccessedAt(lessonID string) (time.Time, bool) {
	at, ok := p.AccessHistory[lessonID]
	return at, ok
}

// Clone returns a deep copy.
func (p *Progress) Clone() *Progress {
	c := *p
	c.CompletedModules = append([]string(nil), p.CompletedModules...)
	c.CompletedLessons = make(map[string][]string, len(p.CompletedLessons))
	for k, v := range p.CompletedLessons {
		c.CompletedLessons[k] = append([]string(nil), v...)
	}
	c.AccessHistory = make(map[string]time.Time, len(p.AccessHistory))
	for k, v := range p.AccessHistory {
		c.AccessHistory[k] = v
	}
	return &c
}

// markLesson records a completed lesson. Idempotent.
func (p *Progress) markLesson(moduleID, lessonID string) {
	if p.LessonCompleted(moduleID, lessonID) {
		return
	}
	if p.CompletedLessons == nil {
		p.CompletedLessons = map[string][]string{}
	}
	p.CompletedLessons[moduleID] = append(p.CompletedLessons[moduleID], lessonID)
}

// markModule records a completed module. Idempotent.
func (p *Progress) markModule(moduleID string) {
	if p.ModuleCompleted(moduleID) {
		return
	}
	p.CompletedModules = append(p.CompletedModules, moduleID)
}

// touch upserts the access-history entry for a lesson. One entry per lesson;
// a repeat visit overwrites the timestamp.
func (p *Progress) touch(lessonID string, now time.Time) {
	if p.AccessHistory == nil {
		p.AccessHistory = map[string]time.Time{}
	}
	p.AccessHistory[lessonID] = now
	p.LastAccessedAt = now
}

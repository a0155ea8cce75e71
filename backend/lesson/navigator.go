package lesson

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoContent means the course has no modules, or its first module has
	// no lessons. Non-recoverable for the viewer.
	ErrNoContent = errors.New("course has no content")
	// ErrLessonLocked rejects a jump to a lesson the evaluator marks locked.
	// Callers treat it as UI gating, not a failure.
	ErrLessonLocked = errors.New("lesson is locked")
)

// ProgressStore persists progress mutations. Implementations write only the
// fields each call names (partial-field update semantics).
type ProgressStore interface {
	// SaveState writes the completion sets, the resume pointer and updatedAt.
	SaveState(ctx context.Context, p *Progress) error
	// SaveAccess writes the access history and lastAccessedAt.
	SaveAccess(ctx context.Context, p *Progress) error
}

// StructureLoader loads the full module/lesson tree of a course in one call.
type StructureLoader interface {
	LoadCourse(ctx context.Context, courseID uint) (*Structure, error)
}

// Session drives one learner's pass through the viewer: it resolves the
// active lesson, gates navigation through the access evaluator and funnels
// completions through the propagator.
//
// Writes are persist-then-mutate: every state change is computed on a copy,
// persisted, and installed into the session only on an acknowledged write. A
// failed write leaves the in-memory record at its last known-good value.
type Session struct {
	structure *Structure
	progress  *Progress
	store     ProgressStore

	moduleID string
	lessonID string

	now func() time.Time
}

// NewSession resolves the resume point from the progress record. A stale
// pointer (the module or lesson no longer exists) falls back to the first
// lesson of the first module and persists the repaired pointer; a course
// without content yields ErrNoContent.
func NewSession(ctx context.Context, s *Structure, p *Progress, store ProgressStore) (*Session, error) {
	sess := &Session{structure: s, progress: p, store: store, now: time.Now}

	if p.CurrentModule != "" && p.CurrentLesson != "" {
		if m := s.Module(p.CurrentModule); m != nil && m.Lesson(p.CurrentLesson) != nil {
			sess.moduleID = p.CurrentModule
			sess.lessonID = p.CurrentLesson
			return sess, nil
		}
	}

	moduleID, lessonID, ok := s.First()
	if !ok {
		return nil, ErrNoContent
	}

	updated := p.Clone()
	updated.CurrentModule = moduleID
	updated.CurrentLesson = lessonID
	if err := store.SaveState(ctx, updated); err != nil {
		return nil, err
	}
	sess.progress = updated
	sess.moduleID = moduleID
	sess.lessonID = lessonID
	return sess, nil
}

// Position returns the active (module, lesson) pair.
func (s *Session) Position() (moduleID, lessonID string) {
	return s.moduleID, s.lessonID
}

// SetPosition moves the session to a lesson the client is already viewing,
// without an access check. The pair must exist in the structure.
func (s *Session) SetPosition(moduleID, lessonID string) error {
	module := s.structure.Module(moduleID)
	if module == nil {
		return ErrUnknownModule
	}
	if module.Lesson(lessonID) == nil {
		return ErrUnknownLesson
	}
	s.moduleID = moduleID
	s.lessonID = lessonID
	return nil
}

// Accessible evaluates the active lesson against the access rules.
func (s *Session) Accessible() bool {
	return Accessible(s.structure, s.progress, s.moduleID, s.lessonID, s.now())
}

// Jump moves to an arbitrary lesson via the sidebar. Locked targets return
// ErrLessonLocked and leave the position unchanged.
func (s *Session) Jump(moduleID, lessonID string) error {
	if !Accessible(s.structure, s.progress, moduleID, lessonID, s.now()) {
		return ErrLessonLocked
	}
	s.moduleID = moduleID
	s.lessonID = lessonID
	return nil
}

// Next advances to the following lesson. Forward navigation via the explicit
// next action applies no access check; only the sidebar gates. Returns false
// at the end of the course.
func (s *Session) Next() bool {
	module, lsn := s.structure.Next(s.moduleID, s.lessonID)
	if lsn == nil {
		return false
	}
	s.moduleID = module.ID
	s.lessonID = lsn.ID
	return true
}

// Complete marks the active lesson complete, persists the propagated record
// and, when advance is true and a next lesson exists, moves the session
// forward. Advancing is the caller's choice: the UI confirms with the
// learner first.
func (s *Session) Complete(ctx context.Context, advance bool) (CompletionResult, error) {
	updated, res, err := Complete(s.structure, s.progress, s.moduleID, s.lessonID)
	if err != nil {
		return CompletionResult{}, err
	}
	if err := s.store.SaveState(ctx, updated); err != nil {
		return CompletionResult{}, err
	}
	s.progress = updated

	if advance && res.NextLesson != "" {
		s.moduleID = res.NextModule
		s.lessonID = res.NextLesson
	}
	return res, nil
}

// Touch records an access-history entry for the active lesson. Called after
// every successful render of an accessible lesson; time-gated rules read the
// recorded timestamp.
func (s *Session) Touch(ctx context.Context) error {
	updated := s.progress.Clone()
	updated.touch(s.lessonID, s.now())
	if err := s.store.SaveAccess(ctx, updated); err != nil {
		return err
	}
	s.progress = updated
	return nil
}

// Progress exposes the session's current working copy.
func (s *Session) Progress() *Progress {
	return s.progress
}

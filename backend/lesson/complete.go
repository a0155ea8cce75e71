package lesson

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownModule = errors.New("module not found in course structure")
	ErrUnknownLesson = errors.New("lesson not found in module")
)

// CompletionResult reports what a completion changed beyond the lesson set.
type CompletionResult struct {
	ModuleCompleted bool   // module newly completed by this call
	CourseCompleted bool   // every module of the course is now complete
	NextModule      string // resume pointer after the call, "" at course end
	NextLesson      string
}

// Complete applies a lesson completion to a copy of the progress record and
// returns it along with what propagated. The input record is not mutated, so
// a caller can persist the copy first and only then install it.
//
// Re-completing an already completed lesson is a no-op for the completion
// sets. The resume pointer advances to the next lesson when one exists,
// otherwise it stays on the just-completed lesson.
func Complete(s *Structure, p *Progress, moduleID, lessonID string) (*Progress, CompletionResult, error) {
	module := s.Module(moduleID)
	if module == nil {
		return nil, CompletionResult{}, fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	if module.Lesson(lessonID) == nil {
		return nil, CompletionResult{}, fmt.Errorf("%w: %s", ErrUnknownLesson, lessonID)
	}

	updated := p.Clone()
	updated.markLesson(moduleID, lessonID)

	var res CompletionResult

	// A module is complete iff every lesson currently in the structure is in
	// its completed set. Recomputed here every time, never cached.
	allDone := true
	for i := range module.Lessons {
		if !updated.LessonCompleted(moduleID, module.Lessons[i].ID) {
			allDone = false
			break
		}
	}
	if allDone && !updated.ModuleCompleted(moduleID) {
		updated.markModule(moduleID)
		res.ModuleCompleted = true
	}

	courseDone := true
	for i := range s.Modules {
		if !updated.ModuleCompleted(s.Modules[i].ID) {
			courseDone = false
			break
		}
	}
	res.CourseCompleted = courseDone

	if nextModule, nextLesson := s.Next(moduleID, lessonID); nextLesson != nil {
		updated.CurrentModule = nextModule.ID
		updated.CurrentLesson = nextLesson.ID
		res.NextModule = nextModule.ID
		res.NextLesson = nextLesson.ID
	} else {
		updated.CurrentModule = moduleID
		updated.CurrentLesson = lessonID
	}

	return updated, res, nil
}

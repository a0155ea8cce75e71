// Package lesson implements the lesson viewer core: the course structure
// snapshot, the access evaluator, the navigator state machine and the
// completion propagator. Everything here is pure over loaded state; the
// storage adapters in backend/storage feed it and persist its output.
package lesson

import "sort"

// AccessConfig is the course-wide access configuration.
type AccessConfig struct {
	Type      Rule `json:"type"`
	AllowSkip bool `json:"allowSkip"`
}

// Structure is the immutable-per-load Course -> Module -> Lesson tree the
// viewer operates on. Modules and their lessons are kept sorted by order.
type Structure struct {
	CourseID uint
	Title    string
	Access   AccessConfig
	Modules  []Module
}

type Module struct {
	ID          string
	Title       string
	Description string
	Order       int
	Lessons     []Lesson
}

type Lesson struct {
	ID         string
	Title      string
	Order      int
	Type       string // video, text, mixed
	VideoURL   string
	Content    string
	Duration   int // minutes, 0 when unset
	AccessRule Rule
}

// Normalize sorts modules and lessons by their order keys. Call once after
// loading; ordering among duplicate order values is not defined.
func (s *Structure) Normalize() {
	sort.SliceStable(s.Modules, func(i, j int) bool {
		return s.Modules[i].Order < s.Modules[j].Order
	})
	for i := range s.Modules {
		m := &s.Modules[i]
		sort.SliceStable(m.Lessons, func(a, b int) bool {
			return m.Lessons[a].Order < m.Lessons[b].Order
		})
	}
}

// Module returns the module with the given id, or nil.
func (s *Structure) Module(id string) *Module {
	for i := range s.Modules {
		if s.Modules[i].ID == id {
			return &s.Modules[i]
		}
	}
	return nil
}

// ModuleByOrder returns the module with the given order key, or nil.
func (s *Structure) ModuleByOrder(order int) *Module {
	for i := range s.Modules {
		if s.Modules[i].Order == order {
			return &s.Modules[i]
		}
	}
	return nil
}

// Lesson returns the lesson with the given id, or nil.
func (m *Module) Lesson(id string) *Lesson {
	for i := range m.Lessons {
		if m.Lessons[i].ID == id {
			return &m.Lessons[i]
		}
	}
	return nil
}

// LessonByOrder returns the lesson with the given order key, or nil.
func (m *Module) LessonByOrder(order int) *Lesson {
	for i := range m.Lessons {
		if m.Lessons[i].Order == order {
			return &m.Lessons[i]
		}
	}
	return nil
}

// First returns the first lesson of the first module, by order. ok is false
// when the course has no modules or the first module has no lessons.
func (s *Structure) First() (moduleID, lessonID string, ok bool) {
	if len(s.Modules) == 0 {
		return "", "", false
	}
	first := &s.Modules[0]
	if len(first.Lessons) == 0 {
		return "", "", false
	}
	return first.ID, first.Lessons[0].ID, true
}

// Next computes the lesson after (moduleID, lessonID): the lesson with
// order+1 in the same module, else the lowest-order lesson of the module
// with order+1. Both results are nil at the end of the course or when the
// current pair does not resolve.
func (s *Structure) Next(moduleID, lessonID string) (*Module, *Lesson) {
	module := s.Module(moduleID)
	if module == nil {
		return nil, nil
	}
	current := module.Lesson(lessonID)
	if current == nil {
		return nil, nil
	}

	if next := module.LessonByOrder(current.Order + 1); next != nil {
		return module, next
	}

	nextModule := s.ModuleByOrder(module.Order + 1)
	if nextModule != nil && len(nextModule.Lessons) > 0 {
		return nextModule, &nextModule.Lessons[0]
	}

	return nil, nil
}

// LessonCount returns the total number of lessons across all modules.
func (s *Structure) LessonCount() int {
	n := 0
	for i := range s.Modules {
		n += len(s.Modules[i].Lessons)
	}
	return n
}

// TotalDuration sums lesson durations in minutes.
func (s *Structure) TotalDuration() int {
	total := 0
	for i := range s.Modules {
		for j := range s.Modules[i].Lessons {
			total += s.Modules[i].Lessons[j].Duration
		}
	}
	return total
}

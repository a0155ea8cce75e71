package lesson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextLesson(t *testing.T) {
	s := twoModuleCourse(AccessConfig{Type: RuleSequential})

	m, l := s.Next("m1", "l1")
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "l2", l.ID)

	// Across the module boundary.
	m, l = s.Next("m1", "l2")
	assert.Equal(t, "m2", m.ID)
	assert.Equal(t, "l3", l.ID)

	// End of the course.
	m, l = s.Next("m2", "l3")
	assert.Nil(t, m)
	assert.Nil(t, l)
}

func TestNextLessonUnknownPosition(t *testing.T) {
	s := twoModuleCourse(AccessConfig{})

	m, l := s.Next("ghost", "l1")
	assert.Nil(t, m)
	assert.Nil(t, l)

	m, l = s.Next("m1", "ghost")
	assert.Nil(t, m)
	assert.Nil(t, l)
}

func TestNextLessonStopsAtEmptyNextModule(t *testing.T) {
	s := &Structure{
		Modules: []Module{
			{ID: "m1", Order: 1, Lessons: []Lesson{{ID: "l1", Order: 1}}},
			{ID: "m2", Order: 2}, // no lessons
		},
	}
	s.Normalize()

	m, l := s.Next("m1", "l1")
	assert.Nil(t, m)
	assert.Nil(t, l)
}

func TestFirst(t *testing.T) {
	s := twoModuleCourse(AccessConfig{})
	moduleID, lessonID, ok := s.First()
	assert.True(t, ok)
	assert.Equal(t, "m1", moduleID)
	assert.Equal(t, "l1", lessonID)

	empty := &Structure{}
	_, _, ok = empty.First()
	assert.False(t, ok)

	noLessons := &Structure{Modules: []Module{{ID: "m1", Order: 1}}}
	_, _, ok = noLessons.First()
	assert.False(t, ok)
}

func TestNormalizeSortsByOrder(t *testing.T) {
	s := &Structure{
		Modules: []Module{
			{ID: "m2", Order: 2, Lessons: []Lesson{
				{ID: "b", Order: 2},
				{ID: "a", Order: 1},
			}},
			{ID: "m1", Order: 1},
		},
	}
	s.Normalize()

	assert.Equal(t, "m1", s.Modules[0].ID)
	assert.Equal(t, "m2", s.Modules[1].ID)
	assert.Equal(t, "a", s.Modules[1].Lessons[0].ID)
}

func TestCountsAndDuration(t *testing.T) {
	s := twoModuleCourse(AccessConfig{})
	s.Modules[0].Lessons[0].Duration = 10
	s.Modules[1].Lessons[0].Duration = 5

	assert.Equal(t, 3, s.LessonCount())
	assert.Equal(t, 15, s.TotalDuration())
}

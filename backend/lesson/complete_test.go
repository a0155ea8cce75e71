package lesson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteMarksLessonAndAdvances(t *testing.T) {
	s := twoModuleCourse(AccessConfig{Type: RuleSequential})
	p := freshProgress(1)

	updated, res, err := Complete(s, p, "m1", "l1")
	require.NoError(t, err)

	assert.True(t, updated.LessonCompleted("m1", "l1"))
	assert.False(t, res.ModuleCompleted)
	assert.False(t, res.CourseCompleted)
	assert.Equal(t, "m1", res.NextModule)
	assert.Equal(t, "l2", res.NextLesson)
	assert.Equal(t, "m1", updated.CurrentModule)
	assert.Equal(t, "l2", updated.CurrentLesson)
}

func TestCompleteIsIdempotent(t *testing.T) {
	s := twoModuleCourse(AccessConfig{Type: RuleSequential})
	p := freshProgress(1)

	once, _, err := Complete(s, p, "m1", "l1")
	require.NoError(t, err)
	twice, res, err := Complete(s, once, "m1", "l1")
	require.NoError(t, err)

	assert.Equal(t, once.CompletedLessons, twice.CompletedLessons)
	assert.Equal(t, once.CompletedModules, twice.CompletedModules)
	assert.False(t, res.ModuleCompleted, "re-completion must not re-signal")
}

func TestCompletePropagatesToModule(t *testing.T) {
	s := twoModuleCourse(AccessConfig{Type: RuleSequential})
	p := freshProgress(1)

	p1, res, err := Complete(s, p, "m1", "l1")
	require.NoError(t, err)
	assert.False(t, res.ModuleCompleted)

	p2, res, err := Complete(s, p1, "m1", "l2")
	require.NoError(t, err)
	assert.True(t, res.ModuleCompleted)
	assert.True(t, p2.ModuleCompleted("m1"))

	// Module completion unlocks the next module's first lesson.
	assert.True(t, Accessible(s, p2, "m2", "l3", p2.LastAccessedAt))
}

func TestCompletePropagatesToCourse(t *testing.T) {
	s := twoModuleCourse(AccessConfig{Type: RuleSequential})
	p := freshProgress(1)

	p1, _, err := Complete(s, p, "m1", "l1")
	require.NoError(t, err)
	p2, _, err := Complete(s, p1, "m1", "l2")
	require.NoError(t, err)
	p3, res, err := Complete(s, p2, "m2", "l3")
	require.NoError(t, err)

	assert.True(t, res.CourseCompleted)
	assert.True(t, p3.ModuleCompleted("m2"))

	// Terminal lesson: pointer stays where it is.
	assert.Empty(t, res.NextLesson)
	assert.Equal(t, "m2", p3.CurrentModule)
	assert.Equal(t, "l3", p3.CurrentLesson)
}

func TestModuleCompletionRecomputedAgainstStructure(t *testing.T) {
	// A lesson added to the module after the fact makes the module
	// incomplete again for propagation purposes.
	s := twoModuleCourse(AccessConfig{Type: RuleSequential})
	p := freshProgress(1)

	p1, _, err := Complete(s, p, "m2", "l3")
	require.NoError(t, err)
	assert.True(t, p1.ModuleCompleted("m2"))

	s.Modules[1].Lessons = append(s.Modules[1].Lessons, Lesson{ID: "l4", Order: 2})

	p2, res, err := Complete(s, p1, "m2", "l3")
	require.NoError(t, err)
	assert.False(t, res.ModuleCompleted, "grown module must not re-signal")

	// Completing the new lesson finishes the module again, but the set
	// already holds it, so no fresh signal either.
	_, res, err = Complete(s, p2, "m2", "l4")
	require.NoError(t, err)
	assert.False(t, res.ModuleCompleted)
}

func TestCompleteUnknownEntitiesFailWithoutMutation(t *testing.T) {
	s := twoModuleCourse(AccessConfig{Type: RuleSequential})
	p := freshProgress(1)

	_, _, err := Complete(s, p, "ghost", "l1")
	assert.ErrorIs(t, err, ErrUnknownModule)

	_, _, err = Complete(s, p, "m1", "ghost")
	assert.ErrorIs(t, err, ErrUnknownLesson)

	assert.Empty(t, p.CompletedLessons)
	assert.Empty(t, p.CompletedModules)
}

func TestCompleteDoesNotMutateInput(t *testing.T) {
	s := twoModuleCourse(AccessConfig{Type: RuleSequential})
	p := freshProgress(1)

	_, _, err := Complete(s, p, "m1", "l1")
	require.NoError(t, err)

	assert.False(t, p.LessonCompleted("m1", "l1"))
	assert.Equal(t, "l1", p.CurrentLesson)
}

package lesson

import "time"

// Rule is a lesson access rule. The zero value means "no rule set"; the
// effective rule falls back to the course config and finally to sequential.
type Rule string

const (
	RuleSequential Rule = "sequential"
	RuleAnytime    Rule = "anytime"
	RuleDaily      Rule = "daily"
	RuleWeekly     Rule = "weekly"
	RuleMonthly    Rule = "monthly"
)

// ParseRule normalizes a stored rule string. ok is false for values outside
// the known set; callers keep the raw value in that case since unknown rules
// historically evaluate as accessible.
func ParseRule(s string) (Rule, bool) {
	switch Rule(s) {
	case RuleSequential, RuleAnytime, RuleDaily, RuleWeekly, RuleMonthly:
		return Rule(s), true
	}
	return Rule(s), false
}

// Window returns the re-access threshold for time-gated rules.
func (r Rule) Window() (time.Duration, bool) {
	switch r {
	case RuleDaily:
		return 24 * time.Hour, true
	case RuleWeekly:
		return 168 * time.Hour, true
	case RuleMonthly:
		return 720 * time.Hour, true
	}
	return 0, false
}

// Accessible decides whether the given lesson is unlocked for the learner.
// It is pure over its inputs and must be re-evaluated on every render.
//
// Lookup failures return false. The sequential branch keeps the historical
// asymmetry: a first lesson whose previous module cannot be found is locked,
// while a later lesson whose previous order slot is empty is unlocked. Do not
// "fix" either without product sign-off; both are covered by tests.
func Accessible(s *Structure, p *Progress, moduleID, lessonID string, now time.Time) bool {
	module := s.Module(moduleID)
	if module == nil {
		return false
	}
	lsn := module.Lesson(lessonID)
	if lsn == nil {
		return false
	}

	rule := lsn.AccessRule
	if rule == "" {
		rule = s.Access.Type
	}
	if rule == "" {
		rule = RuleSequential
	}

	if rule == RuleAnytime || s.Access.AllowSkip {
		return true
	}

	if rule == RuleSequential {
		if lsn.Order == 1 {
			if module.Order == 1 {
				return true
			}
			prev := s.ModuleByOrder(module.Order - 1)
			if prev == nil {
				return false
			}
			return p.ModuleCompleted(prev.ID)
		}

		prevLesson := module.LessonByOrder(lsn.Order - 1)
		if prevLesson != nil {
			return p.LessonCompleted(moduleID, prevLesson.ID)
		}
		// Gap in the ordering: permissive fallthrough.
		return true
	}

	if window, ok := rule.Window(); ok {
		accessedAt, seen := p.AccessedAt(lessonID)
		if !seen {
			return true // first visit
		}
		return now.Sub(accessedAt) >= window
	}

	// Unrecognized rule values evaluate as accessible. Legacy behavior,
	// tested explicitly.
	return true
}

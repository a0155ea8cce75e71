package lesson

// ViewState is everything one render of the viewer needs: the active lesson
// (content withheld while locked), the sidebar tree and the available
// actions.
type ViewState struct {
	CourseID    uint            `json:"courseId"`
	CourseTitle string          `json:"courseTitle"`
	Module      ViewModule      `json:"module"`
	Lesson      ViewLesson      `json:"lesson"`
	Accessible  bool            `json:"accessible"`
	Completed   bool            `json:"completed"`
	HasNext     bool            `json:"hasNext"`
	Sidebar     []SidebarModule `json:"sidebar"`
}

type ViewModule struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

type ViewLesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Type     string `json:"type,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
	Content  string `json:"content,omitempty"`
	Duration int    `json:"duration,omitempty"`
	Rule     Rule   `json:"accessRule,omitempty"`
}

type SidebarModule struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Order     int             `json:"order"`
	Completed bool            `json:"completed"`
	Lessons   []SidebarLesson `json:"lessons"`
}

type SidebarLesson struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Duration  int    `json:"duration,omitempty"`
	Locked    bool   `json:"locked"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// View builds the render state for the active lesson. The sidebar evaluates
// accessibility per lesson on every call; a locked active lesson carries no
// content fields, only its title and the rule that locked it.
func (s *Session) View() ViewState {
	module := s.structure.Module(s.moduleID)
	lsn := module.Lesson(s.lessonID)
	now := s.now()

	accessible := Accessible(s.structure, s.progress, s.moduleID, s.lessonID, now)
	_, next := s.structure.Next(s.moduleID, s.lessonID)

	view := ViewState{
		CourseID:    s.structure.CourseID,
		CourseTitle: s.structure.Title,
		Module:      ViewModule{ID: module.ID, Title: module.Title, Order: module.Order},
		Lesson:      ViewLesson{ID: lsn.ID, Title: lsn.Title, Order: lsn.Order},
		Accessible:  accessible,
		Completed:   s.progress.LessonCompleted(s.moduleID, s.lessonID),
		HasNext:     next != nil,
	}

	if accessible {
		view.Lesson.Type = lsn.Type
		view.Lesson.VideoURL = lsn.VideoURL
		view.Lesson.Content = lsn.Content
		view.Lesson.Duration = lsn.Duration
	} else {
		rule := lsn.AccessRule
		if rule == "" {
			rule = RuleSequential
		}
		view.Lesson.Rule = rule
	}

	for i := range s.structure.Modules {
		m := &s.structure.Modules[i]
		side := SidebarModule{
			ID:        m.ID,
			Title:     m.Title,
			Order:     m.Order,
			Completed: s.progress.ModuleCompleted(m.ID),
		}
		for j := range m.Lessons {
			l := &m.Lessons[j]
			side.Lessons = append(side.Lessons, SidebarLesson{
				ID:        l.ID,
				Title:     l.Title,
				Order:     l.Order,
				Duration:  l.Duration,
				Locked:    !Accessible(s.structure, s.progress, m.ID, l.ID, now),
				Completed: s.progress.LessonCompleted(m.ID, l.ID),
				Current:   m.ID == s.moduleID && l.ID == s.lessonID,
			})
		}
		view.Sidebar = append(view.Sidebar, side)
	}

	return view
}

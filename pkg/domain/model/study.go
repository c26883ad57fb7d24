package model

import "time"

// DefaultStudyName is given to a study context that has never been edited
const DefaultStudyName = "New study"

// StudyContext describes the study the risk entries belong to
type StudyContext struct {
	StudyName       string `json:"studyName"`
	Aircraft        string `json:"aircraft"`
	Date            string `json:"date"`
	GlobalSynthesis string `json:"globalSynthesis"`
}

// NewStudyContext returns a fresh context dated today
func NewStudyContext(now time.Time) *StudyContext {
	return &StudyContext{
		StudyName: DefaultStudyName,
		Date:      now.Format(time.DateOnly),
	}
}

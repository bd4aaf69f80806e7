package model

import "time"

// SessionContent is the fully generated study package for one topic, stored as
// a single document. A session is replaced atomically on regeneration - never
// partially updated.
type SessionContent struct {
	TopicID       string     `json:"topicId"`
	Domain        string     `json:"domain"`
	Title         string     `json:"topic"`
	Tier          Tier       `json:"level"`
	ModuleType    ModuleType `json:"moduleType"`
	CompetencyIDs []string   `json:"competencyIds"`
	Prerequisites []string   `json:"prerequisites"`

	Lesson   *LessonContent   `json:"lesson,omitempty"`
	Scenario *ScenarioContent `json:"scenario,omitempty"`
	Quiz     *QuizContent     `json:"quiz,omitempty"`
	Capstone *CapstoneContent `json:"capstone,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Package core holds the domain model and contracts for the resolution engine.
package core

import "encoding/json"

// Category groups questionnaires under a navigable topic.
// Order defines display sort; Path is the resolution scope for the
// questionnaires that belong to it.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Path        string `json:"path"`
	Order       int    `json:"order"`
}

// CategoryIndex is the shape of the remote/bundled categories.json document.
type CategoryIndex struct {
	Categories []Category `json:"categories"`
}

// QuestionType enumerates the supported input widgets.
type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionTextarea QuestionType = "textarea"
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
)

// Option is a selectable choice on a radio/checkbox question.
type Option struct {
	Value                string `json:"value"`
	Label                string `json:"label"`
	HasTextInput         bool   `json:"hasTextInput,omitempty"`
	TextInputPlaceholder string `json:"textInputPlaceholder,omitempty"`
}

// Question is a single prompt inside a questionnaire.
type Question struct {
	Type        QuestionType `json:"type"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder,omitempty"`
	Options     []Option     `json:"options,omitempty"`
}

// Questionnaire is an ordered set of questions plus the LLM configuration
// used when submitting the answers.
type Questionnaire struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []Question      `json:"questions"`
	LLMConfig   json.RawMessage `json:"llmConfig,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// KnowledgeBlock is a branching knowledge unit. Every Path.Next should
// reference another KnowledgeBlock ID; references are resolved lazily on
// navigation, never validated at rest.
type KnowledgeBlock struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	InitialQuestion  string            `json:"initial_question"`
	Paths            map[string]Path   `json:"paths"`
	ContextVariables map[string]string `json:"context_variables,omitempty"`
}

// Path is one branch within a KnowledgeBlock.
type Path struct {
	Question  string   `json:"question,omitempty"`
	Options   []string `json:"options,omitempty"`
	Next      string   `json:"next,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

// Manifest is the lightweight remote version document. It is fetched fresh
// on every update check and never cached.
type Manifest struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Checksum  string `json:"checksum,omitempty"`
}

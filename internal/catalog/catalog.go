// Package catalog holds the static content the backend ships with: skill
// templates for offline path generation, the tutor's fallback answers and the
// sample learning paths used for seeding. It is parsed once and read-only.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

//go:embed samples.yaml
var samplesYAML []byte

const skillPlaceholder = "{skill}"

type QuizDef struct {
	Title          string `yaml:"title" json:"title"`
	Description    string `yaml:"description" json:"description"`
	Duration       string `yaml:"duration" json:"duration"`
	Difficulty     string `yaml:"difficulty" json:"difficulty"`
	QuestionsCount int    `yaml:"questions_count" json:"questions_count"`
}

type TopicDef struct {
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Duration    string    `yaml:"duration" json:"duration"`
	Quizzes     []QuizDef `yaml:"quizzes" json:"quizzes"`
}

type JourneyDef struct {
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Topics      []TopicDef `yaml:"topics" json:"topics"`
}

type PathDef struct {
	Title           string       `yaml:"title" json:"title"`
	Description     string       `yaml:"description" json:"description"`
	Duration        string       `yaml:"duration" json:"duration"`
	MatchPercentage int          `yaml:"match_percentage" json:"match_percentage"`
	Journeys        []JourneyDef `yaml:"journeys" json:"journeys"`
}

type templateQuiz struct {
	Difficulty     string `yaml:"difficulty"`
	QuestionsCount int    `yaml:"questions_count"`
	Duration       string `yaml:"duration"`
}

type templateTopic struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Duration    string       `yaml:"duration"`
	Quiz        templateQuiz `yaml:"quiz"`
}

// SkillTemplate is one offline journey blueprint.
type SkillTemplate struct {
	Key     string `yaml:"key"`
	Journey struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"journey"`
	Topics []templateTopic `yaml:"topics"`
}

type catalogFile struct {
	Templates    []SkillTemplate `yaml:"templates"`
	Default      SkillTemplate   `yaml:"default"`
	TutorAnswers []string        `yaml:"tutor_answers"`
}

type samplesFile struct {
	Paths []PathDef `yaml:"paths"`
}

type Catalog struct {
	templates    []SkillTemplate
	fallback     SkillTemplate
	tutorAnswers []string
	samples      []PathDef
}

// Load parses the embedded catalogue.
func Load() (*Catalog, error) {
	return Parse(catalogYAML, samplesYAML)
}

func Parse(catalogData, samplesData []byte) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(catalogData, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	var sf samplesFile
	if len(samplesData) > 0 {
		if err := yaml.Unmarshal(samplesData, &sf); err != nil {
			return nil, fmt.Errorf("parse samples: %w", err)
		}
	}

	for i := range cf.Templates {
		cf.Templates[i].Key = FoldKey(cf.Templates[i].Key)
		if cf.Templates[i].Key == "" {
			return nil, fmt.Errorf("template %d: empty key", i)
		}
		if len(cf.Templates[i].Topics) == 0 {
			return nil, fmt.Errorf("template %q: no topics", cf.Templates[i].Key)
		}
	}
	if len(cf.Default.Topics) == 0 {
		return nil, errors.New("default template: no topics")
	}
	if len(cf.TutorAnswers) == 0 {
		return nil, errors.New("tutor_answers is empty")
	}

	return &Catalog{
		templates:    cf.Templates,
		fallback:     cf.Default,
		tutorAnswers: cf.TutorAnswers,
		samples:      sf.Paths,
	}, nil
}

// FoldKey trims s and applies Unicode case folding, so "PYTHON", "Python"
// and "python" compare equal.
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Match returns the first template whose key is a substring of the
// case-folded skill, or the default template. Matching is a plain substring
// test: synonyms and translations fall through to the default.
func (c *Catalog) Match(skill string) (SkillTemplate, bool) {
	needle := FoldKey(skill)
	for _, t := range c.templates {
		if strings.Contains(needle, t.Key) {
			return t, true
		}
	}
	return c.fallback, false
}

// Instantiate builds a journey from t for skill: topics keep template order
// and each topic gets exactly one quiz.
func (t SkillTemplate) Instantiate(skill string) JourneyDef {
	skill = strings.TrimSpace(skill)
	fill := func(s string) string { return strings.ReplaceAll(s, skillPlaceholder, skill) }

	j := JourneyDef{
		Title:       fill(t.Journey.Title),
		Description: fill(t.Journey.Description),
		Topics:      make([]TopicDef, 0, len(t.Topics)),
	}
	for _, tp := range t.Topics {
		title := fill(tp.Title)
		j.Topics = append(j.Topics, TopicDef{
			Title:       title,
			Description: fill(tp.Description),
			Duration:    tp.Duration,
			Quizzes: []QuizDef{{
				Title:          title + " Quiz",
				Description:    "Test your understanding of " + title,
				Duration:       tp.Quiz.Duration,
				Difficulty:     tp.Quiz.Difficulty,
				QuestionsCount: tp.Quiz.QuestionsCount,
			}},
		})
	}
	return j
}

func (c *Catalog) TutorAnswers() []string {
	out := make([]string, len(c.tutorAnswers))
	copy(out, c.tutorAnswers)
	return out
}

// Samples returns deep copies of the seed paths.
func (c *Catalog) Samples() []PathDef {
	out := make([]PathDef, 0, len(c.samples))
	for _, p := range c.samples {
		cp := p
		cp.Journeys = make([]JourneyDef, 0, len(p.Journeys))
		for _, j := range p.Journeys {
			jc := j
			jc.Topics = make([]TopicDef, 0, len(j.Topics))
			for _, t := range j.Topics {
				tc := t
				tc.Quizzes = append([]QuizDef(nil), t.Quizzes...)
				jc.Topics = append(jc.Topics, tc)
			}
			cp.Journeys = append(cp.Journeys, jc)
		}
		out = append(out, cp)
	}
	return out
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/catalog"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
	"github.com/yungbote/edusmart-backend/internal/observability"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

const (
	defaultPathGenTimeout = 30 * time.Second
	aiFeaturePathGen      = "pathgen"

	matchPercentageMin  = 85
	matchPercentageSpan = 14

	defaultTopicDuration  = "2 hours"
	defaultQuizDuration   = "30 minutes"
	defaultQuizQuestions  = 10
	defaultQuizDifficulty = learning.DifficultyBeginner
)

type GeneratePathRequest struct {
	TargetDate     string   `json:"target_date"`
	StudyHours     int      `json:"study_hours"`
	SelectedSkills []string `json:"selected_skills"`
}

type GeneratedPath struct {
	Message string      `json:"message"`
	Path    *types.Path `json:"path"`
}

type PathGenService interface {
	Generate(dbc dbctx.Context, userID uuid.UUID, req GeneratePathRequest) (*GeneratedPath, error)
}

type PathGenOptions struct {
	// LLMTimeout bounds one text-generation attempt. Defaults to 30s.
	LLMTimeout time.Duration
	Clock      Clock
	// Intn returns a value in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

type pathGenService struct {
	db       *gorm.DB
	log      *logger.Logger
	catalog  *catalog.Catalog
	content  ContentService
	activity ActivityTracker
	stats    StatsService
	gen      TextGenerator
	budget   AIBudget
	timeout  time.Duration
	clock    Clock
	intn     func(n int) int
}

// NewPathGenService wires the generator. gen and budget may be nil: without a
// generator every request uses the template catalogue, without a budget calls
// are not capped.
func NewPathGenService(
	db *gorm.DB,
	log *logger.Logger,
	cat *catalog.Catalog,
	content ContentService,
	activity ActivityTracker,
	stats StatsService,
	gen TextGenerator,
	budget AIBudget,
	opts PathGenOptions,
) PathGenService {
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = defaultPathGenTimeout
	}
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	return &pathGenService{
		db:       db,
		log:      log.With("service", "PathGenService"),
		catalog:  cat,
		content:  content,
		activity: activity,
		stats:    stats,
		gen:      gen,
		budget:   budget,
		timeout:  opts.LLMTimeout,
		clock:    opts.Clock,
		intn:     opts.Intn,
	}
}

type pathPlan struct {
	skills []string
	hours  int
	weeks  int
	target string
}

func (pg *pathGenService) Generate(dbc dbctx.Context, userID uuid.UUID, req GeneratePathRequest) (*GeneratedPath, error) {
	plan, err := pg.validate(req)
	if err != nil {
		return nil, err
	}

	def, source := pg.generateWithLLM(dbc.Ctx, userID, plan)
	if def == nil {
		def = pg.fromTemplates(plan)
		source = learning.SourceTemplate
	}
	def.Duration = weeksLabel(plan.weeks)
	def.MatchPercentage = matchPercentageMin + pg.intn(matchPercentageSpan)

	snapshot, err := json.Marshal(GeneratePathRequest{
		TargetDate:     plan.target,
		StudyHours:     plan.hours,
		SelectedSkills: plan.skills,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request snapshot: %w", err)
	}

	var out *types.Path
	err = dbctx.Transaction(dbc, pg.db, func(dbc dbctx.Context) error {
		created, err := pg.content.ImportPath(dbc, *def, learning.AssignedTo(userID), source, datatypes.JSON(snapshot))
		if err != nil {
			return err
		}
		if err := pg.activity.RecordActivity(dbc, userID); err != nil {
			return err
		}
		if _, err := pg.stats.UpdateStats(dbc, userID); err != nil {
			return err
		}
		out, err = pg.content.GetPathTree(dbc, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.Current().IncPathGenerated(source)
	pg.log.Info("Generated learning path",
		"user_id", userID,
		"path_id", out.ID,
		"source", source,
		"journeys", len(out.Journeys),
	)
	return &GeneratedPath{
		Message: "Learning path generated successfully",
		Path:    out,
	}, nil
}

func (pg *pathGenService) validate(req GeneratePathRequest) (*pathPlan, error) {
	now := pg.clock.now()
	target, err := time.ParseInLocation(user.DayLayout, strings.TrimSpace(req.TargetDate), now.Location())
	if err != nil {
		return nil, apierr.BadRequest("invalid_target_date", errors.New("target_date must be YYYY-MM-DD"))
	}
	today := startOfDay(now)
	if req.StudyHours <= 0 {
		return nil, apierr.BadRequest("invalid_study_hours", errors.New("study_hours must be positive"))
	}
	skills := cleanSkills(req.SelectedSkills)
	if len(skills) == 0 {
		return nil, apierr.BadRequest("missing_skills", errors.New("select at least one skill"))
	}

	return &pathPlan{
		skills: skills,
		hours:  req.StudyHours,
		weeks:  weeksUntil(today, target),
		target: target.Format(user.DayLayout),
	}, nil
}

// weeksUntil is the number of whole weeks from today to target, at least 1.
// Targets today or in the past get a one-week plan.
func weeksUntil(today, target time.Time) int {
	weeks := daysBetween(today, target) / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func weeksLabel(n int) string {
	if n == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", n)
}

// cleanSkills trims, drops blanks and case-insensitive duplicates, keeping
// first-seen order.
func cleanSkills(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := catalog.FoldKey(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func (pg *pathGenService) fromTemplates(plan *pathPlan) *catalog.PathDef {
	def := &catalog.PathDef{
		Title:       "Personalized Path: " + strings.Join(plan.skills, ", "),
		Description: fmt.Sprintf("A %s plan covering %s at %d hours per week.", weeksLabel(plan.weeks), strings.Join(plan.skills, ", "), plan.hours),
		Journeys:    make([]catalog.JourneyDef, 0, len(plan.skills)),
	}
	for _, skill := range plan.skills {
		tmpl, _ := pg.catalog.Match(skill)
		def.Journeys = append(def.Journeys, tmpl.Instantiate(skill))
	}
	return def
}

// generateWithLLM returns nil when the generator is unavailable, over
// budget, slow or produces something unusable.
func (pg *pathGenService) generateWithLLM(ctx context.Context, userID uuid.UUID, plan *pathPlan) (*catalog.PathDef, string) {
	if pg.gen == nil {
		return nil, ""
	}
	if ctx == nil {
		ctx = context.Background()
	}
	metrics := observability.Current()
	if pg.budget != nil {
		ok, err := pg.budget.Allow(ctx, userID)
		if err != nil {
			pg.log.Warn("AI budget check failed, using templates", "user_id", userID, "error", err)
			metrics.ObserveAIRequest(aiFeaturePathGen, observability.AIOutcomeSkipped, 0)
			return nil, ""
		}
		if !ok {
			pg.log.Info("AI budget exhausted, using templates", "user_id", userID)
			metrics.ObserveAIRequest(aiFeaturePathGen, observability.AIOutcomeSkipped, 0)
			return nil, ""
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, pg.timeout)
	defer cancel()

	start := time.Now()
	raw, err := pg.gen.GenerateText(callCtx, pathGenSystemPrompt, pathGenUserPrompt(plan))
	if err != nil {
		pg.log.Warn("Path generation call failed, using templates", "user_id", userID, "error", err)
		metrics.ObserveAIRequest(aiFeaturePathGen, observability.AIOutcomeError, time.Since(start))
		return nil, ""
	}
	def, err := parseGeneratedPath(raw)
	if err != nil {
		pg.log.Warn("Path generation output rejected, using templates", "user_id", userID, "error", err)
		metrics.ObserveAIRequest(aiFeaturePathGen, observability.AIOutcomeRejected, time.Since(start))
		return nil, ""
	}
	metrics.ObserveAIRequest(aiFeaturePathGen, observability.AIOutcomeOK, time.Since(start))
	return def, learning.SourceGenerated
}

const pathGenSystemPrompt = `You are a curriculum designer for an online learning platform.
Reply with a single JSON object and nothing else.`

func pathGenUserPrompt(plan *pathPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a learning path for these skills: %s.\n", strings.Join(plan.skills, ", "))
	fmt.Fprintf(&b, "The learner studies %d hours per week for %d weeks.\n", plan.hours, plan.weeks)
	b.WriteString("Create one journey per skill with 3 to 5 topics in learning order, and one quiz per topic.\n")
	b.WriteString(`Use this shape:
{"title": string, "description": string,
 "journeys": [{"title": string, "description": string,
   "topics": [{"title": string, "description": string, "duration": string,
     "quizzes": [{"title": string, "description": string, "duration": string,
       "difficulty": "Beginner"|"Intermediate"|"Advanced", "questions_count": integer}]}]}]}`)
	return b.String()
}

const generatedPathSchema = `{
  "type": "object",
  "required": ["title", "journeys"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "journeys": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "topics"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "topics": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["title"],
              "properties": {
                "title": {"type": "string", "minLength": 1},
                "description": {"type": "string"},
                "duration": {"type": "string"},
                "quizzes": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["title"],
                    "properties": {
                      "title": {"type": "string", "minLength": 1},
                      "description": {"type": "string"},
                      "duration": {"type": "string"},
                      "difficulty": {"type": "string"},
                      "questions_count": {"type": "integer", "minimum": 1}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var generatedPathSchemaLoader = gojsonschema.NewStringLoader(generatedPathSchema)

// parseGeneratedPath validates model output and fills the optional fields.
func parseGeneratedPath(raw string) (*catalog.PathDef, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return nil, errors.New("no JSON object in response")
	}
	result, err := gojsonschema.Validate(generatedPathSchemaLoader, gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("schema: %s", strings.Join(msgs, "; "))
	}

	var def catalog.PathDef
	if err := json.Unmarshal([]byte(body), &def); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}
	fillGeneratedDefaults(&def)
	return &def, nil
}

// extractJSONObject strips a markdown code fence and any prose around the
// outermost object.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

func fillGeneratedDefaults(def *catalog.PathDef) {
	def.Title = strings.TrimSpace(def.Title)
	for ji := range def.Journeys {
		j := &def.Journeys[ji]
		for ti := range j.Topics {
			t := &j.Topics[ti]
			if strings.TrimSpace(t.Duration) == "" {
				t.Duration = defaultTopicDuration
			}
			if len(t.Quizzes) == 0 {
				t.Quizzes = []catalog.QuizDef{{
					Title:       t.Title + " Quiz",
					Description: "Test your understanding of " + t.Title,
				}}
			}
			for qi := range t.Quizzes {
				q := &t.Quizzes[qi]
				if strings.TrimSpace(q.Difficulty) == "" {
					q.Difficulty = defaultQuizDifficulty
				}
				if q.QuestionsCount <= 0 {
					q.QuestionsCount = defaultQuizQuestions
				}
				if strings.TrimSpace(q.Duration) == "" {
					q.Duration = defaultQuizDuration
				}
			}
		}
	}
}

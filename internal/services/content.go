package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/catalog"
	"github.com/yungbote/edusmart-backend/internal/data/repos"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

const topPathsLimit = 3

type ContentService interface {
	ListPaths(dbc dbctx.Context) ([]*types.Path, error)
	GetPathTree(dbc dbctx.Context, pathID uuid.UUID) (*types.Path, error)
	// DeletePath removes a path and everything under it. Teachers only.
	DeletePath(dbc dbctx.Context, userID, pathID uuid.UUID) error
	TopPaths(dbc dbctx.Context) ([]*types.Path, error)
	GetJourneyTree(dbc dbctx.Context, journeyID uuid.UUID) (*types.Journey, error)
	ListUserJourneys(dbc dbctx.Context, userID uuid.UUID) ([]*types.Journey, error)
	ClaimUnassignedJourneys(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	// ImportPath persists def as a full tree. Every journey gets owner and a
	// rollup consistent with its untouched topics.
	ImportPath(dbc dbctx.Context, def catalog.PathDef, owner learning.Owner, source string, request datatypes.JSON) (*types.Path, error)
}

type contentService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	pathRepo    repos.PathRepo
	journeyRepo repos.JourneyRepo
}

func NewContentService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, pathRepo repos.PathRepo, journeyRepo repos.JourneyRepo) ContentService {
	return &contentService{
		db:          db,
		log:         log.With("service", "ContentService"),
		userRepo:    userRepo,
		pathRepo:    pathRepo,
		journeyRepo: journeyRepo,
	}
}

func (cs *contentService) ListPaths(dbc dbctx.Context) ([]*types.Path, error) {
	paths, err := cs.pathRepo.List(dbc)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	return paths, nil
}

func (cs *contentService) GetPathTree(dbc dbctx.Context, pathID uuid.UUID) (*types.Path, error) {
	p, err := cs.pathRepo.GetTree(dbc, pathID)
	if err != nil {
		return nil, fmt.Errorf("load path tree: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("path_not_found")
	}
	return p, nil
}

func (cs *contentService) DeletePath(dbc dbctx.Context, userID, pathID uuid.UUID) error {
	return dbctx.Transaction(dbc, cs.db, func(dbc dbctx.Context) error {
		users, err := cs.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 || users[0].UserType != user.TypeTeacher {
			return apierr.New(http.StatusForbidden, "forbidden", errors.New("only teachers can delete learning paths"))
		}
		n, err := cs.pathRepo.DeleteCascade(dbc, []uuid.UUID{pathID})
		if err != nil {
			return fmt.Errorf("delete path: %w", err)
		}
		if n == 0 {
			return apierr.NotFound("path_not_found")
		}
		cs.log.Info("Deleted learning path", "path_id", pathID, "user_id", userID)
		return nil
	})
}

func (cs *contentService) TopPaths(dbc dbctx.Context) ([]*types.Path, error) {
	paths, err := cs.pathRepo.ListTop(dbc, topPathsLimit)
	if err != nil {
		return nil, fmt.Errorf("list top paths: %w", err)
	}
	return paths, nil
}

func (cs *contentService) GetJourneyTree(dbc dbctx.Context, journeyID uuid.UUID) (*types.Journey, error) {
	j, err := cs.journeyRepo.GetTree(dbc, journeyID)
	if err != nil {
		return nil, fmt.Errorf("load journey tree: %w", err)
	}
	if j == nil {
		return nil, apierr.NotFound("journey_not_found")
	}
	return j, nil
}

func (cs *contentService) ListUserJourneys(dbc dbctx.Context, userID uuid.UUID) ([]*types.Journey, error) {
	js, err := cs.journeyRepo.ListByOwner(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list journeys: %w", err)
	}
	return js, nil
}

func (cs *contentService) ClaimUnassignedJourneys(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	n, err := cs.journeyRepo.ClaimUnassigned(dbc, userID)
	if err != nil {
		return 0, fmt.Errorf("claim journeys: %w", err)
	}
	if n > 0 {
		cs.log.Info("Claimed unassigned journeys", "user_id", userID, "count", n)
	}
	return n, nil
}

func (cs *contentService) ImportPath(dbc dbctx.Context, def catalog.PathDef, owner learning.Owner, source string, request datatypes.JSON) (*types.Path, error) {
	if strings.TrimSpace(def.Title) == "" {
		return nil, apierr.BadRequest("missing_title", errors.New("path title is required"))
	}
	p, err := pathFromDef(def, owner)
	if err != nil {
		return nil, err
	}
	p.Source = source
	p.Request = request

	created, err := cs.pathRepo.CreateTree(dbc, p)
	if err != nil {
		return nil, fmt.Errorf("create path tree: %w", err)
	}
	return created, nil
}

// pathFromDef builds an unsaved tree. Topic order starts at 1 and nothing is
// completed, so each journey's rollup is just its topic count and first title.
func pathFromDef(def catalog.PathDef, owner learning.Owner) (*types.Path, error) {
	p := &types.Path{
		Title:           strings.TrimSpace(def.Title),
		Description:     def.Description,
		Duration:        def.Duration,
		MatchPercentage: def.MatchPercentage,
		Journeys:        make([]*types.Journey, 0, len(def.Journeys)),
	}
	for _, jd := range def.Journeys {
		j := &types.Journey{
			Title:       jd.Title,
			Description: jd.Description,
			Owner:       owner,
			Topics:      make([]*types.Topic, 0, len(jd.Topics)),
		}
		for i, td := range jd.Topics {
			t := &types.Topic{
				Title:       td.Title,
				Description: td.Description,
				Order:       i + 1,
				Duration:    td.Duration,
				Quizzes:     make([]*types.Quiz, 0, len(td.Quizzes)),
			}
			for _, qd := range td.Quizzes {
				t.Quizzes = append(t.Quizzes, &types.Quiz{
					Title:          qd.Title,
					Description:    qd.Description,
					Duration:       qd.Duration,
					Difficulty:     qd.Difficulty,
					QuestionsCount: qd.QuestionsCount,
				})
			}
			j.Topics = append(j.Topics, t)
		}
		if err := applyRollup(j, j.Topics); err != nil {
			return nil, fmt.Errorf("journey %q: %w", j.Title, err)
		}
		p.Journeys = append(p.Journeys, j)
	}
	return p, nil
}

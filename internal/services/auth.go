package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/data/repos"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
	"github.com/yungbote/edusmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

const minPasswordLength = 8

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

type AuthService interface {
	RegisterUser(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	// LoginUser accepts a username or an email address as identifier.
	LoginUser(dbc dbctx.Context, identifier, password string) (string, string, error)
	RefreshUser(dbc dbctx.Context, refreshToken string) (string, string, error)
	LogoutUser(dbc dbctx.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
	// PurgeExpiredTokens deletes stored sessions that can no longer be refreshed.
	PurgeExpiredTokens(dbc dbctx.Context, now time.Time) (int64, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

var errInvalidCredentials = apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid username or password"))

func (as *authService) RegisterUser(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	u, err := normalizeRegistration(in)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hashed)

	var created *types.User
	err = dbctx.Transaction(dbc, as.db, func(dbc dbctx.Context) error {
		exists, err := as.userRepo.UsernameExists(dbc, u.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			return apierr.New(http.StatusConflict, "username_taken", errors.New("username is already in use"))
		}
		exists, err = as.userRepo.EmailExists(dbc, u.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.New(http.StatusConflict, "email_taken", errors.New("email is already in use"))
		}
		users, err := as.userRepo.Create(dbc, []*types.User{u})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		created = users[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("Registered user", "user_id", created.ID, "user_type", created.UserType)
	return created, nil
}

func normalizeRegistration(in RegisterInput) (*types.User, error) {
	u := &types.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		UserType:  strings.ToLower(strings.TrimSpace(in.UserType)),
	}
	if u.UserType == "" {
		u.UserType = user.TypeStudent
	}
	switch {
	case u.Username == "":
		return nil, apierr.BadRequest("missing_username", errors.New("a username is required to register"))
	case u.Email == "":
		return nil, apierr.BadRequest("missing_email", errors.New("an email is required to register"))
	case u.FirstName == "" || u.LastName == "":
		return nil, apierr.BadRequest("missing_name", errors.New("first and last name are required to register"))
	case len(in.Password) < minPasswordLength:
		return nil, apierr.BadRequest("weak_password", fmt.Errorf("password must be at least %d characters", minPasswordLength))
	case in.Password != in.Password2:
		return nil, apierr.BadRequest("password_mismatch", errors.New("password fields didn't match"))
	case !user.ValidType(u.UserType):
		return nil, apierr.BadRequest("invalid_user_type", errors.New("user_type must be student, parent or teacher"))
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return nil, apierr.BadRequest("invalid_email", errors.New("email is not valid"))
	}
	return u, nil
}

func (as *authService) LoginUser(dbc dbctx.Context, identifier, password string) (string, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", "", apierr.BadRequest("missing_credentials", errors.New("username and password are required"))
	}

	var (
		found []*types.User
		err   error
	)
	if strings.Contains(identifier, "@") {
		found, err = as.userRepo.GetByEmails(dbc, []string{strings.ToLower(identifier)})
	} else {
		found, err = as.userRepo.GetByUsernames(dbc, []string{identifier})
	}
	if err != nil {
		return "", "", fmt.Errorf("load user: %w", err)
	}
	if len(found) == 0 {
		return "", "", errInvalidCredentials
	}
	u := found[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", errInvalidCredentials
	}

	var access, refresh string
	err = dbctx.Transaction(dbc, as.db, func(dbc dbctx.Context) error {
		var err error
		access, refresh, err = as.issueTokens(dbc, u.ID)
		return err
	})
	if err != nil {
		return "", "", err
	}
	as.log.Info("User logged in", "user_id", u.ID)
	return access, refresh, nil
}

func (as *authService) RefreshUser(dbc dbctx.Context, refreshToken string) (string, string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", "", apierr.BadRequest("missing_refresh_token", errors.New("refresh_token is required"))
	}

	found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("load refresh token: %w", err)
	}
	if len(found) == 0 {
		return "", "", apierr.New(http.StatusUnauthorized, "invalid_refresh_token", nil)
	}
	existing := found[0]
	if existing.ExpiresAt.Before(time.Now()) {
		as.log.Warn("Refresh token expired", "user_id", existing.UserID)
		if err := as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			as.log.Warn("Failed to delete expired token", "error", err)
		}
		return "", "", apierr.New(http.StatusUnauthorized, "refresh_token_expired", nil)
	}

	var access, refresh string
	err = dbctx.Transaction(dbc, as.db, func(dbc dbctx.Context) error {
		if err := as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("delete old token: %w", err)
		}
		var err error
		access, refresh, err = as.issueTokens(dbc, existing.UserID)
		return err
	})
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (as *authService) LogoutUser(dbc dbctx.Context) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if err := as.userTokenRepo.DeleteByAccessTokens(dbc, []string{rd.TokenString}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	as.log.Info("User logged out", "user_id", rd.UserID)
	return nil
}

func (as *authService) issueTokens(dbc dbctx.Context, userID uuid.UUID) (string, string, error) {
	access, err := as.generateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	refresh := uuid.New().String()
	_, err = as.userTokenRepo.Create(dbc, []*types.UserToken{{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().UTC().Add(as.refreshTTL),
	}})
	if err != nil {
		return "", "", fmt.Errorf("create user token: %w", err)
	}
	return access, refresh, nil
}

func (as *authService) generateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates tokenString and attaches the caller to ctx.
// Tokens revoked by logout are rejected even before they expire.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	ctx = ctxutil.Default(ctx)
	if tokenString == "" {
		return ctx, apierr.New(http.StatusUnauthorized, "missing_token", nil)
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", nil)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", err)
	}

	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.New(ctx), []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("load access token: %w", err)
	}
	if len(found) == 0 {
		return ctx, apierr.New(http.StatusUnauthorized, "token_revoked", nil)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) PurgeExpiredTokens(dbc dbctx.Context, now time.Time) (int64, error) {
	n, err := as.userTokenRepo.DeleteExpired(dbc, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	if n > 0 {
		as.log.Info("Purged expired sessions", "count", n)
	}
	return n, nil
}

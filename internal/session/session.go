// Package session turns account credentials into a bearer token and runs the
// authenticated sync calls on top of it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/paprika/internal/apperr"
	"github.com/starford/paprika/pkg/paprika"
)

// DefaultConcurrency bounds FetchAll when the caller passes zero.
const DefaultConcurrency = 4

// Credentials identify the account.
type Credentials struct {
	Email    string
	Password string
}

// Service logs in lazily and keeps the token for the lifetime of the process.
type Service struct {
	client      *paprika.Client
	creds       Credentials
	logger      *slog.Logger
	concurrency int

	mu    sync.Mutex
	token string
}

// NewService creates a new session service.
func NewService(client *paprika.Client, creds Credentials, logger *slog.Logger, concurrency int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{client: client, creds: creds, logger: logger, concurrency: concurrency}
}

// Login exchanges the credentials for a fresh token and remembers it.
func (s *Service) Login(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login(ctx)
}

// Token returns the current token, logging in first if there is none yet.
// Concurrent callers wait for a login in progress instead of starting their
// own; the lock covers only the token exchange, never the sync calls.
func (s *Service) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return s.token, nil
	}
	return s.login(ctx)
}

func (s *Service) login(ctx context.Context) (string, error) {
	if s.creds.Email == "" || s.creds.Password == "" {
		return "", apperr.ErrMissingCredentials
	}
	token, err := s.client.Login(ctx, s.creds.Email, s.creds.Password)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	s.token = token
	s.logger.Debug("session: logged in", slog.String("email", s.creds.Email))
	return token, nil
}

// Recipes lists the (uid, hash) pair of every recipe in the account.
func (s *Service) Recipes(ctx context.Context) ([]paprika.RecipeEntry, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListRecipes(ctx, token)
}

// Categories lists every category in the account.
func (s *Service) Categories(ctx context.Context) ([]paprika.Category, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListCategories(ctx, token)
}

// Recipe fetches one full recipe.
func (s *Service) Recipe(ctx context.Context, uid string) (*paprika.Recipe, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.GetRecipe(ctx, token, uid)
}

// Upload creates or replaces r. The uid and hash are stamped into r.
func (s *Service) Upload(ctx context.Context, r *paprika.Recipe) error {
	token, err := s.Token(ctx)
	if err != nil {
		return err
	}
	if err := s.client.UploadRecipe(ctx, token, r); err != nil {
		return err
	}
	s.logger.Info("session: recipe uploaded", slog.String("uid", r.UID), slog.String("name", r.Name))
	return nil
}

// FetchAll fetches the given recipes concurrently. The result keeps the order
// of uids; the first failure cancels the remaining fetches.
func (s *Service) FetchAll(ctx context.Context, uids []string) ([]*paprika.Recipe, error) {
	if len(uids) == 0 {
		return []*paprika.Recipe{}, nil
	}
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*paprika.Recipe, len(uids))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, uid := range uids {
		g.Go(func() error {
			r, err := s.client.GetRecipe(gCtx, token, uid)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", uid, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PullResult is the outcome of Pull.
type PullResult struct {
	// Changed holds recipes that are new or whose hash differs, in listing order.
	Changed []*paprika.Recipe
	// Removed holds known uids that are no longer listed.
	Removed []string
}

// Pull lists the account, compares it with known (uid to hash) and fetches
// only the recipes that changed.
func (s *Service) Pull(ctx context.Context, known map[string]string) (*PullResult, error) {
	entries, err := s.Recipes(ctx)
	if err != nil {
		return nil, err
	}
	changed, removed := Changed(entries, known)

	uids := make([]string, len(changed))
	for i, e := range changed {
		uids[i] = e.UID
	}
	recipes, err := s.FetchAll(ctx, uids)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("session: pull",
		slog.Int("listed", len(entries)),
		slog.Int("changed", len(changed)),
		slog.Int("removed", len(removed)))
	return &PullResult{Changed: recipes, Removed: removed}, nil
}

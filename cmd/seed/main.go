// Command seed loads the sample learning paths and can hand their unassigned
// journeys to an existing user.
//
//	go run ./cmd/seed
//	go run ./cmd/seed -claim ada@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yungbote/edusmart-backend/internal/app"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
)

func main() {
	claim := flag.String("claim", "", "email of a user who takes over every unassigned journey")
	skipSamples := flag.Bool("skip-samples", false, "do not import the sample paths")
	flag.Parse()

	_ = godotenv.Load()

	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := run(ctx, a, *claim, !*skipSamples); err != nil {
		a.Log.Error("seed failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, claimEmail string, importSamples bool) error {
	dbc := dbctx.New(ctx)

	if importSamples {
		n, err := seedSamples(dbc, a)
		if err != nil {
			return err
		}
		a.Log.Info("sample paths imported", "created", n)
	}

	claimEmail = strings.TrimSpace(claimEmail)
	if claimEmail == "" {
		return nil
	}
	users, err := a.Repos.User.GetByEmails(dbc, []string{claimEmail})
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if len(users) == 0 {
		return fmt.Errorf("no user with email %q", claimEmail)
	}
	claimed, err := a.Services.Content.ClaimUnassignedJourneys(dbc, users[0].ID)
	if err != nil {
		return fmt.Errorf("claim journeys: %w", err)
	}
	a.Log.Info("journeys claimed", "user_id", users[0].ID, "claimed", claimed)
	return nil
}

// seedSamples imports every sample whose title is not already stored, so
// running the command twice does not duplicate content.
func seedSamples(dbc dbctx.Context, a *app.App) (int, error) {
	existing, err := a.Services.Content.ListPaths(dbc)
	if err != nil {
		return 0, fmt.Errorf("list paths: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.Title] = true
	}

	created := 0
	for _, def := range a.Services.Catalog.Samples() {
		if seen[def.Title] {
			a.Log.Info("sample already present", "title", def.Title)
			continue
		}
		if _, err := a.Services.Content.ImportPath(dbc, def, learning.Unassigned(), learning.SourceSeed, nil); err != nil {
			return created, fmt.Errorf("import %q: %w", def.Title, err)
		}
		created++
	}
	return created, nil
}

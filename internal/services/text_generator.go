package services

import "context"

// TextGenerator is the external text-completion collaborator. It may be nil,
// slow, or fail; callers fall back to local content.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

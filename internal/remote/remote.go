// Package remote defines the narrow contract the orchestrator has with
// the notification service and provides its HTTP implementation.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/notification-center/internal/model"
)

// AuthError indicates that authentication has failed or expired.
// It is returned by the client when a 401 response is received.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// FetchSomeParams selects a slice of the feed for an incremental fetch.
// A zero Before/After leaves the fetch unbounded on that side.
type FetchSomeParams struct {
	Username string
	Types    []string
	Before   string
	After    string
}

// Service is the remote collaborator contract. Every call either
// returns the updated-records payload or an error; there is no
// partial-success shape.
type Service interface {
	// FetchAll retrieves the complete notification set for a user.
	FetchAll(ctx context.Context, username string) ([]model.Notification, error)

	// FetchSome retrieves notifications matching the given cursor
	// and optional type filter.
	FetchSome(ctx context.Context, params FetchSomeParams) ([]model.Notification, error)

	// MarkRead submits notification IDs to be marked read.
	MarkRead(ctx context.Context, ids []string) ([]model.Notification, error)

	// MarkUnread submits notification IDs to be marked unread.
	MarkUnread(ctx context.Context, ids []string) ([]model.Notification, error)

	// MarkShown submits notification IDs to be marked shown.
	MarkShown(ctx context.Context, ids []string) ([]model.Notification, error)
}

package store

import (
	"context"
	"errors"

	"github.com/alex-clyr/clyr-gpts/internal/model"
)

// Sentinel errors shared by every Store implementation. Callers match with
// errors.Is and never branch on which implementation served the call.
var (
	// ErrBackendUnavailable signals that no live backend is configured, or a
	// write could not reach it. Reads degrade to canned data instead; writes
	// are never silently faked.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound signals that the requested row does not exist.
	ErrNotFound = errors.New("record not found")
)

// AssistantStore provides access to the assistant catalog.
type AssistantStore interface {
	// ListAssistants returns active assistants, newest first.
	ListAssistants(ctx context.Context) ([]model.Assistant, error)
	// ListAllAssistants returns every assistant, including inactive ones.
	ListAllAssistants(ctx context.Context) ([]model.Assistant, error)
	GetAssistant(ctx context.Context, id string) (*model.Assistant, error)
	CreateAssistant(ctx context.Context, assistant *model.Assistant) error
	UpdateAssistant(ctx context.Context, assistant *model.Assistant) error
	// DeactivateAssistant clears the active flag; assistants are never hard-deleted.
	DeactivateAssistant(ctx context.Context, id string) error
}

// ThreadStore provides access to chat threads.
type ThreadStore interface {
	// ListThreads returns the user's threads ordered by last_message_at, newest first.
	ListThreads(ctx context.Context, userID string) ([]model.Thread, error)
	GetThread(ctx context.Context, id string) (*model.Thread, error)
	CreateThread(ctx context.Context, thread *model.Thread) error
	// TouchThread advances last_message_at to now.
	TouchThread(ctx context.Context, id string) error
}

// MessageStore provides access to chat messages.
type MessageStore interface {
	// ListMessages returns the thread's messages ordered by created_at, oldest first.
	ListMessages(ctx context.Context, threadID string) ([]model.Message, error)
	CreateMessage(ctx context.Context, message *model.Message) error
}

// SubscriptionStore provides read access to subscription grants. Subscriptions
// are created by the billing collaborator, never by this service.
type SubscriptionStore interface {
	ListActiveSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
}

// UserStore provides access to user accounts. User reads are never served
// from canned data: faking auth would let anyone impersonate a fixture user.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// Store is the uniform data interface the rest of the service is written
// against. Which implementation backs it (live, demo, or live-with-fallback)
// is decided once at startup.
type Store interface {
	AssistantStore
	ThreadStore
	MessageStore
	SubscriptionStore
	UserStore
	Close() error
}

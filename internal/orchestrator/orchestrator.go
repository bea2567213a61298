package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Sentinel errors reported by an Orchestrator.
var (
	// ErrRemoteUnavailable signals a transport or authorization failure
	// against the assistant API.
	ErrRemoteUnavailable = errors.New("assistant API unavailable")

	// ErrNoReply signals that a run completed but the newest conversation
	// entry was not an assistant-authored text message.
	ErrNoReply = errors.New("run completed without an assistant reply")

	// ErrRunTimeout signals that a run did not reach a terminal status
	// within the configured maximum wait.
	ErrRunTimeout = errors.New("run did not finish in time")
)

// RunFailedError reports a run that reached a non-successful terminal status.
type RunFailedError struct {
	Status openai.RunStatus
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("run ended with status %q", e.Status)
}

// Attachment references a file already uploaded to the assistant API.
// Uploading is the caller's (or an upstream collaborator's) responsibility;
// the orchestrator only forwards the identifier.
type Attachment struct {
	FileID string
	Name   string
}

// Orchestrator converts one outgoing user message into one assistant reply by
// driving a remote run to a terminal state. Implementations hold no
// cross-call state; at most one in-flight run per conversation is the
// caller's convention to keep.
type Orchestrator interface {
	// CreateConversation allocates a new remote conversation context and
	// returns its identifier, immutable for the life of the thread.
	CreateConversation(ctx context.Context) (string, error)

	// SendMessage appends the user's message to the conversation, runs the
	// assistant against it, waits for a terminal status and returns the
	// assistant's reply text. The message is durably posted to the remote
	// context before the run is started.
	SendMessage(ctx context.Context, conversationID, assistantRemoteID, content string, attachments []Attachment) (string, error)
}

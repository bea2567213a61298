package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAPI scripts the remote side of a run.
type fakeAPI struct {
	calls []string

	createThreadErr  error
	createMessageErr error
	createRunErr     error
	listErr          error

	initialStatus openai.RunStatus   // status returned by CreateRun
	pollStatuses  []openai.RunStatus // successive RetrieveRun results
	retrieves     int

	messages openai.MessagesList

	lastMessageRequest openai.MessageRequest
}

func (f *fakeAPI) CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error) {
	f.calls = append(f.calls, "CreateThread")
	if f.createThreadErr != nil {
		return openai.Thread{}, f.createThreadErr
	}
	return openai.Thread{ID: "thread_123"}, nil
}

func (f *fakeAPI) CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error) {
	f.calls = append(f.calls, "CreateMessage")
	f.lastMessageRequest = request
	if f.createMessageErr != nil {
		return openai.Message{}, f.createMessageErr
	}
	return openai.Message{ID: "msg_1"}, nil
}

func (f *fakeAPI) CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error) {
	f.calls = append(f.calls, "CreateRun")
	if f.createRunErr != nil {
		return openai.Run{}, f.createRunErr
	}
	return openai.Run{ID: "run_1", ThreadID: threadID, Status: f.initialStatus}, nil
}

func (f *fakeAPI) RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error) {
	f.calls = append(f.calls, "RetrieveRun")
	status := f.pollStatuses[len(f.pollStatuses)-1]
	if f.retrieves < len(f.pollStatuses) {
		status = f.pollStatuses[f.retrieves]
	}
	f.retrieves++
	return openai.Run{ID: runID, ThreadID: threadID, Status: status}, nil
}

func (f *fakeAPI) ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error) {
	f.calls = append(f.calls, "ListMessage")
	if f.listErr != nil {
		return openai.MessagesList{}, f.listErr
	}
	return f.messages, nil
}

func assistantReply(text string) openai.MessagesList {
	return openai.MessagesList{
		Messages: []openai.Message{
			{
				ID:   "msg_reply",
				Role: openai.ChatMessageRoleAssistant,
				Content: []openai.MessageContent{
					{Type: "text", Text: &openai.MessageText{Value: text}},
				},
			},
		},
	}
}

func newTestOrchestrator(api *fakeAPI) *OpenAIOrchestrator {
	return &OpenAIOrchestrator{
		client:       api,
		pollInterval: time.Millisecond,
		runTimeout:   time.Second,
		logger:       zap.NewNop(),
	}
}

func TestCreateConversation(t *testing.T) {
	api := &fakeAPI{}
	o := newTestOrchestrator(api)

	id, err := o.CreateConversation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "thread_123", id)
}

func TestCreateConversationRemoteFailure(t *testing.T) {
	api := &fakeAPI{createThreadErr: errors.New("401 unauthorized")}
	o := newTestOrchestrator(api)

	_, err := o.CreateConversation(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestSendMessagePollsUntilCompleted(t *testing.T) {
	api := &fakeAPI{
		initialStatus: openai.RunStatusQueued,
		pollStatuses: []openai.RunStatus{
			openai.RunStatusInProgress,
			openai.RunStatusInProgress,
			openai.RunStatusCompleted,
		},
		messages: assistantReply("here is your answer"),
	}
	o := newTestOrchestrator(api)

	reply, err := o.SendMessage(context.Background(), "thread_123", "asst_1", "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "here is your answer", reply)
	assert.Equal(t, 3, api.retrieves)

	// The message is posted before the run starts.
	assert.Equal(t, []string{"CreateMessage", "CreateRun", "RetrieveRun", "RetrieveRun", "RetrieveRun", "ListMessage"}, api.calls)
}

func TestSendMessageStopsOnFailureStatus(t *testing.T) {
	api := &fakeAPI{
		initialStatus: openai.RunStatusQueued,
		pollStatuses:  []openai.RunStatus{openai.RunStatusFailed},
	}
	o := newTestOrchestrator(api)

	_, err := o.SendMessage(context.Background(), "thread_123", "asst_1", "hello", nil)

	var runErr *RunFailedError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, openai.RunStatusFailed, runErr.Status)
	// No further polling after the terminal status.
	assert.Equal(t, 1, api.retrieves)
}

func TestSendMessageTimesOut(t *testing.T) {
	api := &fakeAPI{
		initialStatus: openai.RunStatusQueued,
		pollStatuses:  []openai.RunStatus{openai.RunStatusInProgress},
	}
	o := newTestOrchestrator(api)
	o.runTimeout = 10 * time.Millisecond

	_, err := o.SendMessage(context.Background(), "thread_123", "asst_1", "hello", nil)
	assert.ErrorIs(t, err, ErrRunTimeout)
}

func TestSendMessageHonorsCancellation(t *testing.T) {
	api := &fakeAPI{
		initialStatus: openai.RunStatusQueued,
		pollStatuses:  []openai.RunStatus{openai.RunStatusInProgress},
	}
	o := newTestOrchestrator(api)
	o.pollInterval = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.SendMessage(ctx, "thread_123", "asst_1", "hello", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSendMessageNoAssistantReply(t *testing.T) {
	api := &fakeAPI{
		initialStatus: openai.RunStatusCompleted,
		messages: openai.MessagesList{
			Messages: []openai.Message{
				{
					ID:   "msg_user",
					Role: openai.ChatMessageRoleUser,
					Content: []openai.MessageContent{
						{Type: "text", Text: &openai.MessageText{Value: "hello"}},
					},
				},
			},
		},
	}
	o := newTestOrchestrator(api)

	_, err := o.SendMessage(context.Background(), "thread_123", "asst_1", "hello", nil)
	assert.ErrorIs(t, err, ErrNoReply)
	// The run was already terminal when created; nothing to poll.
	assert.Equal(t, 0, api.retrieves)
}

func TestSendMessageForwardsAttachments(t *testing.T) {
	api := &fakeAPI{
		initialStatus: openai.RunStatusCompleted,
		messages:      assistantReply("summarized"),
	}
	o := newTestOrchestrator(api)

	_, err := o.SendMessage(context.Background(), "thread_123", "asst_1", "summarize this",
		[]Attachment{{FileID: "file-abc", Name: "report.pdf"}})
	require.NoError(t, err)

	require.Len(t, api.lastMessageRequest.Attachments, 1)
	assert.Equal(t, "file-abc", api.lastMessageRequest.Attachments[0].FileID)
}

func TestUnknownStatusKeepsPolling(t *testing.T) {
	api := &fakeAPI{
		initialStatus: openai.RunStatus("mystery_state"),
		pollStatuses: []openai.RunStatus{
			openai.RunStatus("mystery_state"),
			openai.RunStatusCompleted,
		},
		messages: assistantReply("done"),
	}
	o := newTestOrchestrator(api)

	reply, err := o.SendMessage(context.Background(), "thread_123", "asst_1", "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
	assert.Equal(t, 2, api.retrieves)
}

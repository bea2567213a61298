package store

import (
	"context"
	"time"

	"github.com/alex-clyr/clyr-gpts/internal/model"
)

// demoCatalogBase is the instant the canned catalog pretends to have been
// created. Entries step back one minute each so newest-first ordering is
// stable across calls.
var demoCatalogBase = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// demoAssistants is the canned assistant catalog served when no backend is
// configured. The slice is shared by all callers and must never be mutated;
// read operations hand out copies.
var demoAssistants = []model.Assistant{
	{
		ID:                "1",
		Name:              "Code Assistant",
		Description:       "Expert programming assistant that helps with coding, debugging, and software architecture.",
		Category:          "Development",
		SubscriptionType:  model.TierFree,
		OpenAIAssistantID: "asst_code_sample_id",
		Active:            true,
		CreatedAt:         demoCatalogBase,
	},
	{
		ID:                "2",
		Name:              "Writing Coach",
		Description:       "Professional writing assistant for essays, articles, and creative content.",
		Category:          "Writing",
		SubscriptionType:  model.TierPremium,
		OpenAIAssistantID: "asst_writing_sample_id",
		Active:            true,
		CreatedAt:         demoCatalogBase.Add(-1 * time.Minute),
	},
	{
		ID:                "3",
		Name:              "Data Analyst",
		Description:       "Specialized in data analysis, visualization, and statistical insights.",
		Category:          "Analytics",
		SubscriptionType:  model.TierPerAssistant,
		OpenAIAssistantID: "asst_data_sample_id",
		Active:            true,
		CreatedAt:         demoCatalogBase.Add(-2 * time.Minute),
	},
	{
		ID:                "4",
		Name:              "Marketing Guru",
		Description:       "Expert in digital marketing, SEO, and content strategy.",
		Category:          "Marketing",
		SubscriptionType:  model.TierPremium,
		OpenAIAssistantID: "asst_marketing_sample_id",
		Active:            true,
		CreatedAt:         demoCatalogBase.Add(-3 * time.Minute),
	},
	{
		ID:                "5",
		Name:              "Language Tutor",
		Description:       "Multilingual assistant for language learning and translation.",
		Category:          "Education",
		SubscriptionType:  model.TierFree,
		OpenAIAssistantID: "asst_language_sample_id",
		Active:            true,
		CreatedAt:         demoCatalogBase.Add(-4 * time.Minute),
	},
	{
		ID:                "6",
		Name:              "Health Advisor",
		Description:       "General health and wellness guidance assistant.",
		Category:          "Health",
		SubscriptionType:  model.TierPerAssistant,
		OpenAIAssistantID: "asst_health_sample_id",
		Active:            true,
		CreatedAt:         demoCatalogBase.Add(-5 * time.Minute),
	},
}

// demoSubscriptions exists so the access checker can be exercised without a
// backend. User "demo-user" holds a universal grant; "demo-analyst" holds a
// per_assistant grant scoped to the Data Analyst.
var demoSubscriptions = []model.Subscription{
	{
		ID:        "sub-1",
		UserID:    "demo-user",
		Type:      model.SubscriptionUniversal,
		Status:    model.SubscriptionActive,
		CreatedAt: demoCatalogBase,
	},
	{
		ID:          "sub-2",
		UserID:      "demo-analyst",
		Type:        model.SubscriptionPerAssistant,
		AssistantID: strPtr("3"),
		Status:      model.SubscriptionActive,
		CreatedAt:   demoCatalogBase,
	},
}

func strPtr(s string) *string { return &s }

// DemoStore serves the fixed fallback data set. Reads return copies of the
// canned fixtures; every mutation fails with ErrBackendUnavailable so a write
// is never masked as having succeeded.
type DemoStore struct{}

// NewDemoStore creates a store backed by the canned fixtures
func NewDemoStore() *DemoStore {
	return &DemoStore{}
}

func (s *DemoStore) ListAssistants(ctx context.Context) ([]model.Assistant, error) {
	out := make([]model.Assistant, 0, len(demoAssistants))
	for _, a := range demoAssistants {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *DemoStore) ListAllAssistants(ctx context.Context) ([]model.Assistant, error) {
	out := make([]model.Assistant, len(demoAssistants))
	copy(out, demoAssistants)
	return out, nil
}

func (s *DemoStore) GetAssistant(ctx context.Context, id string) (*model.Assistant, error) {
	for _, a := range demoAssistants {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *DemoStore) CreateAssistant(ctx context.Context, assistant *model.Assistant) error {
	return ErrBackendUnavailable
}

func (s *DemoStore) UpdateAssistant(ctx context.Context, assistant *model.Assistant) error {
	return ErrBackendUnavailable
}

func (s *DemoStore) DeactivateAssistant(ctx context.Context, id string) error {
	return ErrBackendUnavailable
}

func (s *DemoStore) ListThreads(ctx context.Context, userID string) ([]model.Thread, error) {
	return []model.Thread{}, nil
}

func (s *DemoStore) GetThread(ctx context.Context, id string) (*model.Thread, error) {
	return nil, ErrNotFound
}

func (s *DemoStore) CreateThread(ctx context.Context, thread *model.Thread) error {
	return ErrBackendUnavailable
}

func (s *DemoStore) TouchThread(ctx context.Context, id string) error {
	return ErrBackendUnavailable
}

func (s *DemoStore) ListMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	return []model.Message{}, nil
}

func (s *DemoStore) CreateMessage(ctx context.Context, message *model.Message) error {
	return ErrBackendUnavailable
}

func (s *DemoStore) ListActiveSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	var out []model.Subscription
	for _, sub := range demoSubscriptions {
		if sub.UserID == userID && sub.Status == model.SubscriptionActive {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *DemoStore) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	out := make([]model.Subscription, len(demoSubscriptions))
	copy(out, demoSubscriptions)
	return out, nil
}

// User reads are deliberately not faked: authentication is not available in
// demo mode.
func (s *DemoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, ErrBackendUnavailable
}

func (s *DemoStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return nil, ErrBackendUnavailable
}

func (s *DemoStore) CreateUser(ctx context.Context, user *model.User) error {
	return ErrBackendUnavailable
}

func (s *DemoStore) ListUsers(ctx context.Context) ([]model.User, error) {
	return nil, ErrBackendUnavailable
}

func (s *DemoStore) Close() error {
	// Nothing to close for the canned data set
	return nil
}

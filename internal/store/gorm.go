package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alex-clyr/clyr-gpts/internal/model"
	"gorm.io/gorm"
)

// GormStore is the live Postgres implementation of Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by the given database connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) ListAssistants(ctx context.Context) ([]model.Assistant, error) {
	var assistants []model.Assistant
	result := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&assistants)
	if result.Error != nil {
		return nil, fmt.Errorf("listing assistants: %w", result.Error)
	}
	return assistants, nil
}

func (s *GormStore) ListAllAssistants(ctx context.Context) ([]model.Assistant, error) {
	var assistants []model.Assistant
	result := s.db.WithContext(ctx).Order("created_at DESC").Find(&assistants)
	if result.Error != nil {
		return nil, fmt.Errorf("listing assistants: %w", result.Error)
	}
	return assistants, nil
}

func (s *GormStore) GetAssistant(ctx context.Context, id string) (*model.Assistant, error) {
	var assistant model.Assistant
	result := s.db.WithContext(ctx).First(&assistant, "id = ?", id)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &assistant, nil
}

func (s *GormStore) CreateAssistant(ctx context.Context, assistant *model.Assistant) error {
	if result := s.db.WithContext(ctx).Create(assistant); result.Error != nil {
		return fmt.Errorf("creating assistant: %w", result.Error)
	}
	return nil
}

func (s *GormStore) UpdateAssistant(ctx context.Context, assistant *model.Assistant) error {
	if result := s.db.WithContext(ctx).Save(assistant); result.Error != nil {
		return fmt.Errorf("updating assistant: %w", result.Error)
	}
	return nil
}

func (s *GormStore) DeactivateAssistant(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&model.Assistant{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivating assistant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListThreads(ctx context.Context, userID string) ([]model.Thread, error) {
	var threads []model.Thread
	result := s.db.WithContext(ctx).
		Preload("Assistant").
		Where("user_id = ?", userID).
		Order("last_message_at DESC").
		Find(&threads)
	if result.Error != nil {
		return nil, fmt.Errorf("listing threads: %w", result.Error)
	}
	return threads, nil
}

func (s *GormStore) GetThread(ctx context.Context, id string) (*model.Thread, error) {
	var thread model.Thread
	result := s.db.WithContext(ctx).Preload("Assistant").First(&thread, "id = ?", id)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &thread, nil
}

func (s *GormStore) CreateThread(ctx context.Context, thread *model.Thread) error {
	if result := s.db.WithContext(ctx).Create(thread); result.Error != nil {
		return fmt.Errorf("creating thread: %w", result.Error)
	}
	return nil
}

func (s *GormStore) TouchThread(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&model.Thread{}).
		Where("id = ?", id).
		Update("last_message_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("touching thread: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	var messages []model.Message
	result := s.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("listing messages: %w", result.Error)
	}
	return messages, nil
}

func (s *GormStore) CreateMessage(ctx context.Context, message *model.Message) error {
	if result := s.db.WithContext(ctx).Create(message); result.Error != nil {
		return fmt.Errorf("creating message: %w", result.Error)
	}
	return nil
}

func (s *GormStore) ListActiveSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	var subs []model.Subscription
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Find(&subs)
	if result.Error != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", result.Error)
	}
	return subs, nil
}

func (s *GormStore) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var subs []model.Subscription
	result := s.db.WithContext(ctx).Order("created_at DESC").Find(&subs)
	if result.Error != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", result.Error)
	}
	return subs, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &user, nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	if result := s.db.WithContext(ctx).Create(user); result.Error != nil {
		return fmt.Errorf("creating user: %w", result.Error)
	}
	return nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	result := s.db.WithContext(ctx).Order("created_at DESC").Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("listing users: %w", result.Error)
	}
	return users, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

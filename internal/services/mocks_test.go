package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/course-service/internal/cache"
	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
	"github.com/stretchr/testify/mock"
)

// ===== REPOSITORY MOCKS =====

type mockRepository struct {
	question       *mockQuestionRepository
	courseSettings *mockCourseSettingsRepository
	user           *mockUserRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		question:       &mockQuestionRepository{},
		courseSettings: &mockCourseSettingsRepository{},
		user:           &mockUserRepository{},
	}
}

func (m *mockRepository) Question() repositories.QuestionRepository { return m.question }
func (m *mockRepository) CourseSettings() repositories.CourseSettingsRepository {
	return m.courseSettings
}
func (m *mockRepository) User() repositories.UserRepository { return m.user }

type mockQuestionRepository struct {
	mock.Mock
}

func (m *mockQuestionRepository) Create(ctx context.Context, question *models.QuestionRecord) error {
	args := m.Called(ctx, question)
	if question.ID == "" {
		question.ID = "q-generated"
	}
	return args.Error(0)
}

func (m *mockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.QuestionRecord) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

type mockCourseSettingsRepository struct {
	mock.Mock
}

func (m *mockCourseSettingsRepository) Create(ctx context.Context, settings *models.CourseSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *mockCourseSettingsRepository) GetByCourseVersion(ctx context.Context, courseID, versionID string) (*models.CourseSettings, error) {
	args := m.Called(ctx, courseID, versionID)
	settings, _ := args.Get(0).(*models.CourseSettings)
	return settings, args.Error(1)
}

func (m *mockCourseSettingsRepository) UpdateDetectors(ctx context.Context, courseID, versionID string, detectors []models.DetectorSettings) (bool, error) {
	args := m.Called(ctx, courseID, versionID, detectors)
	return args.Bool(0), args.Error(1)
}

func (m *mockCourseSettingsRepository) RemoveDetector(ctx context.Context, courseID, versionID string, name models.DetectorName) (bool, error) {
	args := m.Called(ctx, courseID, versionID, name)
	return args.Bool(0), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	args := m.Called(ctx, firebaseUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) UpdateName(ctx context.Context, firebaseUID, firstName, lastName string) (*models.User, error) {
	args := m.Called(ctx, firebaseUID, firstName, lastName)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// ===== CACHE FAKE =====

// memoryCache stores JSON like the redis cache so round trips behave the same
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet != nil {
		return c.failGet
	}
	payload, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// ===== HELPERS =====

type testEnv struct {
	repo      *mockRepository
	cache     *memoryCache
	publisher *events.MockEventPublisher
	deps      Dependencies
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		repo:      newMockRepository(),
		cache:     newMemoryCache(),
		publisher: events.NewMockEventPublisher(logger),
	}
	env.deps = Dependencies{
		Repo:             env.repo,
		Cache:            env.cache,
		CacheTTL:         time.Minute,
		CacheRepairDelay: 20 * time.Millisecond,
		Publisher:        env.publisher,
		Validator:        validator.New(),
		Logger:           logger,
	}
	return env
}

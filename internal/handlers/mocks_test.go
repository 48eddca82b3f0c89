package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/middleware"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/SAP-F-2025/course-service/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// ===== SERVICE MOCKS =====

type mockImportService struct {
	mock.Mock
}

func (m *mockImportService) ImportQuestions(ctx context.Context, file io.Reader, filename, userID string) (*services.ImportResult, error) {
	args := m.Called(ctx, filename, userID)
	result, _ := args.Get(0).(*services.ImportResult)
	return result, args.Error(1)
}

func (m *mockImportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, userID string) (*services.ImportResult, error) {
	return m.ImportQuestions(ctx, reader, "upload.csv", userID)
}

func (m *mockImportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, userID string) (*services.ImportResult, error) {
	return m.ImportQuestions(ctx, reader, "upload.xlsx", userID)
}

type mockCourseSettingsService struct {
	mock.Mock
}

func (m *mockCourseSettingsService) Create(ctx context.Context, body *services.CreateCourseSettingsBody) (*models.CourseSettings, error) {
	args := m.Called(ctx, body)
	settings, _ := args.Get(0).(*models.CourseSettings)
	return settings, args.Error(1)
}

func (m *mockCourseSettingsService) Get(ctx context.Context, params *services.ReadCourseSettingsParams) (*models.CourseSettings, error) {
	args := m.Called(ctx, params)
	settings, _ := args.Get(0).(*models.CourseSettings)
	return settings, args.Error(1)
}

func (m *mockCourseSettingsService) UpdateProctoring(ctx context.Context, params *services.AddCourseProctoringParams, body *services.AddCourseProctoringBody) (bool, error) {
	args := m.Called(ctx, params, body)
	return args.Bool(0), args.Error(1)
}

func (m *mockCourseSettingsService) RemoveProctoring(ctx context.Context, params *services.RemoveCourseProctoringParams, body *services.RemoveCourseProctoringBody) (bool, error) {
	args := m.Called(ctx, params, body)
	return args.Bool(0), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetByFirebaseUID(ctx context.Context, params *services.GetUserParams) (*services.GetUserResponse, error) {
	args := m.Called(ctx, params)
	user, _ := args.Get(0).(*services.GetUserResponse)
	return user, args.Error(1)
}

func (m *mockUserService) UpdateName(ctx context.Context, caller services.Caller, params *services.GetUserParams, body *services.EditUserBody) (*services.GetUserResponse, error) {
	args := m.Called(ctx, caller, params, body)
	user, _ := args.Get(0).(*services.GetUserResponse)
	return user, args.Error(1)
}

// ===== REPOSITORY MOCK =====

// questionRepository backs the real question service so validation runs end to end
type questionRepository struct {
	mock.Mock
}

func (m *questionRepository) Create(ctx context.Context, question *models.QuestionRecord) error {
	return m.Called(ctx, question).Error(0)
}

func (m *questionRepository) CreateBatch(ctx context.Context, questions []*models.QuestionRecord) error {
	return m.Called(ctx, questions).Error(0)
}

type repository struct {
	question *questionRepository
}

func (r *repository) Question() repositories.QuestionRepository             { return r.question }
func (r *repository) CourseSettings() repositories.CourseSettingsRepository { return nil }
func (r *repository) User() repositories.UserRepository                     { return nil }

type serviceManager struct {
	question       services.QuestionService
	importer       *mockImportService
	courseSettings *mockCourseSettingsService
	user           *mockUserService
}

func (m *serviceManager) Question() services.QuestionService             { return m.question }
func (m *serviceManager) Import() services.ImportService                 { return m.importer }
func (m *serviceManager) CourseSettings() services.CourseSettingsService { return m.courseSettings }
func (m *serviceManager) User() services.UserService                     { return m.user }

// ===== HELPERS =====

type testServer struct {
	router    *gin.Engine
	questions *questionRepository
	publisher *events.MockEventPublisher
	manager   *serviceManager
}

func newTestServer(t *testing.T, features config.FeatureConfig) *testServer {
	t.Helper()

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	questions := &questionRepository{}
	publisher := events.NewMockEventPublisher(slogger)

	manager := &serviceManager{
		question: services.NewQuestionService(services.Dependencies{
			Repo:      &repository{question: questions},
			Publisher: publisher,
			Validator: validator.New(),
			Logger:    slogger,
		}),
		importer:       &mockImportService{},
		courseSettings: &mockCourseSettingsService{},
		user:           &mockUserService{},
	}

	hm := NewHandlerManager(manager, middleware.NewJWTAuthenticator(testSecret), features, utils.NewNopLogger())

	t.Cleanup(func() {
		questions.AssertExpectations(t)
		manager.importer.AssertExpectations(t)
		manager.courseSettings.AssertExpectations(t)
		manager.user.AssertExpectations(t)
	})

	return &testServer{
		router:    hm.NewRouter([]string{"*"}),
		questions: questions,
		publisher: publisher,
		manager:   manager,
	}
}

func tokenFor(t *testing.T, userID string, roles ...models.UserRole) string {
	t.Helper()

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}

	token, err := middleware.NewJWTAuthenticator(testSecret).Sign(middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: names,
	})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

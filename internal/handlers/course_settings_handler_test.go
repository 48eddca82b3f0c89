package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateCourseSettings(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})

	srv.manager.courseSettings.On("Create", mock.Anything, mock.MatchedBy(func(b *services.CreateCourseSettingsBody) bool {
		return b.CourseID == "course-1" && b.VersionID == "v1"
	})).Return(models.NewCourseSettings("course-1", "v1", nil), nil).Once()

	w := srv.do(jsonRequest(http.MethodPost, "/settings/courses", `{"courseId":"course-1","versionId":"v1"}`),
		tokenFor(t, "u1", models.RoleStudent))

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.CourseSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "course-1", created.CourseID)
	assert.Equal(t, "v1", created.VersionID)
	assert.Empty(t, created.Detectors())
}

func TestCreateCourseSettings_Conflict(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})

	srv.manager.courseSettings.On("Create", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: course-1/v1", services.ErrCourseSettingsExists)).Once()

	w := srv.do(jsonRequest(http.MethodPost, "/settings/courses", `{"courseId":"course-1","versionId":"v1"}`),
		tokenFor(t, "u1"))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCourseSettings(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})
	token := tokenFor(t, "u1")

	t.Run("missing pair returns null", func(t *testing.T) {
		srv.manager.courseSettings.On("Get", mock.Anything, &services.ReadCourseSettingsParams{CourseID: "none", VersionID: "v9"}).
			Return(nil, nil).Once()

		w := srv.do(httptest.NewRequest(http.MethodGet, "/settings/courses/none/v9", nil), token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})

	t.Run("existing pair", func(t *testing.T) {
		settings := models.NewCourseSettings("c1", "v1", []models.DetectorSettings{
			{DetectorName: models.BlurDetector, Settings: models.DetectorOptions{Enabled: true}},
		})
		srv.manager.courseSettings.On("Get", mock.Anything, &services.ReadCourseSettingsParams{CourseID: "c1", VersionID: "v1"}).
			Return(settings, nil).Once()

		w := srv.do(httptest.NewRequest(http.MethodGet, "/settings/courses/c1/v1", nil), token)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"detectorName":"blurDetector"`)
	})

	t.Run("unexpected failure", func(t *testing.T) {
		srv.manager.courseSettings.On("Get", mock.Anything, &services.ReadCourseSettingsParams{CourseID: "c2", VersionID: "v1"}).
			Return(nil, errors.New("connection reset")).Once()

		w := srv.do(httptest.NewRequest(http.MethodGet, "/settings/courses/c2/v1", nil), token)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestUpdateCourseProctoring(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})
	token := tokenFor(t, "u1")
	body := `{"detectors":[{"detectorName":"faceCountDetector","settings":{"enabled":true}}]}`

	srv.manager.courseSettings.On("UpdateProctoring", mock.Anything,
		&services.AddCourseProctoringParams{CourseID: "c1", VersionID: "v1"},
		mock.MatchedBy(func(b *services.AddCourseProctoringBody) bool {
			return len(b.Detectors) == 1 && b.Detectors[0].DetectorName == models.FaceCountDetector
		})).Return(true, nil).Once()
	srv.manager.courseSettings.On("UpdateProctoring", mock.Anything,
		&services.AddCourseProctoringParams{CourseID: "c9", VersionID: "v1"}, mock.Anything).Return(false, nil).Once()

	w := srv.do(jsonRequest(http.MethodPut, "/settings/courses/c1/v1/proctoring", body), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = srv.do(jsonRequest(http.MethodPut, "/settings/courses/c9/v1/proctoring", body), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false}`, w.Body.String())
}

func TestUpdateCourseProctoring_Invalid(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})

	srv.manager.courseSettings.On("UpdateProctoring", mock.Anything, mock.Anything, mock.Anything).
		Return(false, services.ValidationErrors{{Field: "detectors[0].detectorName", Message: "must be a valid detector name"}}).Once()

	w := srv.do(jsonRequest(http.MethodPut, "/settings/courses/c1/v1/proctoring", `{"detectors":[{"detectorName":"eyeTracker"}]}`),
		tokenFor(t, "u1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be a valid detector name")
}

func TestRemoveCourseProctoring_FeatureFlag(t *testing.T) {
	body := `{"detectorName":"blurDetector"}`

	t.Run("disabled", func(t *testing.T) {
		srv := newTestServer(t, config.FeatureConfig{})
		w := srv.do(jsonRequest(http.MethodDelete, "/settings/courses/c1/v1/proctoring", body), tokenFor(t, "u1"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		srv := newTestServer(t, config.FeatureConfig{ProctoringRemoval: true})
		srv.manager.courseSettings.On("RemoveProctoring", mock.Anything,
			&services.RemoveCourseProctoringParams{CourseID: "c1", VersionID: "v1"},
			&services.RemoveCourseProctoringBody{DetectorName: models.BlurDetector}).Return(true, nil).Once()

		w := srv.do(jsonRequest(http.MethodDelete, "/settings/courses/c1/v1/proctoring", body), tokenFor(t, "u1"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})
}

func TestCourseSettings_RequiresAuthentication(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})
	w := srv.do(httptest.NewRequest(http.MethodGet, "/settings/courses/c1/v1", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

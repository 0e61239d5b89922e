package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/client/mocks"
	"prelanding-studio/internal/handler"
	"prelanding-studio/internal/models"
	"prelanding-studio/internal/notify"
	"prelanding-studio/internal/scenario"
	"prelanding-studio/internal/session"
	"prelanding-studio/internal/store"
	"prelanding-studio/internal/workspace"
)

type HandlerSuite struct {
	suite.Suite
	api      *mocks.StudioClient
	registry *workspace.Registry
	router   *gin.Engine
	cookie   *http.Cookie
}

func (s *HandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.api = new(mocks.StudioClient)
	mgr := scenario.NewManager(s.api, zap.NewNop())
	s.registry = workspace.NewRegistry(s.api, mgr, store.NewMemoryStore(), time.Hour, zap.NewNop())
	h := handler.NewStudioHandler(s.registry, mgr, notify.NewHub(zap.NewNop()), notify.NewUpgrader(nil), handler.Options{}, zap.NewNop())

	s.router = gin.New()
	h.RegisterRoutes(s.router, nil)
	s.cookie = nil
}

func (s *HandlerSuite) TearDownTest() {
	s.registry.Close()
}

// do выполняет запрос, сохраняя cookie рабочего пространства между вызовами.
func (s *HandlerSuite) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == handler.SessionCookie {
			s.cookie = c
		}
	}
	return w
}

func (s *HandlerSuite) doJSON(method, path string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(data)
	}
	return s.do(method, path, body, "application/json")
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
}

func (s *HandlerSuite) errorResponse(w *httptest.ResponseRecorder) handler.ErrorResponse {
	var resp handler.ErrorResponse
	s.decode(w, &resp)
	return resp
}

func (s *HandlerSuite) setOffer(offer string) {
	w := s.doJSON(http.MethodPut, "/api/session/config", map[string]any{"offer": offer})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlerSuite) TestSessionCookieReusesWorkspace() {
	w := s.do(http.MethodGet, "/api/session", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Require().NotNil(s.cookie)

	var st session.State
	s.decode(w, &st)
	s.Equal(session.PhaseIdle, st.Phase)
	s.Equal(models.Geo("DE"), st.Config.Geo)

	s.do(http.MethodGet, "/api/session", nil, "")
	s.Equal(1, s.registry.Len())
}

func (s *HandlerSuite) TestOptions() {
	w := s.do(http.MethodGet, "/api/options", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"FR"`)
	s.Nil(s.cookie)
}

func (s *HandlerSuite) TestUpdateConfigSnapsAndValidates() {
	w := s.doJSON(http.MethodPut, "/api/session/config", map[string]any{"target_length": 823, "geo": "FR"})
	s.Require().Equal(http.StatusOK, w.Code)
	var st session.State
	s.decode(w, &st)
	s.Equal(800, st.Config.TargetLength)
	s.Equal(models.Geo("FR"), st.Config.Geo)
	s.Equal(models.Language("de"), st.Config.Language)

	w = s.doJSON(http.MethodPut, "/api/session/config", map[string]any{"geo": "ZZ"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodPut, "/api/session/config", bytes.NewBufferString("{"), "application/json")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestGenerateBlankOffer() {
	w := s.doJSON(http.MethodPost, "/api/session/generate", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("Введите оффер", s.errorResponse(w).Message)
	s.api.AssertNotCalled(s.T(), "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerSuite) TestGenerateSuccess() {
	s.setOffer("Bitcoin Pro")
	text := "Hallo Welt"
	s.api.On("Generate", mock.Anything, client.EndpointFlat, mock.Anything).
		Return(&client.RawGeneration{GenID: "g1", GeneratedText: &text, CompliancePassed: true}, nil).Once()

	w := s.doJSON(http.MethodPost, "/api/session/generate", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var st session.State
	s.decode(w, &st)
	s.Equal(session.PhaseSuccess, st.Phase)
	s.Require().NotNil(st.Result)
	s.Equal("g1", st.Result.GenerationID)
	s.Equal("Hallo Welt", st.Result.DisplayText())
	s.api.AssertExpectations(s.T())
}

func (s *HandlerSuite) TestGenerateServiceErrorShowsDetail() {
	s.setOffer("Bitcoin Pro")
	s.api.On("Generate", mock.Anything, client.EndpointFlat, mock.Anything).
		Return(nil, &client.APIError{StatusCode: 400, Detail: "Scenario not found"}).Once()

	w := s.doJSON(http.MethodPost, "/api/session/generate", nil)
	s.Equal(http.StatusBadGateway, w.Code)
	s.Equal("Scenario not found", s.errorResponse(w).Message)

	w = s.do(http.MethodGet, "/api/session", nil, "")
	var st session.State
	s.decode(w, &st)
	s.Equal(session.PhaseFailed, st.Phase)
	s.Equal("Scenario not found", st.Message)
}

func (s *HandlerSuite) TestGenerateTransportErrorUsesFallback() {
	s.setOffer("Bitcoin Pro")
	s.api.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, models.ErrServiceUnavailable).Once()

	w := s.doJSON(http.MethodPost, "/api/session/generate", nil)
	s.Equal(http.StatusBadGateway, w.Code)
	s.Equal(session.FallbackGenerationMessage, s.errorResponse(w).Message)
}

func (s *HandlerSuite) TestExport() {
	w := s.doJSON(http.MethodPost, "/api/session/export", map[string]string{"format": "html"})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.doJSON(http.MethodPost, "/api/session/export", map[string]string{"format": "pdf"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	s.setOffer("Bitcoin Pro")
	text := "body"
	s.api.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&client.RawGeneration{GenID: "g7", GeneratedText: &text}, nil).Once()
	s.Require().Equal(http.StatusOK, s.doJSON(http.MethodPost, "/api/session/generate", nil).Code)

	s.api.On("Export", mock.Anything, "g7", "html").
		Return(&client.ExportPayload{Format: "html", ContentType: "text/html; charset=utf-8", Data: []byte("<p>body</p>")}, nil).Once()
	w = s.doJSON(http.MethodPost, "/api/session/export", map[string]string{"format": "HTML"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(`attachment; filename="prelanding_g7.html"`, w.Header().Get("Content-Disposition"))
	s.Equal("<p>body</p>", w.Body.String())

	s.api.On("Export", mock.Anything, "g7", "text").
		Return(nil, &client.APIError{StatusCode: 500}).Once()
	w = s.doJSON(http.MethodPost, "/api/session/export", map[string]string{"format": "text"})
	s.Equal(http.StatusBadGateway, w.Code)
	s.Equal(session.FallbackExportMessage, s.errorResponse(w).Message)

	// Ошибка экспорта не трогает результат
	var st session.State
	s.decode(s.do(http.MethodGet, "/api/session", nil, ""), &st)
	s.Require().NotNil(st.Result)
	s.Equal("g7", st.Result.GenerationID)
}

func (s *HandlerSuite) TestScenarioDeleteRequiresConfirm() {
	w := s.do(http.MethodDelete, "/api/scenarios/3", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(handler.ErrCodeCancelled, s.errorResponse(w).Code)
	s.api.AssertNotCalled(s.T(), "DeleteScenario", mock.Anything, mock.Anything)

	s.api.On("DeleteScenario", mock.Anything, int64(3)).Return(nil).Once()
	s.api.On("ListScenarios", mock.Anything).Return([]models.Scenario{{ID: 1, Name: "a"}}, nil).Once()
	w = s.do(http.MethodDelete, "/api/scenarios/3?confirm=true", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"scenarios":[{"id":1`)
	s.api.AssertExpectations(s.T())

	w = s.do(http.MethodDelete, "/api/scenarios/abc?confirm=true", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestScenarioCreateValidation() {
	w := s.doJSON(http.MethodPost, "/api/scenarios", map[string]string{"name": "only name"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.api.AssertNotCalled(s.T(), "CreateScenario", mock.Anything, mock.Anything)
}

func (s *HandlerSuite) TestScenarioCreatePropagatesToSession() {
	draft := map[string]string{
		"name":               "story",
		"name_ru":            "История",
		"beginning_template": "b",
		"middle_template":    "m",
		"end_template":       "e",
	}
	created := &models.Scenario{ID: 5, Name: "story"}
	s.api.On("CreateScenario", mock.Anything, mock.Anything).Return(created, nil).Once()
	s.api.On("ListScenarios", mock.Anything).Return([]models.Scenario{*created}, nil).Once()

	// Рабочее пространство создаётся до изменения списка и получает уведомление
	s.do(http.MethodGet, "/api/session", nil, "")
	w := s.doJSON(http.MethodPost, "/api/scenarios", draft)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var st session.State
	s.decode(s.do(http.MethodGet, "/api/session", nil, ""), &st)
	s.Require().Len(st.Scenarios, 1)
	s.Equal(int64(5), st.Scenarios[0].ID)
}

func multipartFile(name string, data []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, _ := mw.CreateFormFile("file", name)
	_, _ = part.Write(data)
	_ = mw.Close()
	return body, mw.FormDataContentType()
}

func (s *HandlerSuite) TestUploadRejectsNonArchive() {
	body, ct := multipartFile("deck.rar", []byte("rar"))
	w := s.do(http.MethodPost, "/api/library/upload", body, ct)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("Только ZIP файлы!", s.errorResponse(w).Message)
	s.api.AssertNotCalled(s.T(), "UploadZip", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerSuite) TestUploadArchive() {
	s.api.On("UploadZip", mock.Anything, "DECK.ZIP", mock.Anything).
		Return(&models.UploadSummary{Success: true, PrelandingID: "p1", Name: "Deck", VerticalDetected: "crypto"}, nil).Once()
	s.api.On("ListPrelandings", mock.Anything, "").
		Return([]models.CatalogEntry{{ID: "p1", Name: models.StringPtr("Deck"), Geo: "DE", Language: "de", Vertical: "crypto"}}, nil).Once()

	body, ct := multipartFile("DECK.ZIP", []byte("PK"))
	w := s.do(http.MethodPost, "/api/library/upload", body, ct)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Body.String(), "✓ Deck загружен! Категория: crypto")
	s.Contains(w.Body.String(), `"total_count":1`)
}

func (s *HandlerSuite) TestLibraryFiltersResetPage() {
	entries := make([]models.CatalogEntry, 0, 20)
	for i := 0; i < 20; i++ {
		geo := "DE"
		if i%2 == 0 {
			geo = "FR"
		}
		entries = append(entries, models.CatalogEntry{ID: string(rune('a' + i)), Geo: geo, Language: "de", Vertical: "crypto"})
	}
	s.api.On("ListPrelandings", mock.Anything, "").Return(entries, nil).Once()

	var v struct {
		Page          int `json:"page"`
		TotalPages    int `json:"total_pages"`
		FilteredCount int `json:"filtered_count"`
	}
	s.decode(s.do(http.MethodGet, "/api/library?page=2", nil, ""), &v)
	s.Equal(2, v.Page)
	s.Equal(3, v.TotalPages)

	s.decode(s.do(http.MethodGet, "/api/library?geo=FR&page=2", nil, ""), &v)
	s.Equal(1, v.Page)
	s.Equal(10, v.FilteredCount)

	s.decode(s.do(http.MethodGet, "/api/library?geo=FR&page=2", nil, ""), &v)
	s.Equal(2, v.Page)
	s.api.AssertNumberOfCalls(s.T(), "ListPrelandings", 1)
}

func (s *HandlerSuite) TestDeletePrelandingRequiresConfirm() {
	w := s.do(http.MethodDelete, "/api/library/p1", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)

	s.api.On("DeletePrelanding", mock.Anything, "p1").Return(nil).Once()
	s.api.On("ListPrelandings", mock.Anything, "").Return([]models.CatalogEntry{}, nil).Once()
	w = s.do(http.MethodDelete, "/api/library/p1?confirm=true&name=Deck", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.api.AssertExpectations(s.T())
}

func (s *HandlerSuite) TestTopPrelandings() {
	s.api.On("TopPrelandings", mock.Anything, models.TopQuery{Metric: "ctr", Geo: "DE", Limit: 5}).
		Return([]models.CatalogEntry{{ID: "p9"}}, nil).Once()
	w := s.do(http.MethodGet, "/api/library/top/ctr?geo=DE&limit=5", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"p9"`)

	w = s.do(http.MethodGet, "/api/library/top/ctr?limit=-1", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestGenerateNames() {
	w := s.doJSON(http.MethodPost, "/api/generators/names", models.NameRequest{Geo: "DE", Gender: "random", Count: 0})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	s.api.On("GenerateNames", mock.Anything, mock.Anything).
		Return([]models.NameRecord{{FirstName: "Anna", LastName: "Schmidt", Gender: "female"}}, nil).Once()
	w = s.doJSON(http.MethodPost, "/api/generators/names", models.NameRequest{Geo: "DE", Gender: "random", Count: 1})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Body.String(), `"clipboard":"Anna Schmidt [female]"`)
}

func (s *HandlerSuite) TestGenerateReviewsServiceError() {
	s.api.On("GenerateReviews", mock.Anything, mock.Anything).
		Return(nil, &client.APIError{StatusCode: 503}).Once()
	w := s.doJSON(http.MethodPost, "/api/generators/reviews",
		models.ReviewRequest{Geo: "DE", Language: "de", Vertical: "crypto", Length: "medium", Count: 3})
	s.Equal(http.StatusBadGateway, w.Code)
	s.Contains(s.errorResponse(w).Message, "Ошибка генерации отзывов")
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func TestGenerateRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := new(mocks.StudioClient)
	mgr := scenario.NewManager(api, zap.NewNop())
	reg := workspace.NewRegistry(api, mgr, store.NewMemoryStore(), time.Hour, zap.NewNop())
	defer reg.Close()
	h := handler.NewStudioHandler(reg, mgr, notify.NewHub(zap.NewNop()), notify.NewUpgrader(nil), handler.Options{}, zap.NewNop())

	r := gin.New()
	h.RegisterRoutes(r, func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/session/generate", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

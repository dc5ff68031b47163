package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/services"
)

// Заглушки сервисов: встроенный интерфейс паникует на неожиданных вызовах.

type stubTeamService struct {
	services.TeamService
	list   func(ctx context.Context, f repositories.ListTeamsFilter) ([]models.Team, error)
	get    func(ctx context.Context, id int) (*models.Team, error)
	create func(ctx context.Context, in services.CreateTeamInput) (*models.Team, error)
}

func (s *stubTeamService) ListTeams(ctx context.Context, f repositories.ListTeamsFilter) ([]models.Team, error) {
	return s.list(ctx, f)
}

func (s *stubTeamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	return s.get(ctx, id)
}

func (s *stubTeamService) CreateTeam(ctx context.Context, in services.CreateTeamInput) (*models.Team, error) {
	return s.create(ctx, in)
}

type stubImageService struct {
	services.ImageService
	uploads []services.UploadImageInput
	err     error
}

func (s *stubImageService) Upload(_ context.Context, in services.UploadImageInput) (*services.UploadedImage, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.uploads = append(s.uploads, in)
	path := in.FileName + ".png"
	return &services.UploadedImage{Bucket: in.Bucket, Path: path, URL: "https://cdn.test/" + in.Bucket + "/" + path}, nil
}

type stubAuthService struct {
	services.AuthService
	user *models.StaffUser
	err  error
}

func (s *stubAuthService) Login(context.Context, services.LoginInput) (*models.StaffUser, error) {
	return s.user, s.err
}

type stubStageService struct {
	services.StageService
	saved *services.SaveStagesInput
	err   error
}

func (s *stubStageService) SaveStages(_ context.Context, _ int, in services.SaveStagesInput) (*services.SaveStagesResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = &in
	return &services.SaveStagesResult{Summary: models.FormatSummary{TotalStages: len(in.Stages)}}, nil
}

type stubMatchService struct {
	services.MatchService
	filter repositories.ListMatchesFilter
}

func (s *stubMatchService) ListMatches(_ context.Context, f repositories.ListMatchesFilter) ([]models.Match, error) {
	s.filter = f
	return []models.Match{}, nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("get team: %w", services.ErrTeamNotFound), http.StatusNotFound},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrStatisticNotFound, http.StatusNotFound},
		{services.ErrTeamCodeConflict, http.StatusConflict},
		{services.ErrTeamInUse, http.StatusConflict},
		{services.ErrSeedConflict, http.StatusConflict},
		{services.ErrImageExists, http.StatusConflict},
		{fmt.Errorf("%w: name is required", services.ErrValidationFailed), http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{services.ErrStorageNotConfigured, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(rec, req, tc.err)

			assert.Equal(t, tc.code, rec.Code)
			body := decodeBody(t, rec)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestServerErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestReadJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
		err := readJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		err := readJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("two values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
		err := readJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err)
	})

	t.Run("ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ONIC"}`))
		require.NoError(t, readJSON(httptest.NewRecorder(), req, &dst))
		assert.Equal(t, "ONIC", dst.Name)
	})
}

func TestGetIDFromURL(t *testing.T) {
	r := chi.NewRouter()
	var got int
	var gotErr error
	r.Get("/teams/{teamID}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = getIDFromURL(r, "teamID")
	})

	for path, want := range map[string]int{"/teams/7": 7, "/teams/0": 0, "/teams/abc": 0, "/teams/-3": 0} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		if want == 0 {
			assert.Error(t, gotErr, path)
		} else {
			require.NoError(t, gotErr, path)
			assert.Equal(t, want, got)
		}
	}
}

func TestTeamHandler_ListTeamsPassesFilter(t *testing.T) {
	var seen repositories.ListTeamsFilter
	ts := &stubTeamService{list: func(_ context.Context, f repositories.ListTeamsFilter) ([]models.Team, error) {
		seen = f
		return []models.Team{{ID: 1, TeamName: "RRQ Hoshi", TeamCode: "RRQ"}}, nil
	}}
	h := NewTeamHandler(ts, nil)

	rec := httptest.NewRecorder()
	h.ListTeams(rec, httptest.NewRequest(http.MethodGet, "/teams?region=ID&q=%20rrq%20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen.Region)
	assert.Equal(t, "ID", *seen.Region)
	require.NotNil(t, seen.Query)
	assert.Equal(t, "rrq", *seen.Query)

	body := decodeBody(t, rec)
	assert.Len(t, body["teams"], 1)
}

func TestTeamHandler_GetTeamNotFound(t *testing.T) {
	ts := &stubTeamService{get: func(context.Context, int) (*models.Team, error) {
		return nil, services.ErrTeamNotFound
	}}
	r := chi.NewRouter()
	r.Get("/teams/{teamID}", NewTeamHandler(ts, nil).GetTeam)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teams/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "team not found", decodeBody(t, rec)["error"])
}

func TestTeamHandler_CreateTeam(t *testing.T) {
	ts := &stubTeamService{create: func(_ context.Context, in services.CreateTeamInput) (*models.Team, error) {
		if in.TeamCode == "EVOS" {
			return nil, services.ErrTeamCodeConflict
		}
		return &models.Team{ID: 3, TeamName: in.TeamName, TeamCode: in.TeamCode}, nil
	}}
	h := NewTeamHandler(ts, nil)

	rec := httptest.NewRecorder()
	h.CreateTeam(rec, httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"team_name":"Blacklist","team_code":"BLCK"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateTeam(rec, httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"team_name":"Evos","team_code":"EVOS"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateTeam(rec, httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"team_name":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartRequest(t *testing.T, url string, fields map[string]string, fileField, fileName string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, fileName)}
		h["Content-Type"] = []string{"image/png"}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestImageHandler_UploadImage(t *testing.T) {
	is := &stubImageService{}
	h := NewImageHandler(is)

	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/upload-image", map[string]string{"bucket": "team-logos", "fileName": "onic"}, "file", "logo.png", pngHeader)
	h.UploadImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "onic.png", body["path"])
	assert.Equal(t, "https://cdn.test/team-logos/onic.png", body["url"])
	require.Len(t, is.uploads, 1)
	assert.Equal(t, "image/png", is.uploads[0].File.ContentType)
	assert.Equal(t, "logo.png", is.uploads[0].File.Filename)
}

func TestImageHandler_UploadImageMissingFields(t *testing.T) {
	is := &stubImageService{}
	h := NewImageHandler(is)

	rec := httptest.NewRecorder()
	h.UploadImage(rec, multipartRequest(t, "/api/upload-image", map[string]string{"bucket": "team-logos"}, "file", "logo.png", pngHeader))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.UploadImage(rec, multipartRequest(t, "/api/upload-image", map[string]string{"bucket": "team-logos", "fileName": "x"}, "", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, is.uploads)
}

func TestImageHandler_UploadImageStorageErrors(t *testing.T) {
	for err, code := range map[error]int{
		services.ErrImageExists:          http.StatusConflict,
		services.ErrStorageNotConfigured: http.StatusServiceUnavailable,
		errors.New("s3: timeout"):        http.StatusInternalServerError,
	} {
		h := NewImageHandler(&stubImageService{err: err})
		rec := httptest.NewRecorder()
		h.UploadImage(rec, multipartRequest(t, "/api/upload-image", map[string]string{"bucket": "hero-images", "fileName": "ling"}, "file", "ling.png", pngHeader))
		assert.Equal(t, code, rec.Code, err.Error())
	}
}

func TestAuthHandler_LoginIssuesToken(t *testing.T) {
	auth := &stubAuthService{user: &models.StaffUser{ID: 9, Email: "admin@arenarium.gg", Role: models.RoleEditor}}
	h := NewAuthHandler(auth, "secret")
	issued := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return issued }

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@arenarium.gg","password":"hunter22"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	tokenString, ok := body["token"].(string)
	require.True(t, ok)

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, float64(9), claims["user_id"])
	assert.Equal(t, "editor", claims["role"])
	assert.Equal(t, float64(issued.Add(24*time.Hour).Unix()), claims["exp"])
}

func TestAuthHandler_LoginRejects(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: services.ErrInvalidCredentials}, "secret")

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.c","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.c"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStageHandler_SaveStages(t *testing.T) {
	ss := &stubStageService{}
	r := chi.NewRouter()
	r.Put("/tournaments/{tournamentID}/stages", NewStageHandler(ss, nil).SaveStages)

	payload := `{"stages":[{"stage_name":"Playoffs","stage_order":1,"format_type":"Single Elimination","format_config":{"teams_count":8}}]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/tournaments/4/stages", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, ss.saved)
	require.Len(t, ss.saved.Stages, 1)
	assert.Equal(t, "Playoffs", ss.saved.Stages[0].Name)
}

func TestStageHandler_SaveStagesValidation(t *testing.T) {
	ss := &stubStageService{err: fmt.Errorf("%w: at least one stage is required", services.ErrValidationFailed)}
	r := chi.NewRouter()
	r.Put("/tournaments/{tournamentID}/stages", NewStageHandler(ss, nil).SaveStages)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/tournaments/4/stages", strings.NewReader(`{"stages":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchHandler_ListMatchesQuery(t *testing.T) {
	ms := &stubMatchService{}
	h := NewMatchHandler(ms, nil)

	rec := httptest.NewRecorder()
	h.ListMatches(rec, httptest.NewRequest(http.MethodGet, "/matches?status=live&tournament_id=12", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ms.filter.Status)
	assert.Equal(t, models.MatchStatus("live"), *ms.filter.Status)
	require.NotNil(t, ms.filter.TournamentID)
	assert.Equal(t, 12, *ms.filter.TournamentID)
	assert.Nil(t, ms.filter.StageID)

	rec = httptest.NewRecorder()
	h.ListMatches(rec, httptest.NewRequest(http.MethodGet, "/matches?tournament_id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebSocketHandler_UnknownRoom(t *testing.T) {
	hub := brackets.NewHub(nil)
	r := chi.NewRouter()
	r.Get("/ws/{room}", NewWebSocketHandler(hub, nil).ServeWs)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/lobby", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

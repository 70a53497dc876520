package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sirdesai22/registration-dashboard/internal/export"
	"github.com/sirdesai22/registration-dashboard/internal/logger"
	"github.com/sirdesai22/registration-dashboard/internal/models"
	"github.com/sirdesai22/registration-dashboard/internal/services"
	"github.com/sirdesai22/registration-dashboard/internal/store"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T, svc Registrations, opts ...Option) http.Handler {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	return NewRouter(logger.Discard(), nil, NewRegistrationHandler(svc, opts...))
}

func newService() *services.RegistrationService {
	return services.NewRegistrationService(store.NewMemoryStore(), services.WithLogger(logger.Discard()))
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

const annJSON = `{"name":"Ann","email":"ann@x.com","course":"B.Tech","branch":"CSE","college":"PESU","contact":"1","event":"Hack"}`

func TestCreateListGetUpdateDelete(t *testing.T) {
	h := newTestServer(t, newService())

	rec, resp := do(t, h, http.MethodPost, "/api/registrations", annJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, resp.Success)
	var created models.Registration
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "Ann", created.Name)

	rec, resp = do(t, h, http.MethodGet, "/api/registrations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var regs []models.Registration
	require.NoError(t, json.Unmarshal(resp.Data, &regs))
	require.Len(t, regs, 1)

	path := "/api/registrations/" + created.ID.String()
	rec, _ = do(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	updated := strings.Replace(annJSON, `"Hack"`, `"Quiz"`, 1)
	rec, resp = do(t, h, http.MethodPut, path, updated)
	require.Equal(t, http.StatusOK, rec.Code)
	var after models.Registration
	require.NoError(t, json.Unmarshal(resp.Data, &after))
	assert.Equal(t, "Quiz", after.Event)

	rec, resp = do(t, h, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{}`, string(resp.Data))

	rec, resp = do(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Not found", resp.Error)
}

func TestListEmptyIsArray(t *testing.T) {
	h := newTestServer(t, newService())
	rec, resp := do(t, h, http.MethodGet, "/api/registrations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(resp.Data))
}

func TestCreateErrors(t *testing.T) {
	h := newTestServer(t, newService())
	rec, _ := do(t, h, http.MethodPost, "/api/registrations", annJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	cases := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing field", `{"name":"Bo"}`, http.StatusBadRequest, "missing required fields: email, course, branch, college, contact, event"},
		{"duplicate email", strings.Replace(annJSON, `"Ann"`, `"Annie"`, 1), http.StatusConflict, services.ErrDuplicateEmail.Error()},
		{"malformed body", `{"name":`, http.StatusBadRequest, "bad request: invalid JSON body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := do(t, h, http.MethodPost, "/api/registrations", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.msg, resp.Error)
		})
	}
}

func TestMalformedAndUnknownIDs(t *testing.T) {
	h := newTestServer(t, newService())

	rec, _ := do(t, h, http.MethodDelete, "/api/registrations/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/api/registrations/"+uuid.NewString(), annJSON)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/registrations/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type brokenService struct{ Registrations }

func (brokenService) List(context.Context) ([]models.Registration, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	h := newTestServer(t, brokenService{})
	rec, resp := do(t, h, http.MethodGet, "/api/registrations", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", resp.Error)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestExportEndpoint(t *testing.T) {
	svc := newService()
	h := newTestServer(t, svc)

	rec, resp := do(t, h, http.MethodGet, "/api/registrations/export/xlsx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error, export.ErrNoRecords.Error())
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	_, err := svc.Create(context.Background(), models.RegistrationInput{
		Name: "Ann", Email: "ann@x.com", Course: "B.Tech", Branch: "CSE",
		College: "PESU", Contact: "1", Event: "Hack",
	})
	require.NoError(t, err)

	rec, _ = do(t, h, http.MethodGet, "/api/registrations/export/excel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="registrations.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rec, _ = do(t, h, http.MethodGet, "/api/registrations/export/csv", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

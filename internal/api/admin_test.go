package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sirdesai22/registration-dashboard/internal/logger"
	"github.com/sirdesai22/registration-dashboard/internal/workers"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return gdb, mock
}

type fakeRetrier struct {
	ids []int64
	err error
}

func (f *fakeRetrier) Retry(_ context.Context, id int64) error {
	f.ids = append(f.ids, id)
	return f.err
}

func newAdminServer(gdb *gorm.DB, r Retrier) http.Handler {
	return NewRouter(logger.Discard(), nil, NewAdminHandler(gdb, r, logger.Discard()))
}

func TestOutboxListing(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "outboxes" ORDER BY id desc LIMIT \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "entity_type", "entity_id", "op", "payload", "created_at", "processed"}).
			AddRow(2, "registration", "7d1f4c36-5d0e-4b7e-9b8e-3c8f0f8f8f01", "DELETE", nil, time.Now(), true))

	rec, resp := do(t, newAdminServer(gdb, nil), http.MethodGet, "/api/outbox", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"entity_type":"registration"`)
}

func TestDLQListingFailure(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "dlqs"`).WillReturnError(errors.New("relation missing"))

	rec, resp := do(t, newAdminServer(gdb, nil), http.MethodGet, "/api/dlq", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", resp.Error)
}

func TestHealth(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectPing()

	rec, _ := do(t, newAdminServer(gdb, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRetryRoute(t *testing.T) {
	gdb, _ := newMockDB(t)

	rec, _ := do(t, newAdminServer(gdb, nil), http.MethodPost, "/api/retry/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "retry is not mounted without a worker")

	r := &fakeRetrier{}
	h := newAdminServer(gdb, r)
	rec, resp := do(t, h, http.MethodPost, "/api/retry/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"retried"}`, string(resp.Data))
	assert.Equal(t, []int64{7}, r.ids)

	rec, _ = do(t, h, http.MethodPost, "/api/retry/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	r.err = workers.ErrDLQNotFound
	rec, _ = do(t, h, http.MethodPost, "/api/retry/8", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	r.err = errors.New("es down")
	rec, resp = do(t, h, http.MethodPost, "/api/retry/9", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "retry failed: es down", resp.Error)
}

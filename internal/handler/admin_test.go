package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatmate/seatmate/internal/model"
	"github.com/seatmate/seatmate/internal/repository"
	"github.com/seatmate/seatmate/internal/reset"
	"github.com/seatmate/seatmate/internal/utils"
)

func newAdminFixture(t *testing.T, adminPassword string) (*AdminHandler, *repository.MemStore) {
	t.Helper()
	store := repository.NewMemStore()
	hash, err := utils.HashSecret(adminPassword)
	require.NoError(t, err)
	return NewAdminHandler(reset.NewCoordinator(store, hash), adminPassword), store
}

func TestAdminResetAll(t *testing.T) {
	t.Run("wrong password answers 401 and changes nothing", func(t *testing.T) {
		h, store := newAdminFixture(t, "swordfish")
		ctx := context.Background()
		require.NoError(t, store.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 1, Gender: model.Male, Occupant: "u",
		}))

		rec := doJSON(t, h.ResetAll, http.MethodPost, "/v1/admin/reset", `{"password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rows, _ := store.ListAssignments(ctx, model.Male)
		assert.Len(t, rows, 1)
	})

	t.Run("correct password wipes the room", func(t *testing.T) {
		h, store := newAdminFixture(t, "swordfish")
		ctx := context.Background()
		require.NoError(t, store.InsertAssignment(ctx, &model.SeatAssignment{
			SeatNumber: 1, Gender: model.Female, Occupant: "u",
		}))

		rec := doJSON(t, h.ResetAll, http.MethodPost, "/v1/admin/reset", `{"password":"swordfish"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["reset_id"], "reset_")
		assert.NotEmpty(t, body["reset_timestamp"])

		rows, _ := store.ListAssignments(ctx, model.Female)
		assert.Empty(t, rows)
	})
}

func TestGetAdminPassword(t *testing.T) {
	t.Run("returns the configured password", func(t *testing.T) {
		h, _ := newAdminFixture(t, "swordfish")
		rec := doJSON(t, h.GetAdminPassword, http.MethodGet, "/v1/config/admin-password", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "swordfish", body["password"])
	})

	t.Run("missing configuration answers 500", func(t *testing.T) {
		h, _ := newAdminFixture(t, "swordfish")
		h.AdminPassword = ""
		rec := doJSON(t, h.GetAdminPassword, http.MethodGet, "/v1/config/admin-password", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("non-GET answers 405", func(t *testing.T) {
		h, _ := newAdminFixture(t, "swordfish")
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/v1/config/admin-password", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, h.GetAdminPassword(c))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestScheduledDailyReset(t *testing.T) {
	store := repository.NewMemStore()
	hash, err := utils.HashSecret("x")
	require.NoError(t, err)
	h := NewScheduledHandler(reset.NewCoordinator(store, hash), "Asia/Seoul")

	ctx := context.Background()
	require.NoError(t, store.InsertAssignment(ctx, &model.SeatAssignment{
		SeatNumber: 1, Gender: model.Male, Occupant: "u",
	}))

	rec := doJSON(t, h.DailyReset, http.MethodPost, "/v1/internal/daily-reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Asia/Seoul", body["timezone"])
	assert.NotEmpty(t, body["timestamp"])

	rows, _ := store.ListAssignments(ctx, model.Male)
	assert.Empty(t, rows)
}

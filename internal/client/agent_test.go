package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatmate/seatmate/internal/client/api"
	"github.com/seatmate/seatmate/internal/model"
)

func newAgentAgainst(t *testing.T, h http.HandlerFunc) *Agent {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	ls, _ := openTempStore(t)
	return NewAgent(api.New(srv.URL), ls)
}

func TestAgentClaimCachesOwnAssignment(t *testing.T) {
	a := newAgentAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"seat_number":2}`)
	})

	seat, err := a.Claim(context.Background(), model.Female, "")
	require.NoError(t, err)
	assert.Equal(t, 2, seat)

	entry, err := a.store.LoadCache()
	require.NoError(t, err)
	require.NotNil(t, entry.MyAssignment)
	assert.Equal(t, 2, entry.MyAssignment.SeatNumber)
	assert.Equal(t, model.Female, entry.MyAssignment.Gender)
	assert.Equal(t, a.Identity(), entry.MyAssignment.Occupant)
}

func TestAgentClaimAlreadyAssignedDoesNotCacheGuess(t *testing.T) {
	// The existing row lives in the male partition under another
	// browser's identity; the agent asked for female.  Caching the
	// requested partition and its own identity would record a row the
	// server never held, flip-flopping on every refresh.
	a := newAgentAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"seat_number":5,"already_assigned":true}`)
	})

	seat, err := a.Claim(context.Background(), model.Female, "20250001")
	require.NoError(t, err)
	assert.Equal(t, 5, seat, "existing seat number is still surfaced")

	entry, err := a.store.LoadCache()
	require.NoError(t, err)
	assert.Nil(t, entry.MyAssignment, "no assignment may be invented locally")
}

func TestAgentClaimSurfacesServerError(t *testing.T) {
	a := newAgentAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error":"no seats available"}`)
	})

	_, err := a.Claim(context.Background(), model.Male, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no seats available")

	entry, loadErr := a.store.LoadCache()
	require.NoError(t, loadErr)
	assert.Nil(t, entry.MyAssignment)
}

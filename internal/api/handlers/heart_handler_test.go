package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleHeart(t *testing.T) {
	env := newTestEnv(t)
	env.seedStores(1)

	toggle := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/stores/s1/heart", nil)
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec
	}

	// First toggle hearts the store
	rec := toggle()
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Hearts  []string `json:"hearts"`
		Hearted bool     `json:"hearted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Hearted)
	assert.Equal(t, []string{"s1"}, body.Hearts)

	// Second toggle removes it again
	rec = toggle()
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Hearted)
	assert.Empty(t, body.Hearts)
}

func TestToggleHeart_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.seedStores(1)

	t.Run("requires identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stores/s1/heart", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown store", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/stores/missing/heart", nil)
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

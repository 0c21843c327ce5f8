package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReview(t *testing.T) {
	env := newTestEnv(t)
	env.seedStores(1)

	t.Run("requires identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/stores/s1/reviews", strings.NewReader(`{"text":"good","rating":4}`))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("creates a review", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/stores/s1/reviews", strings.NewReader(`{"text":"good","rating":4}`))
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var review struct {
			Text   string `json:"text"`
			Rating int    `json:"rating"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
		assert.Equal(t, "good", review.Text)
		assert.Equal(t, 4, review.Rating)
	})

	t.Run("rating out of range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/stores/s1/reviews", strings.NewReader(`{"text":"bad","rating":9}`))
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListTags(t *testing.T) {
	env := newTestEnv(t)
	env.seedStores(3)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tags []struct {
			Tag   string `json:"tag"`
			Count int    `json:"count"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tags, 1)
	assert.Equal(t, "coffee", body.Tags[0].Tag)
	assert.Equal(t, 3, body.Tags[0].Count)
}

func TestStoresByTag(t *testing.T) {
	env := newTestEnv(t)
	env.seedStores(2)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags/coffee", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tag    string            `json:"tag"`
		Count  int               `json:"count"`
		Stores []json.RawMessage `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "coffee", body.Tag)
	assert.Len(t, body.Stores, 2)
}

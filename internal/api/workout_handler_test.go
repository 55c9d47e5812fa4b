package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("register login save fetch roundtrip", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "runner", "pw", "runner@example.com")
		token := env.login(t, "runner", "pw")

		save := env.do(t, http.MethodPost, "/api/workouts", token, map[string]interface{}{
			"distance": 5.2,
			"steps":    6100,
			"time":     "31:45",
		})
		require.Equal(t, http.StatusCreated, save.Code, save.Body.String())

		var saved struct {
			ID     string `json:"id"`
			UserID string `json:"user_id"`
		}
		require.NoError(t, json.Unmarshal(save.Body.Bytes(), &saved))

		list := env.do(t, http.MethodGet, "/api/workouts", token, nil)
		require.Equal(t, http.StatusOK, list.Code)

		var listed []struct {
			ID       string  `json:"id"`
			Distance float64 `json:"distance"`
			Steps    int     `json:"steps"`
			Time     string  `json:"time"`
		}
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listed))
		require.Len(t, listed, 1)
		assert.Equal(t, saved.ID, listed[0].ID)
		assert.Equal(t, 5.2, listed[0].Distance)
		assert.Equal(t, 6100, listed[0].Steps)
		assert.Equal(t, "31:45", listed[0].Time)
	})

	t.Run("list without workouts is an empty array", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "runner", "pw", "runner@example.com")
		token := env.login(t, "runner", "pw")

		w := env.do(t, http.MethodGet, "/api/workouts", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("save without token is forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/workouts", "", map[string]interface{}{
			"distance": 1.0, "steps": 100, "time": "10:00",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("save with invalid payload is a bad request", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "runner", "pw", "runner@example.com")
		token := env.login(t, "runner", "pw")

		tests := []map[string]interface{}{
			{"distance": -1.0, "steps": 100, "time": "10:00"},
			{"distance": 1.0, "steps": -100, "time": "10:00"},
			{"distance": 1.0, "steps": 100},
		}
		for _, body := range tests {
			w := env.do(t, http.MethodPost, "/api/workouts", token, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
		}
	})

	t.Run("save with a token for a deleted user is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "runner", "pw", "runner@example.com")
		token := env.login(t, "runner", "pw")

		user, err := env.users.GetByUsername(context.Background(), "runner")
		require.NoError(t, err)
		require.NoError(t, env.users.Delete(context.Background(), user.ID))

		w := env.do(t, http.MethodPost, "/api/workouts", token, map[string]interface{}{
			"distance": 1.0, "steps": 100, "time": "10:00",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("get single workout", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "runner", "pw", "runner@example.com")
		token := env.login(t, "runner", "pw")

		save := env.do(t, http.MethodPost, "/api/workouts", token, map[string]interface{}{
			"distance": 2.0, "steps": 2500, "time": "15:00",
		})
		require.Equal(t, http.StatusCreated, save.Code)

		var saved struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(save.Body.Bytes(), &saved))

		got := env.do(t, http.MethodGet, "/api/workouts/"+saved.ID, token, nil)
		assert.Equal(t, http.StatusOK, got.Code)

		missing := env.do(t, http.MethodGet, "/api/workouts/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, missing.Code)

		malformed := env.do(t, http.MethodGet, "/api/workouts/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, malformed.Code)
	})
}

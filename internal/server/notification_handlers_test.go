package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub/internal/models"
)

func TestNotifications_LifecycleOverHTTP(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	bob := createTestUser(t, s, "bob", "")
	adaToken := tokenFor(t, s, ada)
	bobToken := tokenFor(t, s, bob)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", adaToken, map[string]string{"name": "Notify Me"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	status, _ = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/like", bobToken, nil)
	require.Equal(t, http.StatusCreated, status)

	// Ada got a like notification with the actor and project attached.
	status, body = doJSON(t, app, http.MethodGet, "/api/notifications/", adaToken, nil)
	require.Equal(t, http.StatusOK, status)
	notifs := body["data"].([]interface{})
	require.Len(t, notifs, 1)
	n := notifs[0].(map[string]interface{})
	assert.Equal(t, models.NotificationLike, n["type"])
	assert.Equal(t, "New like on your project", n["title"])
	assert.Equal(t, "bob", n["actor_username"])
	assert.Equal(t, "Notify Me", n["project_name"])
	notifID := itoa(int(n["id"].(float64)))

	status, body = doJSON(t, app, http.MethodGet, "/api/notifications/unread", adaToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["data"].(map[string]interface{})["count"])

	// Bob cannot mark ada's notification.
	status, _ = doJSON(t, app, http.MethodPut, "/api/notifications/"+notifID+"/read", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodPut, "/api/notifications/"+notifID+"/read", adaToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/notifications/unread", adaToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["data"].(map[string]interface{})["count"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/notifications/"+notifID, adaToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSelfActionsProduceNoNotifications(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	token := tokenFor(t, s, ada)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", token, map[string]string{"name": "Own Goal"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	status, _ = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/like", token, nil)
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/comments", token,
		map[string]interface{}{"content": "note to self"})
	require.Equal(t, http.StatusCreated, status)

	var count int64
	require.NoError(t, s.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestOrgProjectFanout_OverHTTP(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "acme")
	bob := createTestUser(t, s, "bob", "acme")
	createTestUser(t, s, "eve", "rival")

	status, _ := doJSON(t, app, http.MethodPost, "/api/projects/", tokenFor(t, s, ada),
		map[string]string{"name": "Org News"})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/notifications/", tokenFor(t, s, bob), nil)
	require.Equal(t, http.StatusOK, status)
	notifs := body["data"].([]interface{})
	require.Len(t, notifs, 1, "org members hear about new projects")
	n := notifs[0].(map[string]interface{})
	assert.Equal(t, models.NotificationOrgProject, n["type"])
	assert.Equal(t, "New project in your organization", n["title"])

	var count int64
	require.NoError(t, s.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "only same-org members are notified")
}

package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub/internal/models"
)

func TestCommentFlow(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	bob := createTestUser(t, s, "bob", "")
	adaToken := tokenFor(t, s, ada)
	bobToken := tokenFor(t, s, bob)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", adaToken, map[string]string{"name": "Discussion"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	// Top-level comment by bob.
	status, body = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/comments", bobToken,
		map[string]interface{}{"content": "Great work"})
	require.Equal(t, http.StatusCreated, status)
	commentID := int(body["data"].(map[string]interface{})["id"].(float64))

	// Reply by ada.
	status, _ = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/comments", adaToken,
		map[string]interface{}{"content": "Thanks!", "parent_id": commentID})
	require.Equal(t, http.StatusCreated, status)

	// Listing nests the reply under its parent.
	status, body = doJSON(t, app, http.MethodGet, "/api/projects/"+projectID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]interface{})
	require.Len(t, data, 1, "only top-level comments are paginated")
	top := data[0].(map[string]interface{})
	assert.Equal(t, "Great work", top["content"])
	replies := top["replies"].([]interface{})
	require.Len(t, replies, 1)
	assert.Equal(t, "Thanks!", replies[0].(map[string]interface{})["content"])
}

func TestReplyToReplyRejected(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	token := tokenFor(t, s, ada)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", token, map[string]string{"name": "Threads"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	status, body = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/comments", token,
		map[string]interface{}{"content": "root"})
	require.Equal(t, http.StatusCreated, status)
	rootID := int(body["data"].(map[string]interface{})["id"].(float64))

	status, body = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/comments", token,
		map[string]interface{}{"content": "reply", "parent_id": rootID})
	require.Equal(t, http.StatusCreated, status)
	replyID := int(body["data"].(map[string]interface{})["id"].(float64))

	status, _ = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/comments", token,
		map[string]interface{}{"content": "nested", "parent_id": replyID})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteComment_ProjectOwnerMayModerate(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	bob := createTestUser(t, s, "bob", "")
	carl := createTestUser(t, s, "carl", "")
	adaToken := tokenFor(t, s, ada)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", adaToken, map[string]string{"name": "Moderated"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	status, body = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/comments", tokenFor(t, s, bob),
		map[string]interface{}{"content": "spam"})
	require.Equal(t, http.StatusCreated, status)
	commentID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	// A third party may not delete.
	status, _ = doJSON(t, app, http.MethodDelete, "/api/comments/"+commentID, tokenFor(t, s, carl), nil)
	assert.Equal(t, http.StatusForbidden, status)

	// The project owner may.
	status, _ = doJSON(t, app, http.MethodDelete, "/api/comments/"+commentID, adaToken, nil)
	assert.Equal(t, http.StatusOK, status)

	var count int64
	require.NoError(t, s.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestLikeComment_Conflict(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	bob := createTestUser(t, s, "bob", "")
	adaToken := tokenFor(t, s, ada)
	bobToken := tokenFor(t, s, bob)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", adaToken, map[string]string{"name": "Likes"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	status, body = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/comments", adaToken,
		map[string]interface{}{"content": "like me"})
	require.Equal(t, http.StatusCreated, status)
	commentID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	status, _ = doJSON(t, app, http.MethodPost, "/api/comments/"+commentID+"/like", bobToken, nil)
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/comments/"+commentID+"/like", bobToken, nil)
	assert.Equal(t, http.StatusConflict, status)
}

package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub/internal/models"
)

func TestCreateAndGetProject(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "acme")
	token := tokenFor(t, s, ada)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", token, map[string]string{
		"name":        "Ray Tracer",
		"description": "A path tracer in a weekend",
		"tags":        "graphics,go",
	})
	require.Equal(t, http.StatusCreated, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Ray Tracer", data["name"])
	assert.Equal(t, "public", data["privacy"])
	assert.Equal(t, "acme", data["organization"])

	projectID := int(data["id"].(float64))
	status, body = doJSON(t, app, http.MethodGet, "/api/projects/"+itoa(projectID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ray Tracer", body["data"].(map[string]interface{})["name"])
}

func TestFeed_VisibilityByViewer(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "acme")
	bob := createTestUser(t, s, "bob", "acme")
	eve := createTestUser(t, s, "eve", "rival")

	adaToken := tokenFor(t, s, ada)
	for _, p := range []map[string]string{
		{"name": "Public Site", "privacy": models.PrivacyPublic},
		{"name": "Org Tooling", "privacy": models.PrivacyOrganization},
		{"name": "Secret Lab", "privacy": models.PrivacyPrivate},
	} {
		status, _ := doJSON(t, app, http.MethodPost, "/api/projects/", adaToken, p)
		require.Equal(t, http.StatusCreated, status)
	}

	names := func(token string) []string {
		status, body := doJSON(t, app, http.MethodGet, "/api/projects/", token, nil)
		require.Equal(t, http.StatusOK, status)
		var out []string
		for _, raw := range body["data"].([]interface{}) {
			out = append(out, raw.(map[string]interface{})["name"].(string))
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Public Site"}, names(""), "anonymous viewers see public only")
	assert.ElementsMatch(t, []string{"Public Site", "Org Tooling"}, names(tokenFor(t, s, bob)))
	assert.ElementsMatch(t, []string{"Public Site"}, names(tokenFor(t, s, eve)))
	assert.ElementsMatch(t, []string{"Public Site", "Org Tooling", "Secret Lab"}, names(adaToken))
}

func TestSearchProjects_RankedResults(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	token := tokenFor(t, s, ada)

	for _, p := range []map[string]string{
		{"name": "Compiler", "tags": "parser,go"},
		{"name": "Parser Playground", "description": "grammar experiments"},
	} {
		status, _ := doJSON(t, app, http.MethodPost, "/api/projects/", token, p)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/projects/?q=parser", "", nil)
	require.Equal(t, http.StatusOK, status)

	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	// Name matches outrank tag matches.
	assert.Equal(t, "Parser Playground", data[0].(map[string]interface{})["name"])
	assert.Equal(t, "Compiler", data[1].(map[string]interface{})["name"])
}

func TestLikeProject_Flow(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	bob := createTestUser(t, s, "bob", "")
	adaToken := tokenFor(t, s, ada)
	bobToken := tokenFor(t, s, bob)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", adaToken, map[string]string{"name": "Likeable"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	status, _ = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/like", bobToken, nil)
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/projects/"+projectID+"/like", bobToken, nil)
	assert.Equal(t, http.StatusConflict, status, "double like is a conflict")

	status, _ = doJSON(t, app, http.MethodDelete, "/api/projects/"+projectID+"/like", bobToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/projects/"+projectID+"/like", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status, "unliking twice is a 404")
}

func TestUpdateProject_ForbiddenForNonOwner(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	bob := createTestUser(t, s, "bob", "")
	adaToken := tokenFor(t, s, ada)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", adaToken, map[string]string{"name": "Mine"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	status, _ = doJSON(t, app, http.MethodPut, "/api/projects/"+projectID, tokenFor(t, s, bob),
		map[string]string{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestDeleteProject_UpdatesOwnerCounter(t *testing.T) {
	s, app := setupTestServer(t)
	ada := createTestUser(t, s, "ada", "")
	token := tokenFor(t, s, ada)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects/", token, map[string]string{"name": "Ephemeral"})
	require.Equal(t, http.StatusCreated, status)
	projectID := itoa(int(body["data"].(map[string]interface{})["id"].(float64)))

	var owner models.User
	require.NoError(t, s.db.First(&owner, ada.ID).Error)
	assert.Equal(t, 1, owner.TotalProjects)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/projects/"+projectID, token, nil)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, s.db.First(&owner, ada.ID).Error)
	assert.Equal(t, 0, owner.TotalProjects)
}

package server

import (
	"projecthub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/flags. It returns the evaluated flag
// state for the current user, so clients can adapt without re-deploying.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(models.OK(s.featureFlags.Snapshot(currentUserID(c))))
}

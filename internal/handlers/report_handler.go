package handlers

import (
	"errors"
	"net/http"

	"github.com/entrelinhas/backend/internal/apperrors"
	"github.com/entrelinhas/backend/internal/middleware"
	"github.com/entrelinhas/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ReportHandler handles HTTP requests related to post reports
type ReportHandler struct {
	postRepository  repositories.PostRepository
	reportThreshold int
}

// NewReportHandler creates a new ReportHandler. A post whose distinct
// report count reaches the threshold is hidden from listings.
func NewReportHandler(postRepo repositories.PostRepository, reportThreshold int) *ReportHandler {
	return &ReportHandler{
		postRepository:  postRepo,
		reportThreshold: reportThreshold,
	}
}

// RegisterReportRoutes registers report-related routes
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/posts/:id/report", h.ReportPost)
}

// ReportPost records one report per user per post and hides the post
// once the threshold is reached.
func (h *ReportHandler) ReportPost(c echo.Context) error {
	user := middleware.CurrentUser(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post não encontrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	for _, id := range post.Reports {
		if id == user.ID {
			return apperrors.New(apperrors.Conflict, "Você já denunciou este post")
		}
	}

	count, err := h.postRepository.AddReport(c.Request().Context(), postID, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post não encontrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	if count >= h.reportThreshold {
		if err := h.postRepository.HidePost(c.Request().Context(), postID); err != nil {
			return apperrors.Wrap(err, "Erro no servidor")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"reports": count})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/entrelinhas/backend/internal/apperrors"
	"github.com/entrelinhas/backend/internal/middleware"
	"github.com/entrelinhas/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	postRepository repositories.PostRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postRepo repositories.PostRepository) *LikeHandler {
	return &LikeHandler{postRepository: postRepo}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike adds the caller to the post's like set, or removes them if
// already present. The set mutation itself is an atomic $addToSet/$pull.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	user := middleware.CurrentUser(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post não encontrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	liked := false
	for _, id := range post.Likes {
		if id == user.ID {
			liked = true
			break
		}
	}

	var count int
	if liked {
		count, err = h.postRepository.RemoveLike(c.Request().Context(), postID, user.ID)
	} else {
		count, err = h.postRepository.AddLike(c.Request().Context(), postID, user.ID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post não encontrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"likes":  count,
		"liked":  !liked,
		"postId": post.ID.Hex(),
	})
}

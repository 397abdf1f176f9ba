package handlers

import (
	"errors"
	"net/http"

	"github.com/entrelinhas/backend/internal/apperrors"
	"github.com/entrelinhas/backend/internal/middleware"
	"github.com/entrelinhas/backend/internal/models"
	"github.com/entrelinhas/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	postRepository repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{postRepository: postRepo}
}

// RegisterCommentRoutes registers comment-related routes. Deletion is
// reachable under both the singular and plural path forms.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comment", h.CreateComment)
	g.DELETE("/posts/:id/comment/:commentId", h.DeleteComment)
	g.DELETE("/posts/:id/comments/:commentId", h.DeleteComment)
}

// CreateComment appends a comment to a post's embedded comment array
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user := middleware.CurrentUser(c)
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.New(apperrors.Validation, "Comentário inválido (máx 250 caracteres)")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return apperrors.New(apperrors.Validation, "Comentário inválido (máx 250 caracteres)")
	}

	if urlPattern.MatchString(req.Content) {
		return apperrors.New(apperrors.Validation, "Links não permitidos")
	}

	comment := &models.Comment{
		UserID:   user.ID,
		Username: user.Username,
		Content:  req.Content,
	}

	if err := h.postRepository.AddComment(c.Request().Context(), postID, comment); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post não encontrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comentário adicionado"})
}

// DeleteComment removes one comment from a post. Only the comment's
// author may delete it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	user := middleware.CurrentUser(c)
	postID := c.Param("id")

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return apperrors.New(apperrors.NotFound, "Comentário não encontrado")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post não encontrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return apperrors.New(apperrors.NotFound, "Comentário não encontrado")
	}

	if comment.UserID != user.ID {
		return apperrors.New(apperrors.Forbidden, "Sem permissão")
	}

	if err := h.postRepository.RemoveComment(c.Request().Context(), postID, commentID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post não encontrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comentário apagado"})
}

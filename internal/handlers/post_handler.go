package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/entrelinhas/backend/internal/apperrors"
	"github.com/entrelinhas/backend/internal/middleware"
	"github.com/entrelinhas/backend/internal/models"
	"github.com/entrelinhas/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// urlPattern rejects content that smuggles links into a post or comment.
var urlPattern = regexp.MustCompile(`(?i)(http|www|\.com|\.net|\.org)`)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	now            func() time.Time
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		now:            time.Now,
	}
}

// RegisterPostRoutes registers the post routes that require
// authentication. ListPosts is public and registered by the router.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/me/history", h.History)
}

// ListPosts returns every visible post, newest first
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postRepository.GetVisiblePosts(c.Request().Context())
	if err != nil {
		return apperrors.Wrap(err, "Erro no servidor")
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post owned by the caller. A user may create
// at most one post per local calendar day.
func (h *PostHandler) CreatePost(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.New(apperrors.Validation, "Conteúdo inválido (máx 500 caracteres)")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return apperrors.New(apperrors.Validation, "Conteúdo inválido (máx 500 caracteres)")
	}

	if urlPattern.MatchString(req.Content) {
		return apperrors.New(apperrors.Validation, "Links não permitidos")
	}

	now := h.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	alreadyPosted, err := h.postRepository.HasPostedSince(c.Request().Context(), user.ID, midnight)
	if err != nil {
		return apperrors.Wrap(err, "Erro no servidor")
	}
	if alreadyPosted {
		return apperrors.New(apperrors.Validation, "Você já postou hoje")
	}

	post := &models.Post{
		UserID:    user.ID,
		Username:  user.Username,
		Content:   req.Content,
		Anonymous: req.Anonymous,
		HideLikes: req.HideLikes,
		Mood:      req.Mood,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return apperrors.Wrap(err, "Erro no servidor")
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the caller. Embedded comments,
// likes and reports go with the document.
func (h *PostHandler) DeletePost(c echo.Context) error {
	user := middleware.CurrentUser(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post não encontrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	if post.UserID != user.ID {
		return apperrors.New(apperrors.Forbidden, "Sem permissão")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return apperrors.Wrap(err, "Erro no servidor")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post apagado"})
}

// History returns the caller's posts plus every comment the caller has
// authored across all posts, each annotated with its parent post id.
// Collecting the comments scans every post's embedded comment array.
func (h *PostHandler) History(c echo.Context) error {
	user := middleware.CurrentUser(c)

	myPosts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), user.ID)
	if err != nil {
		return apperrors.Wrap(err, "Erro no servidor")
	}

	allPosts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return apperrors.Wrap(err, "Erro no servidor")
	}

	myComments := []models.HistoryComment{}
	for _, p := range allPosts {
		for _, comment := range p.Comments {
			if comment.UserID == user.ID {
				myComments = append(myComments, models.HistoryComment{PostID: p.ID, Comment: comment})
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"posts":    myPosts,
		"comments": myComments,
	})
}

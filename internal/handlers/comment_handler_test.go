package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entrelinhas/backend/internal/apperrors"
	"github.com/entrelinhas/backend/internal/models"
	"github.com/labstack/echo/v4"
)

func TestCreateComment(t *testing.T) {
	repo := newFakePostRepo()
	h := NewCommentHandler(repo)
	owner := testUser(1, "a")
	commenter := testUser(2, "b")

	post := seedPost(t, repo, owner, "hello")
	id := post.ID.Hex()

	c, rec := newTestContext(http.MethodPost, "/posts/"+id+"/comment", `{"content":"nice"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	withUser(c, commenter)
	if err := h.CreateComment(c); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("json parse: %v", err)
	}
	if payload["message"] != "Comentário adicionado" {
		t.Fatalf("unexpected message: %q", payload["message"])
	}

	stored, _ := repo.GetPostByID(nil, id)
	if len(stored.Comments) != 1 {
		t.Fatalf("expected one comment, got %+v", stored.Comments)
	}
	comment := stored.Comments[0]
	if comment.UserID != commenter.ID || comment.Username != "b" || comment.Content != "nice" {
		t.Fatalf("unexpected comment: %+v", comment)
	}
	if comment.ID.IsZero() || comment.CreatedAt.IsZero() {
		t.Fatalf("comment must get an id and timestamp: %+v", comment)
	}
}

func TestCreateCommentContentRules(t *testing.T) {
	longContent := make([]byte, 251)
	for i := range longContent {
		longContent[i] = 'x'
	}

	cases := []struct {
		name string
		body string
	}{
		{"empty", `{"content":""}`},
		{"too long", `{"content":"` + string(longContent) + `"}`},
		{"url", `{"content":"check www.example"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakePostRepo()
			h := NewCommentHandler(repo)
			post := seedPost(t, repo, testUser(1, "a"), "hello")
			id := post.ID.Hex()

			c, _ := newTestContext(http.MethodPost, "/posts/"+id+"/comment", tc.body)
			c.SetParamNames("id")
			c.SetParamValues(id)
			withUser(c, testUser(2, "b"))
			err := h.CreateComment(c)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if kindOf(t, err) != apperrors.Validation {
				t.Fatalf("expected Validation kind, got %v", err)
			}

			stored, _ := repo.GetPostByID(nil, id)
			if len(stored.Comments) != 0 {
				t.Fatalf("rejected comment must not be persisted: %+v", stored.Comments)
			}
		})
	}
}

func TestCreateCommentPostNotFound(t *testing.T) {
	h := NewCommentHandler(newFakePostRepo())

	c, _ := newTestContext(http.MethodPost, "/posts/ffffffffffffffffffffffff/comment", `{"content":"hi"}`)
	c.SetParamNames("id")
	c.SetParamValues("ffffffffffffffffffffffff")
	withUser(c, testUser(1, "a"))
	err := h.CreateComment(c)
	if err == nil || kindOf(t, err) != apperrors.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestDeleteComment(t *testing.T) {
	repo := newFakePostRepo()
	h := NewCommentHandler(repo)
	owner := testUser(1, "a")
	author := testUser(2, "b")
	other := testUser(3, "c")

	post := seedPost(t, repo, owner, "hello")
	id := post.ID.Hex()

	comment := &models.Comment{UserID: author.ID, Username: author.Username, Content: "mine"}
	if err := repo.AddComment(nil, id, comment); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	newDeleteCtx := func(user *models.User) (echo.Context, *httptest.ResponseRecorder) {
		c, r := newTestContext(http.MethodDelete, "/posts/"+id+"/comment/"+comment.ID.Hex(), "")
		c.SetParamNames("id", "commentId")
		c.SetParamValues(id, comment.ID.Hex())
		withUser(c, user)
		return c, r
	}

	// Post owner is not the comment author.
	c, _ := newDeleteCtx(other)
	err := h.DeleteComment(c)
	if err == nil || kindOf(t, err) != apperrors.Forbidden {
		t.Fatalf("expected Forbidden for non-author, got %v", err)
	}

	c, r := newDeleteCtx(author)
	if err := h.DeleteComment(c); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if r.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", r.Code)
	}

	stored, _ := repo.GetPostByID(nil, id)
	if len(stored.Comments) != 0 {
		t.Fatalf("comment still present: %+v", stored.Comments)
	}
}

func TestDeleteCommentNotFound(t *testing.T) {
	repo := newFakePostRepo()
	h := NewCommentHandler(repo)

	post := seedPost(t, repo, testUser(1, "a"), "hello")
	id := post.ID.Hex()

	c, _ := newTestContext(http.MethodDelete, "/posts/"+id+"/comment/ffffffffffffffffffffffff", "")
	c.SetParamNames("id", "commentId")
	c.SetParamValues(id, "ffffffffffffffffffffffff")
	withUser(c, testUser(2, "b"))
	err := h.DeleteComment(c)
	if err == nil || kindOf(t, err) != apperrors.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

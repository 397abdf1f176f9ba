package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/entrelinhas/backend/internal/models"
	"github.com/entrelinhas/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository with the same uniqueness
// semantics as the Postgres implementation.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var (
	_ repositories.UserRepository = (*fakeUserRepo)(nil)
	_ repositories.PostRepository = (*fakePostRepo)(nil)
)

// fakePostRepo is an in-memory PostRepository mirroring the Mongo
// implementation's set semantics.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	if post.Reports == nil {
		post.Reports = []uint{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	copied := *post
	r.posts[post.ID.Hex()] = &copied
	return nil
}

func (r *fakePostRepo) get(id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repositories.ErrPostNotFound
	}
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return post, nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, err := r.get(id)
	if err != nil {
		return nil, err
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) sorted(match func(*models.Post) bool) []models.Post {
	out := []models.Post{}
	for _, p := range r.posts {
		if match(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakePostRepo) GetVisiblePosts(_ context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p *models.Post) bool { return !p.Hidden }), nil
}

func (r *fakePostRepo) GetPostsByUserID(_ context.Context, userID uint) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p *models.Post) bool { return p.UserID == userID }), nil
}

func (r *fakePostRepo) GetAllPosts(_ context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p *models.Post) bool { return true }), nil
}

func (r *fakePostRepo) HasPostedSince(_ context.Context, userID uint, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.UserID == userID && !p.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.get(id); err != nil {
		return err
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, id string, userID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, err := r.get(id)
	if err != nil {
		return 0, err
	}
	for _, uid := range post.Likes {
		if uid == userID {
			return len(post.Likes), nil
		}
	}
	post.Likes = append(post.Likes, userID)
	return len(post.Likes), nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, id string, userID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, err := r.get(id)
	if err != nil {
		return 0, err
	}
	kept := post.Likes[:0]
	for _, uid := range post.Likes {
		if uid != userID {
			kept = append(kept, uid)
		}
	}
	post.Likes = kept
	return len(post.Likes), nil
}

func (r *fakePostRepo) AddReport(_ context.Context, id string, userID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, err := r.get(id)
	if err != nil {
		return 0, err
	}
	for _, uid := range post.Reports {
		if uid == userID {
			return len(post.Reports), nil
		}
	}
	post.Reports = append(post.Reports, userID)
	return len(post.Reports), nil
}

func (r *fakePostRepo) HidePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, err := r.get(id)
	if err != nil {
		return err
	}
	post.Hidden = true
	return nil
}

func (r *fakePostRepo) AddComment(_ context.Context, postID string, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, err := r.get(postID)
	if err != nil {
		return err
	}
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	post.Comments = append(post.Comments, *comment)
	return nil
}

func (r *fakePostRepo) RemoveComment(_ context.Context, postID string, commentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, err := r.get(postID)
	if err != nil {
		return err
	}
	kept := post.Comments[:0]
	for _, c := range post.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	post.Comments = kept
	return nil
}

// newTestContext builds an echo context for a JSON request.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

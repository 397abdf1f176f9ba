package handlers

import (
	"errors"
	"net/http"

	"github.com/entrelinhas/backend/internal/apperrors"
	"github.com/entrelinhas/backend/internal/models"
	"github.com/entrelinhas/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// Register creates a new account. No token is issued at registration.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.New(apperrors.Validation, "Preencha todos os campos")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return apperrors.New(apperrors.Validation, "Preencha todos os campos")
	}

	// Check for an existing account before inserting; the unique
	// indexes remain the backstop under concurrent registrations.
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return apperrors.New(apperrors.Conflict, "Email ou username já cadastrado")
	}
	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return apperrors.New(apperrors.Conflict, "Email ou username já cadastrado")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(err, "Erro no servidor")
	}

	user := &models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hashedPassword),
		Grade:    req.Grade,
		Region:   req.Region,
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.Conflict, "Email ou username já cadastrado")
		}
		return apperrors.Wrap(err, "Erro no servidor")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Conta criada"})
}

// Login authenticates by email and password and returns a signed token
// together with the user's id and username.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.New(apperrors.InvalidCredentials, "Credenciais inválidas")
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return apperrors.New(apperrors.InvalidCredentials, "Credenciais inválidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return apperrors.New(apperrors.InvalidCredentials, "Credenciais inválidas")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Wrap(err, "Erro no servidor")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":    token,
		"userId":   user.ID,
		"username": user.Username,
	})
}

// generateJWT signs a token carrying the user's id and username. Tokens
// do not expire.
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

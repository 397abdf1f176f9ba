package middleware

import (
	"strings"

	"github.com/entrelinhas/backend/internal/apperrors"
	"github.com/entrelinhas/backend/internal/models"
	"github.com/entrelinhas/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// CurrentUserKey is the echo context key holding the authenticated user.
const CurrentUserKey = "currentUser"

// JWTAuthMiddleware verifies the Authorization header and resolves the
// token's user against the user store. The header value may be a raw
// token or prefixed with "Bearer ".
func JWTAuthMiddleware(jwtSecret string, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperrors.New(apperrors.Unauthenticated, "Token necessário")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			// Any verification failure collapses to the same generic message.
			if err != nil || !token.Valid {
				return apperrors.New(apperrors.InvalidToken, "Token inválido")
			}

			user, err := userRepo.GetUserByID(claims.UserID)
			if err != nil {
				return apperrors.New(apperrors.InvalidToken, "Usuário não encontrado")
			}

			c.Set(CurrentUserKey, user)

			return next(c)
		}
	}
}

// CurrentUser pulls the authenticated user placed in the context by
// JWTAuthMiddleware.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(CurrentUserKey).(*models.User)
	return user
}

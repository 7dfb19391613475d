package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/shared/contextutil"
	"kazini-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const SessionCookie = "access_token"

var (
	ErrTokenMissing = apperror.New(apperror.CodeUnauthorized, "Session token not found", http.StatusUnauthorized)
	ErrInvalidToken = apperror.New("INVALID_TOKEN", "Session token is invalid", http.StatusUnauthorized)
	ErrTokenExpired = apperror.New("TOKEN_EXPIRED", "Session has expired, sign in again", http.StatusUnauthorized)
)

// SessionClaims is the payload of the session token issued by the identity service.
type SessionClaims struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Abort(c, err.HTTPStatus, err.Code, err.Message, nil)
}

// AuthMiddleware verifies the session token from the Authorization header or
// the session cookie and publishes user_id, company_id and role on the context.
func AuthMiddleware() gin.HandlerFunc {
	return authenticate(true)
}

// UserAuthMiddleware accepts tokens issued before the user belongs to a
// company, as used by company onboarding.
func UserAuthMiddleware() gin.HandlerFunc {
	return authenticate(false)
}

func authenticate(requireCompany bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWith(c, ErrTokenMissing)
			return
		}

		claims := &SessionClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, ErrTokenExpired)
				return
			}
			abortWith(c, ErrInvalidToken)
			return
		}

		if claims.UserID == "" || (requireCompany && claims.CompanyID == "") {
			abortWith(c, ErrInvalidToken)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("company_id", claims.CompanyID)
		c.Set("role", claims.Role)

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, claims.UserID)
		ctx = contextutil.WithCompanyID(ctx, claims.CompanyID)
		logger := contextutil.GetLogger(ctx, zap.L()).With(
			zap.String("user_id", claims.UserID),
			zap.String("company_id", claims.CompanyID),
		)
		ctx = contextutil.WithLogger(ctx, logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortWith(c, apperror.ErrForbidden)
	}
}

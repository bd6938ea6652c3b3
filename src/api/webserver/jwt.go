package webserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/data"
	"github.com/querysync/querysync/src/api/types"
)

const tokenTTL = 30 * time.Minute

func issueJWT(u *types.User, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(u.ID, 10),
		"role": u.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func userFromToken(c *gin.Context, secret []byte, db *gorm.DB) *types.User {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return nil
	}
	tok, err := jwt.Parse(h[7:], func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return nil
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil
	}
	u, err := data.GetUserByID(db, id)
	if err != nil {
		return nil
	}
	return u
}

func JWTMiddleware(secret []byte, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := userFromToken(c, secret, db)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "invalid or expired token"})
			return
		}
		c.Set("user", u)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present but lets
// guests through; questions and answers accept both.
func OptionalAuth(secret []byte, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := userFromToken(c, secret, db); u != nil {
			c.Set("user", u)
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || u.Role != types.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"err": "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *types.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, _ := v.(*types.User)
	return u
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"post-archiver/infrastructure/logger"
)

// LicenseAuth lifts the caller's license key from the X-License-Key
// header into the request context. The key is optional here: whether a
// request needs credits is the usecase's call.
func LicenseAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if key := ctx.GetHeader("X-License-Key"); key != "" {
			ctx.Set("license_key", key)
		}
		ctx.Next()
	}
}

// AdminAuth guards the admin endpoints with a JWT signed by the app
// secret key.
func AdminAuth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		if authorization == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.Split(authorization, "Bearer ")
		if len(parts) != 2 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &jwt.StandardClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			var ve *jwt.ValidationError
			msg := "invalid token"
			if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				msg = "token expired or not yet valid"
			}
			logger.GetLogger().WithField("error", err).Warn("Admin token rejected")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims, ok := token.Claims.(*jwt.StandardClaims); ok {
			ctx.Set("admin_subject", claims.Subject)
		}
		ctx.Next()
	}
}

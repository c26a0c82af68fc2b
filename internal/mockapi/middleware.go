package mockapi

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// JWTAuth verifies the bearer token and stores the caller's id as a user value.
func JWTAuth(secret []byte, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				respondDetail(ctx, fasthttp.StatusUnauthorized, "Not authenticated")
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				respondDetail(ctx, fasthttp.StatusUnauthorized, "Could not validate credentials")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				respondDetail(ctx, fasthttp.StatusUnauthorized, "Could not validate credentials")
				return
			}
			userID, ok := claimUserID(claims)
			if !ok {
				respondDetail(ctx, fasthttp.StatusUnauthorized, "Could not validate credentials")
				return
			}
			ctx.SetUserValue(userIDKey, userID)

			next(ctx)
		}
	}
}

func claimUserID(claims jwt.MapClaims) (int64, bool) {
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	}
	return 0, false
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

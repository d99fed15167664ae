package middleware // middleware holds reusable Echo middleware for the finder API

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
    CtxSubject = "subject"
    CtxRole    = "role"
)

// JWTAuth returns a middleware that validates an HS256 Bearer token signed
// with secret and stores its "sub" and "role" claims in the context under
// CtxSubject and CtxRole.  Expired tokens are rejected by the parser.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims := jwt.MapClaims{}
            tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
                return []byte(secret), nil
            }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // sub and role are plain strings in tokens we mint
            sub, _ := claims.GetSubject()
            role, _ := claims["role"].(string)
            c.Set(CtxSubject, sub)
            c.Set(CtxRole, role)
            return next(c)
        }
    }
}

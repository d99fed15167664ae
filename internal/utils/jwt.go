package utils // package utils provides helpers for minting admin tokens

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role claim required by the admin routes.
const RoleAdmin = "ADMIN"

// AccessToken is a signed JWT and its expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken signs an HS256 JWT carrying sub, role, exp and iat claims.
// The token expires ttl after now.
func NewAccessToken(secret, subject, role string, ttl time.Duration, now time.Time) (AccessToken, error) {
    if secret == "" {
        return AccessToken{}, errors.New("empty signing secret")
    }
    if ttl <= 0 {
        return AccessToken{}, errors.New("token ttl must be positive")
    }
    now = now.UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":  subject,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewAdminToken is NewAccessToken with RoleAdmin, valid for ttlMin minutes
// from now.
func NewAdminToken(secret, subject string, ttlMin int) (AccessToken, error) {
    return NewAccessToken(secret, subject, RoleAdmin, time.Duration(ttlMin)*time.Minute, time.Now())
}

// Package auth implements the session token codec.
//
// There is exactly one signing scheme (HMAC-SHA256) shared by two token
// kinds: ordinary bidder sessions and the admin session. The kinds are
// distinguished only by the embedded account id (0 is the reserved admin
// principal) and by the max-age supplied at validation time, never by a
// separate signature scheme. Tokens carry an issued-at timestamp instead
// of an embedded expiry, so lifetime policy is entirely the validator's.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erazemk/drazba/internal/model"
)

// Token lifetimes per kind, applied at validation time.
const (
	SessionMaxAge = 7 * 24 * time.Hour
	AdminMaxAge   = 30 * time.Minute
)

// Kind selects the validation policy for a token.
type Kind int

const (
	// KindSession is an ordinary bidder session (account id > 0).
	KindSession Kind = iota
	// KindAdmin is the short-lived admin session (account id 0).
	KindAdmin
)

// Claims represents the signed token payload.
type Claims struct {
	AccountID int64 `json:"account_id"`
	jwt.RegisteredClaims
}

// Issue creates a signed token embedding the account id and the current
// time. Pass model.AdminAccountID to issue an admin token; the account
// store guarantees no real account ever has that id.
func Issue(secret string, accountID int64) (string, error) {
	claims := Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token's signature and age and returns the embedded
// account id. Any failure (bad signature, tampered payload, missing
// issued-at, age over maxAge) is an ordinary error; callers treat it as
// "unauthenticated", never as a crash.
func Validate(secret, tokenStr string, maxAge time.Duration) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	if claims.IssuedAt == nil {
		return 0, fmt.Errorf("token has no issued-at")
	}
	// Issued-at is stored with second precision; the leeway absorbs the
	// truncation so a freshly issued token validates at any max-age.
	if time.Since(claims.IssuedAt.Time) > maxAge+time.Second {
		return 0, fmt.Errorf("token expired")
	}

	return claims.AccountID, nil
}

// ValidateKind validates a token against the policy for the given kind:
// admin tokens must decode to the reserved admin id and pass the shorter
// max-age, session tokens must decode to a real (non-zero) account id.
func ValidateKind(secret, tokenStr string, kind Kind) (int64, error) {
	switch kind {
	case KindAdmin:
		id, err := Validate(secret, tokenStr, AdminMaxAge)
		if err != nil {
			return 0, err
		}
		if id != model.AdminAccountID {
			return 0, fmt.Errorf("not an admin token")
		}
		return id, nil
	default:
		id, err := Validate(secret, tokenStr, SessionMaxAge)
		if err != nil {
			return 0, err
		}
		if id == model.AdminAccountID {
			return 0, fmt.Errorf("admin token is not a bidder session")
		}
		return id, nil
	}
}

// Package token signs and verifies the HS256 bearer credentials shared
// between the auth endpoints, the edge gate and the client session store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Reason classifies why a verification failed
type Reason string

const (
	ReasonMalformed        Reason = "malformed"
	ReasonExpired          Reason = "expired"
	ReasonSignatureInvalid Reason = "signature-invalid"
)

// Payload is the decoded credential. It exists only for the duration of one
// verification call and is never persisted as-is.
type Payload struct {
	Subject   string
	Name      string
	Email     string
	Roles     []string
	ExpiresAt time.Time
}

// Result is the outcome of one verification call
type Result struct {
	Valid   bool
	Payload Payload
	Reason  Reason
}

// Codec signs and verifies tokens with a shared HMAC secret
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec. ttl is the lifetime stamped into signed tokens.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the token lifetime the codec signs with
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Sign generates a new JWT token carrying the user's identity and raw roles
func (c *Codec) Sign(userID, name, email string, roles []string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"name":    name,
		"email":   email,
		"roles":   roles,
		"exp":     time.Now().Add(c.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Verify checks the signature and expiry of a token. It always returns a
// Result, never an error: malformed input is simply an invalid Result.
func (c *Codec) Verify(raw string) Result {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Only accept the HMAC family the service signs with
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Result{Reason: ReasonExpired}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return Result{Reason: ReasonSignatureInvalid}
		default:
			return Result{Reason: ReasonMalformed}
		}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Result{Reason: ReasonMalformed}
	}

	return Result{Valid: true, Payload: payloadFromClaims(claims)}
}

func payloadFromClaims(claims jwt.MapClaims) Payload {
	var p Payload
	if v, ok := claims["user_id"].(string); ok {
		p.Subject = v
	}
	if v, ok := claims["name"].(string); ok {
		p.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		p.Email = v
	}
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				p.Roles = append(p.Roles, s)
			}
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	return p
}

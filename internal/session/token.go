package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// UserFromToken reads the user out of the API's access token. The API
// signed it, so the signature is not checked here; the token is only
// decoded for display and expiry.
func UserFromToken(token string, now time.Time) (*User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !claims.VerifyExpiresAt(now.Unix(), false) {
		return nil, fmt.Errorf("%w: expired", ErrMalformedToken)
	}

	user := &User{
		ID:       claimString(claims, "id", "userId", "sub"),
		Username: claimString(claims, "username", "name"),
		Email:    claimString(claims, "email"),
	}
	if user.Username == "" {
		user.Username = user.Email
	}
	if user.Username == "" {
		return nil, fmt.Errorf("%w: no username claim", ErrMalformedToken)
	}
	return user, nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

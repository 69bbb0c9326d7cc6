package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// run passes a request with the given Authorization header through mw and returns the
// actor the downstream handler saw, or the middleware's error.
func run(t *testing.T, mw echo.MiddlewareFunc, header string) (models.Actor, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen models.Actor
	err := mw(func(c echo.Context) error {
		actor, ok := ActorFromContext(c)
		require.True(t, ok)
		seen = actor
		return nil
	})(c)
	return seen, err
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestJWTAuthMiddleware(t *testing.T) {
	token, err := SignActorToken(testSecret, models.Actor{ID: "u1", DisplayName: "One"}, time.Hour)
	require.NoError(t, err)

	actor, err := run(t, JWTAuthMiddleware(testSecret), "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, models.Actor{ID: "u1", DisplayName: "One"}, actor)
}

func TestJWTAuthMiddlewareRejects(t *testing.T) {
	wrongKey, err := SignActorToken("other-secret", models.Actor{ID: "u1"}, time.Hour)
	require.NoError(t, err)
	expired, err := SignActorToken(testSecret, models.Actor{ID: "u1"}, -time.Minute)
	require.NoError(t, err)
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ActorClaims{}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"wrong key": "Bearer " + wrongKey,
		"expired":   "Bearer " + expired,
		"no user":   "Bearer " + noUser,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, JWTAuthMiddleware(testSecret), header)
			assertUnauthorized(t, err)
		})
	}
}

type stubVerifier struct {
	tokens map[string]*auth.Token
}

func (s stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := s.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid token")
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]*auth.Token{
		"good":    {UID: "firebase-uid", Claims: map[string]interface{}{"name": "Fire Base"}},
		"no-name": {UID: "anon-uid", Claims: map[string]interface{}{}},
	}}
	mw := FirebaseAuthMiddleware(verifier)

	actor, err := run(t, mw, "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid", actor.ID)
	assert.Equal(t, "Fire Base", actor.Name())

	actor, err = run(t, mw, "bearer no-name")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", actor.Name())

	_, err = run(t, mw, "Bearer bad")
	assertUnauthorized(t, err)
	_, err = run(t, mw, "")
	assertUnauthorized(t, err)
}

package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/service"
	"github.com/sirupsen/logrus"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// NullTokenVerifier treats the token itself as the user id. Used in
// insecure mode and in tests.
type NullTokenVerifier struct{}

var _ TokenVerifier = NullTokenVerifier{}

func NewNullTokenVerifier() *NullTokenVerifier {
	return &NullTokenVerifier{}
}

func (NullTokenVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	return token, nil
}

// AuthMiddleware resolves the Authorization header and injects the user id
// into the request context. Requests without a token pass through
// unauthenticated, the services decide what that means per operation.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessTokenFromHeader(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				logrus.Errorf("failed to verify access token: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(service.WithUserID(r.Context(), userID)))
		})
	}
}

func accessTokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// RequestTimeMiddleware logs the time each request took.
func RequestTimeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		reqTime := time.Since(start)
		logrus.Infof("request time: %v %v: %v", r.Method, r.URL.Path, reqTime)
	})
}

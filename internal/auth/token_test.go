package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tourbook/internal/domain"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	token, err := m.Issue("user-1", domain.RoleDriver)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != domain.RoleDriver {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokenManager_RejectsBadTokens(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("test-secret", time.Hour)
	other, _ := NewTokenManager("other-secret", time.Hour)

	expired, _ := NewTokenManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.Issue("user-1", domain.RoleTourist)

	foreignToken, _ := other.Issue("user-1", domain.RoleAdmin)

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "user-1",
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreignToken},
		{name: "expired", token: expiredToken},
		{name: "unsigned", token: noneToken},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := m.Parse(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager("", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

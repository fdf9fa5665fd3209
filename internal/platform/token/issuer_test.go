package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"social_backend/internal/feature/user/domain/entity"
	"social_backend/internal/platform/crypt"
)

// mockUserSource はテスト用のUserSourceモック実装です。
type mockUserSource struct {
	findByIDFn func(ctx context.Context, id string) (*entity.User, error)
}

// FindByID はモックのFindByID関数を呼び出します。
func (m *mockUserSource) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, errors.New("user not found")
}

// newTestIssuer は固定シークレットでIssuerを生成します。
func newTestIssuer(t *testing.T, ttl time.Duration, users UserSource) *Issuer {
	t.Helper()

	cfg, err := crypt.NewConfig("test-enc-key", "test-enc-iv")
	if err != nil {
		t.Fatalf("failed to derive cipher config: %v", err)
	}
	c, err := crypt.New(cfg)
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	return NewIssuer("test-jwt-secret", ttl, c, users)
}

// TestIssuer_IssueAndVerify は発行したトークンの検証でペイロードが復元されることを検証します。
func TestIssuer_IssueAndVerify(t *testing.T) {
	i := newTestIssuer(t, time.Hour, &mockUserSource{})

	raw, err := i.Issue("user-1", "user@example.com", "$2a$10$hash")
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}
	if raw == "" {
		t.Fatal("expected non-empty token")
	}

	p, err := i.Verify(raw)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	if p.UserID != "user-1" || p.Email != "user@example.com" || p.Password != "$2a$10$hash" {
		t.Errorf("unexpected payload: %+v", p)
	}
}

// TestIssuer_Issue_EncryptedPayload はJWTのdataクレームが平文のペイロードを含まないことを検証します。
func TestIssuer_Issue_EncryptedPayload(t *testing.T) {
	i := newTestIssuer(t, time.Hour, &mockUserSource{})

	raw, err := i.Issue("user-1", "user@example.com", "$2a$10$hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-jwt-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	data, ok := claims["data"].(string)
	if !ok || data == "" {
		t.Fatal("expected data claim to be set")
	}
	// The claim must be ciphertext, not the serialized payload.
	if data == `{"userID":"user-1","email":"user@example.com","password":"$2a$10$hash"}` {
		t.Error("data claim holds plaintext payload")
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("expected exp claim to be set")
	}
	if _, ok := claims["iat"]; !ok {
		t.Error("expected iat claim to be set")
	}
}

// TestIssuer_Verify_Invalid は改ざん・署名不一致・形式不正のトークンがErrTokenInvalidになることを検証します。
func TestIssuer_Verify_Invalid(t *testing.T) {
	i := newTestIssuer(t, time.Hour, &mockUserSource{})

	good, err := i.Issue("user-1", "user@example.com", "hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := newTestIssuer(t, time.Hour, &mockUserSource{})
	other.secret = []byte("a-different-secret")
	wrongSecret, err := other.Issue("user-1", "user@example.com", "hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"tampered", good[:len(good)-2] + "xx"},
		{"wrong secret", wrongSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := i.Verify(tt.raw); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}

// TestIssuer_Verify_Expired は有効期限切れのトークンがErrTokenExpiredになることを検証します。
func TestIssuer_Verify_Expired(t *testing.T) {
	i := newTestIssuer(t, time.Hour, &mockUserSource{})

	// Craft a token whose window has already passed, signed with the
	// issuer's own secret and cipher.
	enc, err := i.cipher.Encrypt(`{"userID":"user-1","email":"a@b.c","password":"h"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims := jwt.MapClaims{
		"data": enc,
		"exp":  time.Now().Add(-time.Minute).Unix(),
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-jwt-secret"))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	if _, err := i.Verify(expired); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

// TestIssuer_VerifyAndRenew はトークンの更新（ローテーション）を検証します。
func TestIssuer_VerifyAndRenew(t *testing.T) {
	stored := &entity.User{
		ID:       "user-1",
		Email:    "user@example.com",
		Password: "$2a$10$hash",
	}

	t.Run("successful renewal keeps identity", func(t *testing.T) {
		users := &mockUserSource{
			findByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
				if id == stored.ID {
					return stored, nil
				}
				return nil, errors.New("user not found")
			},
		}
		i := newTestIssuer(t, time.Hour, users)

		raw, err := i.Issue(stored.ID, stored.Email, stored.Password)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		renewed, err := i.VerifyAndRenew(context.Background(), raw)
		if err != nil {
			t.Fatalf("unexpected renewal error: %v", err)
		}

		p, err := i.Verify(renewed)
		if err != nil {
			t.Fatalf("renewed token does not verify: %v", err)
		}
		if p.UserID != stored.ID || p.Email != stored.Email || p.Password != stored.Password {
			t.Errorf("renewed payload mismatch: %+v", p)
		}
	})

	t.Run("password change makes token stale", func(t *testing.T) {
		users := &mockUserSource{
			findByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
				changed := *stored
				changed.Password = "$2a$10$a-new-hash"
				return &changed, nil
			},
		}
		i := newTestIssuer(t, time.Hour, users)

		raw, err := i.Issue(stored.ID, stored.Email, stored.Password)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := i.VerifyAndRenew(context.Background(), raw); !errors.Is(err, ErrStaleToken) {
			t.Errorf("expected ErrStaleToken, got %v", err)
		}
	})

	t.Run("email change makes token stale", func(t *testing.T) {
		users := &mockUserSource{
			findByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
				changed := *stored
				changed.Email = "new@example.com"
				return &changed, nil
			},
		}
		i := newTestIssuer(t, time.Hour, users)

		raw, err := i.Issue(stored.ID, stored.Email, stored.Password)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := i.VerifyAndRenew(context.Background(), raw); !errors.Is(err, ErrStaleToken) {
			t.Errorf("expected ErrStaleToken, got %v", err)
		}
	})

	t.Run("deleted user makes token stale", func(t *testing.T) {
		i := newTestIssuer(t, time.Hour, &mockUserSource{})

		raw, err := i.Issue(stored.ID, stored.Email, stored.Password)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := i.VerifyAndRenew(context.Background(), raw); !errors.Is(err, ErrStaleToken) {
			t.Errorf("expected ErrStaleToken, got %v", err)
		}
	})
}

package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mchen1024/todovault/internal/auth"
)

func TestCodecIssueAndVerify(t *testing.T) {
	codec, err := auth.NewCodec("test-secret", 0)
	if err != nil {
		t.Fatalf("unexpected error creating codec: %v", err)
	}

	token, err := codec.Issue("user-1", auth.AccessAuth)
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}

	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Access != auth.AccessAuth {
		t.Fatalf("expected access %q, got %q", auth.AccessAuth, claims.Access)
	}
}

func TestCodecRejectsForeignSecret(t *testing.T) {
	codec, err := auth.NewCodec("test-secret", 0)
	if err != nil {
		t.Fatalf("unexpected error creating codec: %v", err)
	}
	other, err := auth.NewCodec("another-secret", 0)
	if err != nil {
		t.Fatalf("unexpected error creating codec: %v", err)
	}

	token, err := other.Issue("user-1", auth.AccessAuth)
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodecRejectsMalformedToken(t *testing.T) {
	codec, err := auth.NewCodec("test-secret", 0)
	if err != nil {
		t.Fatalf("unexpected error creating codec: %v", err)
	}

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestCodecRejectsExpiredToken(t *testing.T) {
	codec, err := auth.NewCodec("test-secret", time.Nanosecond)
	if err != nil {
		t.Fatalf("unexpected error creating codec: %v", err)
	}

	token, err := codec.Issue("user-1", auth.AccessAuth)
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := codec.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestCodecIssuesDistinctTokens(t *testing.T) {
	codec, err := auth.NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating codec: %v", err)
	}

	first, err := codec.Issue("user-1", auth.AccessAuth)
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}

	second, err := codec.Issue("user-1", auth.AccessAuth)
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}

	if first == second {
		t.Fatalf("expected consecutive issuances to produce distinct tokens")
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := auth.NewCodec("   ", 0); !errors.Is(err, auth.ErrSecretRequired) {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
}

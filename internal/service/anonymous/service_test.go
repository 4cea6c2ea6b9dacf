package anonymous

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"
)

func TestIssueAndLookup(t *testing.T) {
	svc := New()
	ctx := context.Background()

	access, refresh, guestID, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := uuid.FromString(guestID); err != nil {
		t.Fatalf("guest id %q is not a uuid: %v", guestID, err)
	}

	got, err := svc.LookupByToken(ctx, access)
	if err != nil || got != guestID {
		t.Fatalf("lookup: got %q err=%v", got, err)
	}
	if _, err := svc.LookupByToken(ctx, refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token must not authenticate, got %v", err)
	}

	renewed, sameGuest, err := svc.Refresh(ctx, refresh)
	if err != nil || sameGuest != guestID || renewed == access {
		t.Fatalf("refresh: token=%q guest=%q err=%v", renewed, sameGuest, err)
	}
}

func TestLookup_Expired(t *testing.T) {
	svc := New()
	ctx := context.Background()
	access, _, _, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	svc.tokens.now = func() time.Time { return time.Now().Add(4 * time.Hour) }
	if _, err := svc.LookupByToken(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token, got %v", err)
	}
	if _, ok := svc.tokens.tokens[access]; ok {
		t.Fatalf("expected expired token to be removed")
	}
}

func TestLogout_RevokesGuestTokens(t *testing.T) {
	svc := New()
	ctx := context.Background()

	access, refresh, guestID, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other, _, _, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.Logout(ctx, guestID, access, refresh, other); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token survived logout: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token survived logout: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, other); err != nil {
		t.Fatalf("other guest token must survive, got %v", err)
	}
}

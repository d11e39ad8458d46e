package static

import (
	"context"
	"errors"
	"testing"

	"github.com/cuetrack/pool-league/internal/usecase"
)

func TestVerifierResolvesPrincipal(t *testing.T) {
	t.Parallel()

	verifier := NewVerifier([]Credential{
		{Token: "tok-ada", MemberID: "ada", TeamIDs: []string{"team-1", "team-2"}},
		{Token: "tok-lin", MemberID: "lin"},
	})

	principal, err := verifier.VerifyAccessToken(context.Background(), "tok-ada")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.MemberID != "ada" {
		t.Fatalf("member = %q, want ada", principal.MemberID)
	}
	if !principal.IsMemberOf("team-2") {
		t.Fatal("expected membership of team-2")
	}

	for _, token := range []string{"", "  ", "tok-unknown"} {
		if _, err := verifier.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("token %q: err = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestParseCredentials(t *testing.T) {
	t.Parallel()

	creds, err := ParseCredentials("tok-a=ada@team-1,team-2; tok-b=bea")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("len = %d, want 2", len(creds))
	}
	if creds[0].MemberID != "ada" || len(creds[0].TeamIDs) != 2 {
		t.Fatalf("first credential = %+v", creds[0])
	}
	if creds[1].MemberID != "bea" || len(creds[1].TeamIDs) != 0 {
		t.Fatalf("second credential = %+v", creds[1])
	}

	if _, err := ParseCredentials("missing-separator"); err == nil {
		t.Fatal("expected error for malformed entry")
	}

	creds, err = ParseCredentials("   ")
	if err != nil || creds != nil {
		t.Fatalf("blank input: creds = %v, err = %v", creds, err)
	}
}

// Package static resolves bearer tokens against a fixed roster loaded at
// startup. League deployments are small enough that tokens are issued out
// of band and rotated by redeploying.
package static

import (
	"context"
	"fmt"
	"strings"

	"github.com/cuetrack/pool-league/internal/domain/user"
	"github.com/cuetrack/pool-league/internal/usecase"
)

// Credential binds one token to a league member and their teams.
type Credential struct {
	Token    string
	MemberID string
	TeamIDs  []string
}

type Verifier struct {
	byToken map[string]user.Principal
}

func NewVerifier(credentials []Credential) *Verifier {
	byToken := make(map[string]user.Principal, len(credentials))
	for _, c := range credentials {
		token := strings.TrimSpace(c.Token)
		if token == "" || strings.TrimSpace(c.MemberID) == "" {
			continue
		}
		teamIDs := make([]string, 0, len(c.TeamIDs))
		for _, id := range c.TeamIDs {
			if id = strings.TrimSpace(id); id != "" {
				teamIDs = append(teamIDs, id)
			}
		}
		byToken[token] = user.Principal{MemberID: strings.TrimSpace(c.MemberID), TeamIDs: teamIDs}
	}
	return &Verifier{byToken: byToken}
}

// ParseCredentials reads the TOKEN=MEMBER[@TEAM[,TEAM...]] form used by the
// AUTH_TOKENS setting, entries separated by semicolons.
func ParseCredentials(raw string) ([]Credential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var out []Credential
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, rest, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(token) == "" || strings.TrimSpace(rest) == "" {
			return nil, fmt.Errorf("malformed credential entry %q", entry)
		}
		memberID, teams, _ := strings.Cut(rest, "@")
		cred := Credential{Token: strings.TrimSpace(token), MemberID: strings.TrimSpace(memberID)}
		if teams != "" {
			cred.TeamIDs = strings.Split(teams, ",")
		}
		out = append(out, cred)
	}
	return out, nil
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}
	principal, ok := v.byToken[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

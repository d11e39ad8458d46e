package user

// Principal is the authenticated caller resolved from a bearer token.
// TeamIDs carries the caller's verified team memberships so downstream
// operations do not re-derive them per call.
type Principal struct {
	MemberID string
	TeamIDs  []string
}

// IsMemberOf reports whether the principal belongs to the given team.
func (p Principal) IsMemberOf(teamID string) bool {
	for _, id := range p.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

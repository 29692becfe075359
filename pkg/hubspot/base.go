package hubspot

import (
	"github.com/agentstation/apirunner/pkg/profile"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.hubapi.com"

// BaseProfile returns a base profile for the public API authenticated with a
// private-app token.
func BaseProfile(token string) profile.Profile {
	return profile.Profile{
		Name:    "hubspot",
		BaseURL: DefaultBaseURL,
		Method:  "GET",
		Headers: profile.Values{},
		Query:   profile.Values{},
		Auth: profile.AuthConfig{
			Type:        profile.AuthBearer,
			BearerToken: token,
		},
	}
}

// WithToken returns base authenticated with token when base carries no
// auth of its own. A base with explicit auth is returned unchanged.
func WithToken(base profile.Profile, token string) profile.Profile {
	if token == "" || (base.Auth.Type != "" && base.Auth.Type != profile.AuthNone) {
		return base
	}
	out := base.Clone()
	out.Auth = profile.AuthConfig{Type: profile.AuthBearer, BearerToken: token}
	return out
}

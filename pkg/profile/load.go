package profile

import (
	"github.com/agentstation/apirunner/internal/codec"
)

// Load reads a profile from a YAML or JSON file and validates it.
func Load(path string) (Profile, error) {
	var p Profile
	if err := codec.DecodeFileStrict(path, &p); err != nil {
		return Profile{}, err
	}
	return normalize(p)
}

// Parse decodes a profile from data in the given format ("yaml" or "json").
func Parse(data []byte, format string) (Profile, error) {
	var p Profile
	if err := codec.DecodeStrict(data, codec.Format(format), &p); err != nil {
		return Profile{}, err
	}
	return normalize(p)
}

func normalize(p Profile) (Profile, error) {
	method, err := ParseMethod(p.Method)
	if err != nil {
		return Profile{}, err
	}
	p.Method = method
	if p.Auth.Type == "" {
		p.Auth.Type = AuthNone
	}
	if p.Headers == nil {
		p.Headers = Values{}
	}
	if p.Query == nil {
		p.Query = Values{}
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

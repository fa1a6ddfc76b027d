package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
)

// NormalizeInput trims both fields, lowercases the URL host and strips a
// trailing slash so equivalent submissions share a cache entry.
func NormalizeInput(in domain.Input) (domain.Input, error) {
	out := domain.Input{
		WebsiteURL:      strings.TrimSpace(in.WebsiteURL),
		IdeaDescription: strings.TrimSpace(in.IdeaDescription),
	}
	if out.WebsiteURL == "" && out.IdeaDescription == "" {
		return out, fmt.Errorf("%w: website_url or idea_description is required", domain.ErrInvalidInput)
	}

	if out.WebsiteURL != "" {
		u, err := url.Parse(out.WebsiteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return out, fmt.Errorf("%w: website_url must be an http or https URL", domain.ErrInvalidInput)
		}
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
		u.Fragment = ""
		out.WebsiteURL = strings.TrimRight(u.String(), "/")
	}

	if out.IdeaDescription != "" {
		n := utf8.RuneCountInString(out.IdeaDescription)
		if n < domain.MinIdeaLength || n > domain.MaxIdeaLength {
			return out, fmt.Errorf("%w: idea_description must be %d-%d characters",
				domain.ErrInvalidInput, domain.MinIdeaLength, domain.MaxIdeaLength)
		}
	}
	return out, nil
}

// InputHash identifies a normalized input in the cache and in stored rows.
func InputHash(in domain.Input) string {
	sum := sha256.Sum256([]byte("url:" + in.WebsiteURL + "\nidea:" + in.IdeaDescription))
	return hex.EncodeToString(sum[:])
}

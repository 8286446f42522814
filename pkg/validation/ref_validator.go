package validation

import (
	"net/url"
	"strings"

	apperrors "go-channel-histogram/internal/errors"
)

// RefValidator validates image refs before they reach a fetcher.
type RefValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewRefValidator creates a validator accepting http and https URLs from
// any host.
func NewRefValidator() *RefValidator {
	return &RefValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewRefValidatorWithOptions creates a validator with custom scheme and
// host allowlists.
func NewRefValidatorWithOptions(schemes []string, hosts []string) *RefValidator {
	return &RefValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateURL checks that a remote image ref is an acceptable URL.
func (v *RefValidator) ValidateURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}
	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}
	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	if len(v.allowedHosts) > 0 && !v.isHostAllowed(parsedURL.Host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}
	return nil
}

func (v *RefValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

func (v *RefValidator) isHostAllowed(host string) bool {
	for _, allowed := range v.allowedHosts {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	return false
}

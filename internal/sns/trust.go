package sns

import (
	"net/url"
	"regexp"
	"strings"
)

var signerHost = regexp.MustCompile(`^sns\.[a-z0-9-]+\.amazonaws\.com(\.cn)?$`)

// TrustedURL reports whether raw points at the SNS service over https.
// Certificate and subscription URLs are only fetched when this holds.
func TrustedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "https" || u.User != nil || u.Port() != "" {
		return false
	}
	return signerHost.MatchString(strings.ToLower(u.Hostname()))
}

// TrustedCertURL is TrustedURL plus the requirement that the path names a
// PEM file.
func TrustedCertURL(raw string) bool {
	if !TrustedURL(raw) {
		return false
	}
	u, _ := url.Parse(raw)
	return strings.HasSuffix(u.Path, ".pem")
}

// Package allowlist restricts evidence collection to a vetted set of
// source domains.
package allowlist

import (
	"net/url"
	"sort"
	"strings"
)

// AllowList holds the normalized set of permitted domains. It is
// immutable after construction and safe for concurrent use.
type AllowList struct {
	domains map[string]struct{}
}

// New builds an AllowList from raw domain entries. Entries are
// lowercased and stripped of a leading "www."; empties are dropped.
func New(domains []string) *AllowList {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = normalize(d)
		if d == "" {
			continue
		}
		set[d] = struct{}{}
	}
	return &AllowList{domains: set}
}

// Allowed reports whether domain matches an entry exactly or is a
// subdomain of one. "foo.bar.com" matches the entry "bar.com";
// "xbar.com" does not. No wildcard syntax.
func (a *AllowList) Allowed(domain string) bool {
	domain = normalize(domain)
	if domain == "" {
		return false
	}
	if _, ok := a.domains[domain]; ok {
		return true
	}
	for entry := range a.domains {
		if strings.HasSuffix(domain, "."+entry) {
			return true
		}
	}
	return false
}

// AllowedURL extracts the host from rawURL and checks Allowed.
func (a *AllowList) AllowedURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return a.Allowed(u.Hostname())
}

// Domains returns the normalized entries, sorted.
func (a *AllowList) Domains() []string {
	out := make([]string, 0, len(a.domains))
	for d := range a.domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of entries.
func (a *AllowList) Len() int { return len(a.domains) }

func normalize(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "www.")
	return d
}

package auth

import (
	"net/url"
	"strings"
)

// AccessTokenKey is the fragment parameter carrying the access token.
const AccessTokenKey = "access_token"

// ParseFragment parses the key=value pairs of a URL fragment.
//
// Pairs are separated by '&' or ';'. Values are percent-decoded exactly
// once; '+' is left as is. A key without '=' maps to an empty value, and
// keys that do not appear have no entry. When any value cannot be decoded
// the fragment is treated as unparseable and an empty map is returned,
// even if other pairs are well formed:
//
//	ParseFragment("access_token=abc%20def&state=x") // {access_token: "abc def", state: "x"}
//	ParseFragment("a=%zz&access_token=t")           // {} (no token, not logged in)
//
// ParseFragment never fails.
func ParseFragment(fragment string) map[string]string {
	params := make(map[string]string)

	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return params
	}

	pairs := strings.FieldsFunc(fragment, func(r rune) bool {
		return r == '&' || r == ';'
	})

	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}

		decoded, err := url.PathUnescape(value)
		if err != nil {
			return make(map[string]string)
		}
		params[key] = decoded
	}

	return params
}

// FragmentOf returns the raw text after the first '#' in rawURL, or an
// empty string when there is none.
func FragmentOf(rawURL string) string {
	_, fragment, found := strings.Cut(strings.TrimSpace(rawURL), "#")
	if !found {
		return ""
	}
	return fragment
}

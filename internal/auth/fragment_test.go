package auth

import (
	"reflect"
	"testing"
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     map[string]string
	}{
		{
			name:     "empty fragment",
			fragment: "",
			want:     map[string]string{},
		},
		{
			name:     "access token decoded once",
			fragment: "access_token=abc%20def",
			want:     map[string]string{"access_token": "abc def"},
		},
		{
			name:     "double encoded value decoded only once",
			fragment: "access_token=abc%2520def",
			want:     map[string]string{"access_token": "abc%20def"},
		},
		{
			name:     "ampersand and semicolon separators",
			fragment: "access_token=tok;token_type=Bearer&expires_in=3600",
			want: map[string]string{
				"access_token": "tok",
				"token_type":   "Bearer",
				"expires_in":   "3600",
			},
		},
		{
			name:     "leading hash tolerated",
			fragment: "#access_token=tok",
			want:     map[string]string{"access_token": "tok"},
		},
		{
			name:     "plus is not a space",
			fragment: "q=a+b",
			want:     map[string]string{"q": "a+b"},
		},
		{
			name:     "key without value is present and empty",
			fragment: "flag&access_token=tok",
			want:     map[string]string{"flag": "", "access_token": "tok"},
		},
		{
			name:     "value may contain equals",
			fragment: "state=a=b",
			want:     map[string]string{"state": "a=b"},
		},
		{
			name:     "empty pairs skipped",
			fragment: "&&access_token=tok;;",
			want:     map[string]string{"access_token": "tok"},
		},
		{
			name:     "missing key skipped",
			fragment: "=orphan&access_token=tok",
			want:     map[string]string{"access_token": "tok"},
		},
		{
			name:     "last duplicate wins",
			fragment: "access_token=one&access_token=two",
			want:     map[string]string{"access_token": "two"},
		},
		{
			name:     "malformed escape yields empty map",
			fragment: "access_token=abc%zz&state=x",
			want:     map[string]string{},
		},
		{
			name:     "bad escape in another pair discards the token",
			fragment: "a=%zz&access_token=t",
			want:     map[string]string{},
		},
		{
			name:     "truncated escape yields empty map",
			fragment: "access_token=abc%2",
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFragment(tt.fragment)
			if got == nil {
				t.Fatal("ParseFragment returned nil map")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFragment(%q) = %v, want %v", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestParseFragment_AbsentKeyHasNoEntry(t *testing.T) {
	params := ParseFragment("token_type=Bearer")
	if _, ok := params[AccessTokenKey]; ok {
		t.Errorf("expected no %s entry, got %q", AccessTokenKey, params[AccessTokenKey])
	}
}

func TestFragmentOf(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"http://127.0.0.1:8888/#access_token=tok&state=s", "access_token=tok&state=s"},
		{"  http://127.0.0.1:8888/callback#a=b#c  ", "a=b#c"},
		{"http://127.0.0.1:8888/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.rawURL, func(t *testing.T) {
			if got := FragmentOf(tt.rawURL); got != tt.want {
				t.Errorf("FragmentOf(%q) = %q, want %q", tt.rawURL, got, tt.want)
			}
		})
	}
}

package nintendo

import "testing"

func TestParseRedirect(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected *RedirectResult
	}{
		{
			"full fragment",
			"npf5c38e31cd085304b://auth#state=S&session_token_code=C&session_state=T",
			&RedirectResult{SessionTokenCode: "C", State: "S", SessionState: "T"},
		},
		{
			"fragment key order does not matter",
			"npf71b963c1b7b6d119://auth#session_state=T&state=S&session_token_code=C",
			&RedirectResult{SessionTokenCode: "C", State: "S", SessionState: "T"},
		},
		{
			"query parameters on the base URL are ignored",
			"npf5c38e31cd085304b://auth?foo=bar#state=S&session_token_code=C&session_state=T",
			&RedirectResult{SessionTokenCode: "C", State: "S", SessionState: "T"},
		},
		{
			"missing state values stay empty",
			"npf5c38e31cd085304b://auth#session_token_code=C",
			&RedirectResult{SessionTokenCode: "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRedirect(tt.url)
			if err != nil {
				t.Fatalf("ParseRedirect(%q) error = %v", tt.url, err)
			}
			if *result != *tt.expected {
				t.Errorf("ParseRedirect(%q) = %+v, expected %+v", tt.url, result, tt.expected)
			}
		})
	}
}

func TestParseRedirectErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no fragment", "npf5c38e31cd085304b://auth?state=S&session_token_code=C"},
		{"fragment missing session_token_code", "npf5c38e31cd085304b://auth#state=S&session_state=T"},
		{"empty input", ""},
		{"empty fragment", "npf5c38e31cd085304b://auth#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRedirect(tt.url)
			if err == nil {
				t.Fatalf("ParseRedirect(%q) = %+v, expected error", tt.url, result)
			}
			if !IsStep(err, ErrRedirectParse) {
				t.Errorf("ParseRedirect(%q) error = %v, expected redirect parse error", tt.url, err)
			}
		})
	}
}

package validators

import "testing"

// solo los casos malformados, que se resuelven sin tocar la red

func TestIsEmailDomainValidMalformed(t *testing.T) {
	for _, email := range []string{"", "sin-arroba", "colgado@", "@"} {
		if IsEmailDomainValid(email) {
			t.Errorf("%q should be rejected before any lookup", email)
		}
	}
}

func TestEmailDomainExtraction(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"ana@example.com", "example.com"},
		{"ANA@EXAMPLE.COM", "example.com"},
		{"raro@con@arrobas.com", "arrobas.com"},
		{"sin-dominio@", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := emailDomain(tc.email); got != tc.want {
			t.Errorf("emailDomain(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

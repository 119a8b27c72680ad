package digest

import "testing"

func TestPassword(t *testing.T) {
	// sha256("password")
	const want = "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"
	if got := Password("password"); got != want {
		t.Errorf("Password = %s, want %s", got, want)
	}
	if !IsPassword(want) {
		t.Error("IsPassword(digest) = false")
	}
	for _, s := range []string{"", "password", want[:10], "5E884898DA28047151D0E56F8DC6292773603D0D6AABBDD62A11EF721D1542D8"} {
		if IsPassword(s) {
			t.Errorf("IsPassword(%q) = true", s)
		}
	}
}

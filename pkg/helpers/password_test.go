package helpers

import "testing"

func TestHashAndCompare(t *testing.T) {
	h, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatal(err)
	}
	if h == "s3cret!" || !CompareHashAndPassword(h, "s3cret!") || CompareHashAndPassword(h, "other") {
		t.Fatal("bcrypt round trip failed")
	}
}

func TestPasswordPolicy(t *testing.T) {
	p := PasswordPolicy{MinLength: 8}
	cases := []struct {
		name  string
		pw    string
		attrs []string
		fails bool
	}{
		{"ok", "Tr0ub4dor&3", []string{"alice", "alice@example.com"}, false},
		{"short", "Ab1!", nil, true},
		{"numeric", "8675309123", nil, true},
		{"common", "Password123", nil, true},
		{"contains username", "alice-2024!", []string{"alice"}, true},
		{"contains email local part", "xx-jdoe-xx", []string{"jdoe@example.com"}, true},
		{"short attrs ignored", "ab-Secure-99", []string{"ab", "a@b.c"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Check(tc.pw, tc.attrs...)
			if (len(got) > 0) != tc.fails {
				t.Fatalf("Check(%q) = %v, want fail=%v", tc.pw, got, tc.fails)
			}
		})
	}
	if got := (PasswordPolicy{}).Check("abc"); len(got) != 0 {
		t.Fatalf("zero MinLength should skip the length rule: %v", got)
	}
}

package password

import (
	"errors"
	"strings"
	"testing"
)

func testHasher(t *testing.T) *Hasher {
	t.Helper()
	// Smaller than DefaultParams so the full suite stays fast.
	h, err := NewHasher(Params{
		MemoryKB:    8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher(t)

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := h.Verify("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected verification to succeed")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	h := testHasher(t)

	hash, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := h.Verify("wrong-password", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestHashSaltsDiffer(t *testing.T) {
	h := testHasher(t)

	first, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical; salt is not fresh")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := testHasher(t)

	cases := []string{
		"",
		"not-a-phc-hash",
		"$argon2id$v=19$m=8192,t=1,p=1$short",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$!!!",
		"$argon2id$v=18$m=8192,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
	}
	for _, in := range cases {
		if _, err := h.Verify("password", in); !errors.Is(err, ErrHashMalformed) {
			t.Errorf("Verify(%q) = %v, want ErrHashMalformed", in, err)
		}
	}
}

func TestVerifyForeignAlgorithm(t *testing.T) {
	h := testHasher(t)

	scrypt := "$scrypt$v=1$ln=16,r=8,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA"
	if _, err := h.Verify("password", scrypt); !errors.Is(err, ErrHashAlgorithm) {
		t.Fatalf("Verify(scrypt hash) = %v, want ErrHashAlgorithm", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	weak := testHasher(t)

	strong, err := NewHasher(DefaultParams())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	hash, err := weak.Hash("upgrade-me")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	needs, err := strong.NeedsRehash(hash)
	if err != nil {
		t.Fatalf("NeedsRehash error: %v", err)
	}
	if !needs {
		t.Fatal("expected NeedsRehash=true for hash with weaker parameters")
	}

	current, err := strong.Hash("upgrade-me")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	needs, err = strong.NeedsRehash(current)
	if err != nil {
		t.Fatalf("NeedsRehash error: %v", err)
	}
	if needs {
		t.Fatal("expected NeedsRehash=false for hash at current parameters")
	}
}

func TestNewHasherRejectsWeakParams(t *testing.T) {
	cases := []Params{
		{MemoryKB: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{MemoryKB: 8192, Time: 0, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{MemoryKB: 8192, Time: 1, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		{MemoryKB: 8192, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 32},
		{MemoryKB: 8192, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8},
	}
	for i, p := range cases {
		if _, err := NewHasher(p); err == nil {
			t.Errorf("case %d: NewHasher accepted weak params %+v", i, p)
		}
	}
}

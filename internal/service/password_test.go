package service

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher()

	digest, err := hasher.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if digest == "s3cret-password" {
		t.Fatalf("digest must not equal the plaintext")
	}

	if !hasher.Verify("s3cret-password", digest) {
		t.Fatalf("expected verify to succeed for matching password")
	}
	if hasher.Verify("wrong-password", digest) {
		t.Fatalf("expected verify to fail for wrong password")
	}
}

func TestPasswordVerifyMalformedDigest(t *testing.T) {
	hasher := NewPasswordHasher()

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$bad"} {
		if hasher.Verify("anything", digest) {
			t.Fatalf("expected verify to be false for malformed digest %q", digest)
		}
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct digests for repeated hashing")
	}
}

// Package password implements password hashing and verification with
// Argon2id.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Hasher.Verify] always recomputes under the parameters stored in the hash,
// so parameter changes never invalidate existing credentials;
// [Hasher.NeedsRehash] tells the caller when a stored hash should be
// re-derived on the next successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve credentials; callers supply plaintext and receive
//     encoded hashes.
//   - Import any other authcore package.
//   - Log plaintext passwords or hash material.
package password

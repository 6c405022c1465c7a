// Package password provides the hashing schemes passforge offers for
// storing generated or user-supplied passwords.
//
// Two schemes are available. Digest is a salted, iterated wrapper over a
// standard cryptographic digest (sha256 or sha512) whose salt and
// iteration count come from the random sampler, matching the legacy
// format the rest of the system expects. Argon2 is an argon2id hasher
// with PHC-encoded output for new deployments. Both encode every
// parameter needed for verification into the hash string itself.
package password

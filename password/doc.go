// Package password implements password hashing and verification.
//
// Two hashers are provided. [Bcrypt] is the default and reads hashes in the
// common "$2a$"/"$2b$"/"$2y$" forms. [Argon2] produces PHC strings with
// unpadded base64 salt and key:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>
//
// Both expose Matches(plain, hash) bool and NeedsUpgrade. Hash and Matches
// share one plaintext check: empty input and input over the hasher's byte
// limit are refused by Hash and never match. bcrypt is capped at
// [MaxBcryptPasswordBytes]; argon2id at Config.MaxPasswordBytes.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other tokengate package.
//   - Log plaintext passwords or hashes.
package password

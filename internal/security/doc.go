// Package security derives the read-only posture report exposed by
// Engine.SecurityReport.
//
// # What this package must NOT do
//
//   - Read or expose the signing secret. Only its length is reported.
//   - Import tokengate or any sibling package.
package security

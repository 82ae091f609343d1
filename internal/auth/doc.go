// Package auth issues and verifies the bearer tokens guarding Heima's
// mutating API routes.
//
// Tokens are HS256 JWTs signed with security.jwt.secret. There is no user
// database: a token names a subject and a role, and only RoleOperator may
// change state or send commands. RoleViewer tokens are accepted on reads.
package auth

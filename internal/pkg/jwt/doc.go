// Package jwt verifies the staff access tokens that guard the operator API.
//
// Tokens are HS512-signed and carry the staff user id and role. The role is
// what authorization policies are evaluated against.
package jwt

// Package auth provides the authentication primitives used by the service
// layer: typed JWT issuance and validation, bcrypt password hashing and
// one-time numeric code generation.
package auth

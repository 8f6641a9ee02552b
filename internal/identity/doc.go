// Package identity manages the two account kinds of GenFam Core:
// patients (individuals, who may hold clinical metadata and family
// membership) and health professionals (identity only).
//
// Both kinds share a single invariant: an email address, when present,
// is unique across the union of patients and professionals. The
// Directory type models that union as a tagged lookup over both
// repositories, probing patients first (the order login relies on).
//
// The package also owns credential handling (bcrypt password hashing,
// password/email/sex/birth-date validation) and session tokens (signed
// JWT claims with a fixed 24-hour expiry). Tokens are stateless: claims
// are a point-in-time snapshot of the record, not a live view.
package identity

// Package family manages family groups of patients sharing
// genetic/health history.
//
// Membership is a back-reference on the patient row (family_id): a
// patient belongs to at most one family at a time, and a family always
// has at least its creator at creation time. The two multi-statement
// operations — creating a family and adding a member — run inside
// explicit transactions so a family row is never observable without its
// creator's membership, and a failed add leaves no partial member.
//
// Leaving a family never deletes the family row, even when it becomes
// memberless.
package family

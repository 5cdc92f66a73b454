package api

import "errors"

// ErrOwnerMismatch is returned when an asserted identity does not own the
// requested resource. This comparison is the multi-tenancy boundary: any
// mismatch is a hard failure, never a softer outcome.
var ErrOwnerMismatch = errors.New("owner mismatch")

// CheckPathOwner verifies that the owner segment of the request path equals
// the identity asserted by the caller's token. Exact, case-sensitive.
func CheckPathOwner(pathOwner, tokenOwner string) error {
	if pathOwner != tokenOwner {
		return ErrOwnerMismatch
	}
	return nil
}

// CheckRecordOwner verifies that a fetched record's stored owner equals the
// asserted identity. Runs in addition to the path check on every
// single-resource operation: the record's owner is authoritative and the
// path is caller-supplied.
func CheckRecordOwner(recordOwner, tokenOwner string) error {
	if recordOwner != tokenOwner {
		return ErrOwnerMismatch
	}
	return nil
}

// Package authz implements the ownership gate for owner-scoped resources.
package authz

import (
	"crypto/subtle"
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

// CheckOwner permits access only when the requesting identity equals the
// resource owner. On mismatch it returns common.ErrorDenied, the single
// internal deny outcome. The HTTP boundary maps that sentinel and a missing
// resource to the same ambiguous status so callers cannot probe whether a
// resource exists (IDOR hardening).
func CheckOwner(userID, ownerID string) error {
	if userID == "" || ownerID == "" {
		return common.ErrorDenied
	}
	if subtle.ConstantTimeCompare([]byte(userID), []byte(ownerID)) != 1 {
		return common.ErrorDenied
	}
	return nil
}

// DenyStatus validates the configured ambiguous deny status. Both 403 and
// 404 satisfy the contract; the choice is policy, not logic, and callers
// must never branch on which one is active.
func DenyStatus(status int) int {
	if status == http.StatusForbidden {
		return http.StatusForbidden
	}
	return http.StatusNotFound
}

// Package scoring implements the lead scoring heuristics: email quality,
// review sentiment, and the two-stage scoring engine that blends them with
// business metadata into a single lead score.
package scoring

import "strings"

// rolePrefixes are generic mailbox names that identify a shared inbox
// rather than a person. An address whose local part matches or starts
// with one of these is filtered from extraction and scored as non-personal.
var rolePrefixes = []string{
	"info",
	"support",
	"help",
	"admin",
	"sales",
	"contact",
	"office",
	"billing",
	"customerservice",
	"noreply",
	"no-reply",
	"service",
	"team",
}

// IsRoleLocal reports whether the given local part (text before the @)
// names a generic role inbox.
func IsRoleLocal(local string) bool {
	local = strings.ToLower(local)
	for _, prefix := range rolePrefixes {
		if local == prefix || strings.HasPrefix(local, prefix) {
			return true
		}
	}
	return false
}

// IsRoleAddress reports whether a full email address belongs to a generic
// role inbox. Addresses without an @ are not role addresses.
func IsRoleAddress(email string) bool {
	local, _, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	return IsRoleLocal(local)
}

// Package directory unifies the platform's client and internal user lists.
package directory

import (
	"sort"

	"github.com/aretw0/fieldboard/pkg/core"
)

// Merge tags each user with its origin and returns clients followed by internal users.
// Entries are not de-duplicated: a user id present in both lists appears twice.
func Merge(clients, internal []core.DirectoryUser) []core.UnifiedUser {
	users := make([]core.UnifiedUser, 0, len(clients)+len(internal))
	users = appendTagged(users, clients, core.OriginClient)
	users = appendTagged(users, internal, core.OriginInternal)
	return users
}

func appendTagged(dst []core.UnifiedUser, src []core.DirectoryUser, origin core.Origin) []core.UnifiedUser {
	for _, u := range src {
		dst = append(dst, core.UnifiedUser{
			ID:         u.ID,
			GivenName:  u.GivenName,
			FamilyName: u.FamilyName,
			Email:      u.Email,
			Origin:     origin,
		})
	}
	return dst
}

// Collisions returns the sorted ids that appear under more than one origin.
func Collisions(users []core.UnifiedUser) []string {
	origins := make(map[string]map[core.Origin]bool)
	for _, u := range users {
		if origins[u.ID] == nil {
			origins[u.ID] = make(map[core.Origin]bool)
		}
		origins[u.ID][u.Origin] = true
	}

	var ids []string
	for id, seen := range origins {
		if len(seen) > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ByOrigin returns the users with the given origin, in order.
func ByOrigin(users []core.UnifiedUser, origin core.Origin) []core.UnifiedUser {
	var out []core.UnifiedUser
	for _, u := range users {
		if u.Origin == origin {
			out = append(out, u)
		}
	}
	return out
}

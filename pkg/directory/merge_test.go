package directory_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/directory"
)

func users(prefix string, n int) []core.DirectoryUser {
	out := make([]core.DirectoryUser, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, core.DirectoryUser{
			ID:         fmt.Sprintf("%s-%d", prefix, i),
			GivenName:  "Given",
			FamilyName: "Family",
			Email:      fmt.Sprintf("%s%d@example.com", prefix, i),
		})
	}
	return out
}

func TestMerge_UnionSize(t *testing.T) {
	cases := []struct{ m, n int }{{0, 0}, {3, 0}, {0, 2}, {4, 5}}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d+%d", tc.m, tc.n), func(t *testing.T) {
			merged := directory.Merge(users("c", tc.m), users("i", tc.n))
			require.Len(t, merged, tc.m+tc.n)

			for i, u := range merged {
				if i < tc.m {
					assert.Equal(t, core.OriginClient, u.Origin)
					assert.Equal(t, fmt.Sprintf("c-%d", i), u.ID)
				} else {
					assert.Equal(t, core.OriginInternal, u.Origin)
					assert.Equal(t, fmt.Sprintf("i-%d", i-tc.m), u.ID)
				}
			}
		})
	}
}

func TestMerge_KeepsFields(t *testing.T) {
	merged := directory.Merge([]core.DirectoryUser{{ID: "c1", GivenName: "Ada", FamilyName: "Lovelace", Email: "ada@example.com"}}, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, core.UnifiedUser{ID: "c1", GivenName: "Ada", FamilyName: "Lovelace", Email: "ada@example.com", Origin: core.OriginClient}, merged[0])
}

func TestCollisions(t *testing.T) {
	shared := core.DirectoryUser{ID: "same"}
	merged := directory.Merge(
		[]core.DirectoryUser{shared, {ID: "c1"}},
		[]core.DirectoryUser{{ID: "i1"}, shared},
	)

	assert.Len(t, merged, 4, "colliding ids are not de-duplicated")
	assert.Equal(t, []string{"same"}, directory.Collisions(merged))
	assert.Len(t, directory.ByOrigin(merged, core.OriginInternal), 2)
}

func TestCollisions_SameOriginDuplicateIsNotCollision(t *testing.T) {
	merged := directory.Merge([]core.DirectoryUser{{ID: "c"}, {ID: "c"}}, nil)
	assert.Empty(t, directory.Collisions(merged))
}

package entities

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func TestDeriveProfile(t *testing.T) {
	testCases := []struct {
		name     string
		role     Role
		isClient bool
		expected Profile
	}{
		{"administrative admin", RoleAdministrator, false, ProfileAdminAdm},
		{"administrative manager", RoleManager, false, ProfileManagerAdm},
		{"administrative functional", RoleFunctional, false, ProfileFunctionalAdm},
		{"client admin", RoleAdministrator, true, ProfileAdminClient},
		{"client manager", RoleManager, true, ProfileManagerClient},
		{"client functional", RoleFunctional, true, ProfileFunctionalClient},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Role: tc.role, IsClient: tc.isClient}
			assert.Equal(t, tc.expected, DeriveProfile(u))
		})
	}
}

// Every (role, is_client) combination must map to some profile; values
// outside the role enum fall back to Unknown instead of panicking.
func TestDeriveProfileTotality(t *testing.T) {
	for role := -1; role <= 5; role++ {
		for _, isClient := range []bool{false, true} {
			u := &User{Role: Role(role), IsClient: isClient}
			profile := DeriveProfile(u)
			if Role(role).Valid() {
				assert.NotEqual(t, ProfileUnknown, profile, "role %d client=%v", role, isClient)
			} else {
				assert.Equal(t, ProfileUnknown, profile, "role %d client=%v", role, isClient)
			}
		}
	}
}

func TestDeriveProfileNilUser(t *testing.T) {
	assert.Equal(t, ProfileUnknown, DeriveProfile(nil))
}

func TestProfileIsClient(t *testing.T) {
	assert.True(t, ProfileAdminClient.IsClient())
	assert.True(t, ProfileManagerClient.IsClient())
	assert.True(t, ProfileFunctionalClient.IsClient())
	assert.False(t, ProfileAdminAdm.IsClient())
	assert.False(t, ProfileManagerAdm.IsClient())
	assert.False(t, ProfileFunctionalAdm.IsClient())
	assert.False(t, ProfileUnknown.IsClient())
}

func TestDeriveProfileIgnoresPartner(t *testing.T) {
	// The partner link does not participate in profile derivation; it only
	// matters when the visibility filter is built.
	withPartner := &User{Role: RoleFunctional, IsClient: true, PartnerID: null.StringFrom("p-1")}
	without := &User{Role: RoleFunctional, IsClient: true}
	assert.Equal(t, DeriveProfile(withPartner), DeriveProfile(without))
}

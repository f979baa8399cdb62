package entities

// Profile is the access profile derived from (role, is_client). It drives
// the mandatory ticket visibility predicate and is never persisted.
type Profile int

const (
	ProfileUnknown Profile = iota
	ProfileAdminAdm
	ProfileManagerAdm
	ProfileFunctionalAdm
	ProfileAdminClient
	ProfileManagerClient
	ProfileFunctionalClient
)

func (p Profile) String() string {
	switch p {
	case ProfileAdminAdm:
		return "admin-adm"
	case ProfileManagerAdm:
		return "manager-adm"
	case ProfileFunctionalAdm:
		return "functional-adm"
	case ProfileAdminClient:
		return "admin-client"
	case ProfileManagerClient:
		return "manager-client"
	case ProfileFunctionalClient:
		return "functional-client"
	}
	return ""
}

// IsClient reports whether the profile belongs to a client organization.
func (p Profile) IsClient() bool {
	switch p {
	case ProfileAdminClient, ProfileManagerClient, ProfileFunctionalClient:
		return true
	}
	return false
}

// DeriveProfile maps (role, is_client) onto the six known profiles.
// A nil user or a role outside the enum yields ProfileUnknown.
func DeriveProfile(u *User) Profile {
	if u == nil {
		return ProfileUnknown
	}
	switch u.Role {
	case RoleAdministrator:
		if u.IsClient {
			return ProfileAdminClient
		}
		return ProfileAdminAdm
	case RoleManager:
		if u.IsClient {
			return ProfileManagerClient
		}
		return ProfileManagerAdm
	case RoleFunctional:
		if u.IsClient {
			return ProfileFunctionalClient
		}
		return ProfileFunctionalAdm
	default:
		return ProfileUnknown
	}
}

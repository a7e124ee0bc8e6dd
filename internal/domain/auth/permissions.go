package auth

import "sort"

type Permission string

const (
	PermBookingsView    Permission = "bookings.view"
	PermBookingsManage  Permission = "bookings.manage"
	PermBookingsCheckIn Permission = "bookings.checkin"
	PermCustomersView   Permission = "customers.view"
	PermCatalogManage   Permission = "catalog.manage"
	PermPostsManage     Permission = "posts.manage"
	PermMediaManage     Permission = "media.manage"
	PermStaffManage     Permission = "staff.manage"
	PermSettingsManage  Permission = "settings.manage"
	PermNerdCoinAdjust  Permission = "nerdcoin.adjust"
)

var staffPermissions = []Permission{
	PermBookingsView,
	PermBookingsManage,
	PermBookingsCheckIn,
	PermCustomersView,
	PermMediaManage,
}

var managerPermissions = append(append([]Permission{}, staffPermissions...),
	PermCatalogManage,
	PermPostsManage,
	PermNerdCoinAdjust,
)

var adminPermissions = append(append([]Permission{}, managerPermissions...),
	PermStaffManage,
	PermSettingsManage,
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleCustomer: {},
	RoleStaff:    toSet(staffPermissions),
	RoleManager:  toSet(managerPermissions),
	RoleAdmin:    toSet(adminPermissions),
}

func (r Role) Can(p Permission) bool {
	return rolePermissions[r][p]
}

func (r Role) Permissions() []Permission {
	set := rolePermissions[r]
	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toSet(perms []Permission) map[Permission]bool {
	set := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set
}

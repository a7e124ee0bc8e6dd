package staff

import "errors"

var (
	ErrNotStaffRole   = errors.New("role must be STAFF, MANAGER or ADMIN")
	ErrNotStaffMember = errors.New("user is not a staff member")
	ErrSelfLockout    = errors.New("you cannot deactivate or demote yourself")
)

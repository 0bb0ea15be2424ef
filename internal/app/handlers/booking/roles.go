package booking

import authsvc "courtly/internal/app/services/auth"

var (
	lessorOnly = []string{authsvc.RoleLessor}
	userOnly   = []string{authsvc.RoleUser}
)

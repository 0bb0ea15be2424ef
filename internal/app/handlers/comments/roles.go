package comments

import authsvc "courtly/internal/app/services/auth"

var (
	userOnly      = []string{authsvc.RoleUser}
	moderatorOnly = []string{authsvc.RoleModerator}
)

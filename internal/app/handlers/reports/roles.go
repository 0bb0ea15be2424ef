package reports

import authsvc "courtly/internal/app/services/auth"

var (
	lessorOnly    = []string{authsvc.RoleLessor}
	moderatorOnly = []string{authsvc.RoleModerator}
)

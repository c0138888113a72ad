package service

import (
	"trialops/internal/domain"
	"trialops/internal/models"
)

// VisibleTo reports whether the user is a valid recipient of the
// notification. For direct rows that is ownership. For broadcasts the
// elevated-role policy applies first (Admins and System Administrators see
// everything, Principal Investigators everything within their study access),
// then the recipient snapshot taken at fan-out time, then the canonical
// role-set match for rows created without a snapshot. protocol is the
// trial's access token; events without a trial scope skip the study test.
func VisibleTo(u *models.User, n *models.Notification, protocol string) bool {
	if !n.IsBroadcast() {
		return *n.UserID == u.ID
	}
	accessOK := n.TrialID == nil || u.HasStudyAccess(protocol)
	switch domain.VisibilityFor(u.Role) {
	case domain.VisibilityAll:
		return true
	case domain.VisibilityAllInStudy:
		return accessOK
	}
	if len(n.TargetUsers) > 0 {
		return n.TargetsUser(u.ID)
	}
	return domain.RoleSetContains(n.TargetRoles, u.Role) && accessOK
}

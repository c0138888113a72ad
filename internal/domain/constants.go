package domain

// Role taxonomy, mirrors the user directory.
const (
	RoleSystemAdmin           = "System Administrator"
	RoleAdmin                 = "Admin"
	RolePrincipalInvestigator = "Principal Investigator"
	RoleDataManager           = "Data Manager"
	RoleCRA                   = "Clinical Research Associate"
	RoleStudyCoordinator      = "Study Coordinator"
	RoleSafetyOfficer         = "Safety Officer"
	RoleMedicalMonitor        = "Medical Monitor"
)

// AllStudies is the study-access sentinel meaning unrestricted access.
const AllStudies = "All Studies"

const (
	TypeTask       = "task"
	TypeSignal     = "signal"
	TypeSystem     = "system"
	TypeProtocol   = "protocol"
	TypeQuery      = "query"
	TypeData       = "data"
	TypeMonitoring = "monitoring"
	TypeSafety     = "safety"
)

const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
	PriorityInfo     = "info"
)

const (
	ChannelPush  = "push"
	ChannelEmail = "email"
)

// Visibility levels for broadcast notifications.
const (
	VisibilityAll        = "all"          // sees every broadcast regardless of targeting
	VisibilityAllInStudy = "all_in_study" // sees every broadcast within its study access
	VisibilityTargeted   = "targeted"     // sees only broadcasts that target it
)

// RoleVisibility is the elevated-role policy table. Roles not listed are
// targeted. Adding an elevated role is a data change here, not a code change.
var RoleVisibility = map[string]string{
	RoleSystemAdmin:           VisibilityAll,
	RoleAdmin:                 VisibilityAll,
	RolePrincipalInvestigator: VisibilityAllInStudy,
}

// VisibilityFor returns the broadcast visibility level for a role.
func VisibilityFor(role string) string {
	if v, ok := RoleVisibility[role]; ok {
		return v
	}
	return VisibilityTargeted
}

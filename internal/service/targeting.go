package service

import (
	"log"
	"strconv"
	"time"

	"trialops/internal/domain"
	"trialops/internal/models"
	"trialops/internal/repository"
)

// Event is the trigger a fan-out starts from: a task created, a signal
// detected, a protocol amendment published.
type Event struct {
	EventKey          string     `json:"event_key"`
	Type              string     `json:"type"`
	Priority          string     `json:"priority"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	TrialID           *uint      `json:"trial_id"`
	AssignedRole      string     `json:"assigned_role"`
	AssigneeID        *uint      `json:"assignee_id"`
	DueDate           *time.Time `json:"due_date"`
	Source            string     `json:"source"`
	RelatedEntityType string     `json:"related_entity_type"`
	RelatedEntityID   *uint      `json:"related_entity_id"`
	ActionURL         string     `json:"action_url"`
}

// TargetingService computes the candidate recipient set for an event.
type TargetingService struct {
	users  *repository.UserRepository
	trials *repository.TrialRepository
}

func NewTargetingService(users *repository.UserRepository, trials *repository.TrialRepository) *TargetingService {
	return &TargetingService{users: users, trials: trials}
}

// ProtocolToken resolves a trial id to its protocol number. When the trial
// cannot be resolved the raw id doubles as the access token, so targeting
// still works against access lists that store ids.
func (s *TargetingService) ProtocolToken(trialID *uint) string {
	if trialID == nil {
		return ""
	}
	t, err := s.trials.GetByID(*trialID)
	if err != nil {
		log.Printf("[targeting] trial %d protocol lookup: %v", *trialID, err)
		return strconv.FormatUint(uint64(*trialID), 10)
	}
	return t.ProtocolNumber
}

// Resolve returns the deduplicated candidate set for the event:
//  1. users in the assigned role passing the study-access test,
//  2. falling back to the role alone, then to System Administrators, so an
//     event is never silently dropped,
//  3. unioned with Principal Investigators passing the study test and with
//     every Admin and System Administrator regardless of study.
func (s *TargetingService) Resolve(ev Event) ([]models.User, error) {
	token := s.ProtocolToken(ev.TrialID)

	roleMembers, err := s.users.ListByRole(ev.AssignedRole)
	if err != nil {
		return nil, err
	}
	primary := filterByStudyAccess(roleMembers, ev.TrialID, token)
	if len(primary) == 0 {
		primary = roleMembers
	}
	if len(primary) == 0 {
		primary, err = s.users.ListByRole(domain.RoleSystemAdmin)
		if err != nil {
			return nil, err
		}
	}

	pis, err := s.users.ListByRole(domain.RolePrincipalInvestigator)
	if err != nil {
		return nil, err
	}
	admins, err := s.users.ListByRoles([]string{domain.RoleAdmin, domain.RoleSystemAdmin})
	if err != nil {
		return nil, err
	}

	combined := append([]models.User{}, primary...)
	combined = append(combined, filterByStudyAccess(pis, ev.TrialID, token)...)
	combined = append(combined, admins...)
	return dedupeUsers(combined), nil
}

// filterByStudyAccess keeps users allowed to see the trial. Events without a
// trial scope pass everyone through.
func filterByStudyAccess(users []models.User, trialID *uint, token string) []models.User {
	if trialID == nil {
		return users
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.HasStudyAccess(token) {
			out = append(out, u)
		}
	}
	return out
}

// dedupeUsers keeps the first occurrence per user id, so a user matched by
// several targeting rules appears once.
func dedupeUsers(users []models.User) []models.User {
	seen := make(map[uint]struct{}, len(users))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}

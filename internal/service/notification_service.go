package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"trialops/internal/domain"
	"trialops/internal/models"
	"trialops/internal/repository"
	"trialops/pkg/mailer"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationService is the fan-out orchestrator and read ledger. It
// composes the targeting resolver, the preference gate and the repositories,
// and calls the email channel best-effort.
type NotificationService struct {
	notifications *repository.NotificationRepository
	readStatuses  *repository.ReadStatusRepository
	users         *repository.UserRepository
	trials        *repository.TrialRepository
	targeting     *TargetingService
	prefs         *PreferenceService
	mail          mailer.Sender
	cache         *CountCache
}

func NewNotificationService(
	notifications *repository.NotificationRepository,
	readStatuses *repository.ReadStatusRepository,
	users *repository.UserRepository,
	trials *repository.TrialRepository,
	targeting *TargetingService,
	prefs *PreferenceService,
	mail mailer.Sender,
	cache *CountCache,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		readStatuses:  readStatuses,
		users:         users,
		trials:        trials,
		targeting:     targeting,
		prefs:         prefs,
		mail:          mail,
		cache:         cache,
	}
}

// NotifyEvent resolves the event's recipients, gates them per preference and
// creates the notification rows: a direct row for a single primary assignee,
// one shared broadcast row for the remaining audience. The email channel is
// invoked per surviving recipient afterwards; its failures never roll back
// the rows.
func (s *NotificationService) NotifyEvent(ctx context.Context, ev Event) ([]models.Notification, error) {
	candidates, err := s.targeting.Resolve(ev)
	if err != nil {
		return nil, err
	}

	survivors := make([]models.User, 0, len(candidates))
	for _, u := range candidates {
		if s.prefs.ShouldDeliver(u.ID, domain.ChannelPush, ev.Priority) {
			survivors = append(survivors, u)
		}
	}
	if len(survivors) == 0 {
		return nil, nil
	}

	key := ev.EventKey
	if key == "" {
		key = uuid.NewString()
	}

	var created []models.Notification

	audience := survivors
	if ev.AssigneeID != nil {
		rest := make([]models.User, 0, len(survivors))
		for _, u := range survivors {
			if u.ID == *ev.AssigneeID {
				direct := s.buildNotification(ev, fmt.Sprintf("%s:u%d", key, u.ID))
				direct.UserID = &u.ID
				inserted, err := s.notifications.Create(&direct)
				if err != nil {
					return nil, err
				}
				if inserted {
					created = append(created, direct)
				}
				continue
			}
			rest = append(rest, u)
		}
		audience = rest
	}

	if len(audience) > 0 {
		ids := make([]uint, 0, len(audience))
		for _, u := range audience {
			ids = append(ids, u.ID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		broadcast := s.buildNotification(ev, key)
		broadcast.TargetRoles = datatypes.NewJSONSlice(domain.NormalizeRoleSet([]string{ev.AssignedRole}))
		broadcast.TargetUsers = datatypes.NewJSONSlice(ids)
		inserted, err := s.notifications.Create(&broadcast)
		if err != nil {
			return nil, err
		}
		if inserted {
			created = append(created, broadcast)
		}
	}

	// A replayed event key lands on the conflict path everywhere: nothing was
	// inserted, so nobody's count moved and the emails already went out.
	if len(created) == 0 {
		return nil, nil
	}

	s.sendEmails(ctx, ev, survivors)

	ids := make([]uint, 0, len(survivors))
	for _, u := range survivors {
		ids = append(ids, u.ID)
	}
	s.cache.Invalidate(ctx, ids...)

	return created, nil
}

func (s *NotificationService) buildNotification(ev Event, eventKey string) models.Notification {
	return models.Notification{
		EventKey:          eventKey,
		Title:             ev.Title,
		Description:       ev.Description,
		Type:              ev.Type,
		Priority:          ev.Priority,
		TrialID:           ev.TrialID,
		Source:            ev.Source,
		RelatedEntityType: ev.RelatedEntityType,
		RelatedEntityID:   ev.RelatedEntityID,
		ActionURL:         ev.ActionURL,
	}
}

func (s *NotificationService) sendEmails(ctx context.Context, ev Event, survivors []models.User) {
	if s.mail == nil {
		return
	}
	trial := s.targeting.ProtocolToken(ev.TrialID)
	for _, u := range survivors {
		if !s.prefs.ShouldDeliver(u.ID, domain.ChannelEmail, ev.Priority) {
			continue
		}
		delivered := s.mail.Send(ctx, mailer.Delivery{
			To:                u.Email,
			Title:             ev.Title,
			Description:       ev.Description,
			Type:              ev.Type,
			Priority:          ev.Priority,
			Trial:             trial,
			DueDate:           ev.DueDate,
			Source:            ev.Source,
			RelatedEntityType: ev.RelatedEntityType,
			RelatedEntityID:   ev.RelatedEntityID,
			ActionURL:         ev.ActionURL,
		})
		if !delivered {
			log.Printf("[fanout] email to user %d not delivered", u.ID)
		}
	}
}

// NotificationView is a notification annotated with the caller's read state.
type NotificationView struct {
	models.Notification
	Read   bool       `json:"read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

// List returns the notifications visible to the user: own direct rows plus
// visible broadcasts, each annotated with per-user read state.
func (s *NotificationService) List(ctx context.Context, userID uint, includeRead bool) ([]NotificationView, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	direct, err := s.notifications.ListDirect(userID, includeRead)
	if err != nil {
		return nil, err
	}

	var broadcasts []models.Notification
	readRows := map[uint]models.NotificationReadStatus{}
	if includeRead {
		if broadcasts, err = s.notifications.ListBroadcasts(); err != nil {
			return nil, err
		}
		if readRows, err = s.readStatuses.ReadNotificationIDs(userID); err != nil {
			return nil, err
		}
	} else {
		if broadcasts, err = s.notifications.ListUnreadBroadcasts(userID); err != nil {
			return nil, err
		}
	}

	protocols, err := s.protocolsFor(broadcasts)
	if err != nil {
		return nil, err
	}

	out := make([]NotificationView, 0, len(direct)+len(broadcasts))
	for _, n := range direct {
		out = append(out, NotificationView{Notification: n, Read: n.IsRead, ReadAt: n.ReadAt})
	}
	for _, n := range broadcasts {
		if !VisibleTo(user, &n, protocolOf(protocols, n.TrialID)) {
			continue
		}
		v := NotificationView{Notification: n}
		if row, ok := readRows[n.ID]; ok {
			readAt := row.ReadAt
			v.Read = true
			v.ReadAt = &readAt
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetUnreadCount counts unread direct rows plus visible broadcasts without a
// ledger entry. The two partitions are disjoint by construction, so nothing
// is counted twice.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uint) (int, error) {
	if n, ok := s.cache.Get(ctx, userID); ok {
		return n, nil
	}

	directCount, err := s.notifications.CountUnreadDirect(userID)
	if err != nil {
		return 0, err
	}

	visible, err := s.visibleUnreadBroadcasts(userID)
	if err != nil {
		return 0, err
	}

	total := int(directCount) + len(visible)
	s.cache.Set(ctx, userID, total)
	return total, nil
}

// MarkAsRead marks the given notifications read for the user. Direct rows
// transition monotonically; broadcasts get an insert-once ledger row. The
// operation is idempotent: a second call with the same ids is a no-op.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	notifs, err := s.notifications.GetByIDs(ids)
	if err != nil {
		return err
	}

	now := time.Now()
	var directIDs []uint
	var ledger []models.NotificationReadStatus
	broadcasts := make([]models.Notification, 0, len(notifs))
	for _, n := range notifs {
		if n.IsBroadcast() {
			broadcasts = append(broadcasts, n)
		} else if *n.UserID == userID {
			directIDs = append(directIDs, n.ID)
		}
	}

	protocols, err := s.protocolsFor(broadcasts)
	if err != nil {
		return err
	}
	for _, n := range broadcasts {
		if VisibleTo(user, &n, protocolOf(protocols, n.TrialID)) {
			ledger = append(ledger, models.NotificationReadStatus{
				NotificationID: n.ID,
				UserID:         userID,
				ReadAt:         now,
			})
		}
	}

	if err := s.notifications.MarkDirectRead(userID, directIDs, now); err != nil {
		return err
	}
	if err := s.readStatuses.InsertIgnore(ledger); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// MarkAllAsRead converges the user's unread count to zero. Safe to repeat.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	now := time.Now()
	if err := s.notifications.MarkAllDirectRead(userID, now); err != nil {
		return err
	}

	visible, err := s.visibleUnreadBroadcasts(userID)
	if err != nil {
		return err
	}
	ledger := make([]models.NotificationReadStatus, 0, len(visible))
	for _, n := range visible {
		ledger = append(ledger, models.NotificationReadStatus{
			NotificationID: n.ID,
			UserID:         userID,
			ReadAt:         now,
		})
	}
	if err := s.readStatuses.InsertIgnore(ledger); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

func (s *NotificationService) visibleUnreadBroadcasts(userID uint) ([]models.Notification, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.ListUnreadBroadcasts(userID)
	if err != nil {
		return nil, err
	}
	protocols, err := s.protocolsFor(unread)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Notification, 0, len(unread))
	for _, n := range unread {
		if VisibleTo(user, &n, protocolOf(protocols, n.TrialID)) {
			visible = append(visible, n)
		}
	}
	return visible, nil
}

func (s *NotificationService) protocolsFor(notifs []models.Notification) (map[uint]string, error) {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, n := range notifs {
		if n.TrialID == nil {
			continue
		}
		if _, ok := seen[*n.TrialID]; ok {
			continue
		}
		seen[*n.TrialID] = struct{}{}
		ids = append(ids, *n.TrialID)
	}
	return s.trials.ProtocolsByIDs(ids)
}

func protocolOf(protocols map[uint]string, trialID *uint) string {
	if trialID == nil {
		return ""
	}
	if p, ok := protocols[*trialID]; ok {
		return p
	}
	// protocol registry missed the trial: the raw id doubles as the token
	return fmt.Sprintf("%d", *trialID)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/queue"
	"github.com/iliyamo/museum-desk/internal/repository"
)

// MembershipChange names a lifecycle transition.
type MembershipChange string

const (
	ChangeRenew     MembershipChange = "renew"
	ChangeUpgrade   MembershipChange = "upgrade"
	ChangeDowngrade MembershipChange = "downgrade"
	ChangeCancel    MembershipChange = "cancel"
)

var changeAction = map[MembershipChange]string{
	ChangeRenew:     model.ActionMembershipRenew,
	ChangeUpgrade:   model.ActionMembershipUpgrade,
	ChangeDowngrade: model.ActionMembershipDown,
	ChangeCancel:    model.ActionMembershipCancel,
}

// ParseChange validates a transition name taken from the URL.
func ParseChange(raw string) (MembershipChange, bool) {
	c := MembershipChange(raw)
	_, ok := changeAction[c]
	return c, ok
}

// MemberView pairs a member with its derived status.
type MemberView struct {
	model.Member
	Status model.MembershipStatus `json:"status"`
}

// MembershipService applies membership lifecycle transitions. Each one is
// a single-row update followed by an activity entry.
type MembershipService struct {
	Deps
	members *repository.MemberRepo
}

func NewMembershipService(d Deps) *MembershipService {
	d = d.withDefaults()
	return &MembershipService{Deps: d, members: repository.NewMemberRepo(d.DB)}
}

// Authorize checks that id may act on memberID: staff with manage_members
// may act on anyone, members only on their own profile.
func Authorize(id auth.Identity, memberID uint64) error {
	if id.Can(auth.PermManageMembers) {
		return nil
	}
	if own, ok := id.MemberID(); ok && own == memberID && id.Can(auth.PermManageOwnMembership) {
		return nil
	}
	return ErrNotOwnMembership
}

func (s *MembershipService) view(m model.Member) MemberView {
	return MemberView{Member: m, Status: m.Status(s.Now())}
}

func (s *MembershipService) Get(ctx context.Context, memberID uint64) (MemberView, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return MemberView{}, fromRepo(err)
	}
	return s.view(m), nil
}

func (s *MembershipService) List(ctx context.Context) ([]MemberView, error) {
	ms, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MemberView, 0, len(ms))
	for _, m := range ms {
		out = append(out, s.view(m))
	}
	return out, nil
}

// Apply performs one transition. tier is read only by upgrade and
// downgrade, which must move strictly up or down the tier order.
func (s *MembershipService) Apply(ctx context.Context, actor Actor, memberID uint64, change MembershipChange, tier string) (MemberView, error) {
	action, ok := changeAction[change]
	if !ok {
		return MemberView{}, invalid("action", "unknown membership action")
	}
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return MemberView{}, fromRepo(err)
	}

	day := today(s.Now)
	next := m
	switch change {
	case ChangeRenew:
		next.StartDate, next.ExpirationDate = day, day.AddDate(1, 0, 0)
	case ChangeUpgrade, ChangeDowngrade:
		t, ok := model.ParseTier(tier)
		if !ok {
			return MemberView{}, invalid("membership_type", "unknown membership tier")
		}
		if change == ChangeUpgrade && t.Rank() <= m.Tier.Rank() ||
			change == ChangeDowngrade && t.Rank() >= m.Tier.Rank() {
			return MemberView{}, fmt.Errorf("%w: %s from %s to %s", ErrInvalidTierChange, change, m.Tier, t)
		}
		next.Tier = t
		next.StartDate, next.ExpirationDate = day, day.AddDate(1, 0, 0)
	case ChangeCancel:
		next.ExpirationDate = day
		next.AutoRenew = false
	}

	if err := s.members.UpdateTerm(ctx, m.ID, next.Tier, next.StartDate, next.ExpirationDate, next.AutoRenew); err != nil {
		return MemberView{}, err
	}

	s.Activity.Record(ctx, actor, action, "members", m.ID, describeChange(change, m, next))
	s.publish(ctx, queue.Event{
		Type:    queue.TypeMembershipChanged,
		ActorID: actor.AccountID,
		Membership: &queue.MembershipChanged{
			MemberID:   m.ID,
			Change:     string(change),
			Tier:       string(next.Tier),
			Expiration: next.ExpirationDate.Format(time.DateOnly),
		},
	})
	return s.view(next), nil
}

func describeChange(c MembershipChange, before, after model.Member) string {
	switch c {
	case ChangeUpgrade, ChangeDowngrade:
		return fmt.Sprintf("Membership %s from %s to %s, expires %s",
			c, before.Tier, after.Tier, after.ExpirationDate.Format(time.DateOnly))
	case ChangeCancel:
		return "Membership cancelled"
	default:
		return "Membership renewed until " + after.ExpirationDate.Format(time.DateOnly)
	}
}

package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
)

func TestCancelIsSoft(t *testing.T) {
	f := newFixture(t)
	svc := NewMembershipService(f.deps)
	today := day(2024, 5, 1)

	f.mock.ExpectQuery("FROM members WHERE member_id = \\?").WithArgs(int64(4)).
		WillReturnRows(memberRow(4, "family", day(2024, 1, 1), day(2025, 1, 1), true))
	f.mock.ExpectExec("UPDATE members SET").
		WithArgs("family", day(2024, 1, 1), today, false, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := svc.Apply(context.Background(), Actor{AccountID: 1}, 4, ChangeCancel, "")
	require.NoError(t, err)
	f.verify(t)
	assert.Equal(t, today, v.ExpirationDate)
	assert.False(t, v.AutoRenew)
	assert.Equal(t, model.StatusExpiringSoon, v.Status)
	assert.Equal(t, []string{model.ActionMembershipCancel}, f.activity.actions())

	// the row is still readable afterwards
	f.mock.ExpectQuery("FROM members WHERE member_id = \\?").WithArgs(int64(4)).
		WillReturnRows(memberRow(4, "family", day(2024, 1, 1), today, false))
	got, err := svc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, today, got.ExpirationDate)
	f.verify(t)
}

func TestRenewResetsDatesKeepsTier(t *testing.T) {
	f := newFixture(t)
	svc := NewMembershipService(f.deps)

	f.mock.ExpectQuery("FROM members").WillReturnRows(memberRow(4, "student", day(2023, 1, 1), day(2024, 1, 1), false))
	f.mock.ExpectExec("UPDATE members SET").
		WithArgs("student", day(2024, 5, 1), day(2025, 5, 1), false, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := svc.Apply(context.Background(), Actor{AccountID: 1}, 4, ChangeRenew, "")
	require.NoError(t, err)
	f.verify(t)
	assert.Equal(t, model.StatusActive, v.Status)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, "2025-05-01", f.events.events[0].Membership.Expiration)
}

func TestUpgradeAndDowngradeDirection(t *testing.T) {
	f := newFixture(t)
	svc := NewMembershipService(f.deps)

	f.mock.ExpectQuery("FROM members").WillReturnRows(memberRow(4, "family", day(2024, 1, 1), day(2025, 1, 1), true))
	_, err := svc.Apply(context.Background(), Actor{}, 4, ChangeUpgrade, "student")
	assert.ErrorIs(t, err, ErrInvalidTierChange)

	f.mock.ExpectQuery("FROM members").WillReturnRows(memberRow(4, "family", day(2024, 1, 1), day(2025, 1, 1), true))
	_, err = svc.Apply(context.Background(), Actor{}, 4, ChangeDowngrade, "patron")
	assert.ErrorIs(t, err, ErrInvalidTierChange)

	f.mock.ExpectQuery("FROM members").WillReturnRows(memberRow(4, "family", day(2024, 1, 1), day(2025, 1, 1), true))
	f.mock.ExpectExec("UPDATE members SET").
		WithArgs("patron", day(2024, 5, 1), day(2025, 5, 1), true, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	v, err := svc.Apply(context.Background(), Actor{}, 4, ChangeUpgrade, "Patron")
	require.NoError(t, err)
	assert.Equal(t, model.TierPatron, v.Tier)
	f.verify(t)
	assert.Equal(t, []string{model.ActionMembershipUpgrade}, f.activity.actions())
}

func TestAuthorizeMembership(t *testing.T) {
	member := auth.Identity{AccountID: 1, Role: auth.RoleMember, Profile: model.MemberProfile(4)}
	assert.NoError(t, Authorize(member, 4))
	assert.ErrorIs(t, Authorize(member, 5), ErrNotOwnMembership)

	staff := auth.Identity{AccountID: 2, Role: auth.RoleEventStaff, Profile: model.StaffProfile(9)}
	assert.NoError(t, Authorize(staff, 5))

	shop := auth.Identity{AccountID: 3, Role: auth.RoleShopStaff, Profile: model.StaffProfile(10)}
	assert.ErrorIs(t, Authorize(shop, 5), ErrNotOwnMembership)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/database"
	"github.com/iliyamo/museum-desk/internal/metrics"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/repository"
	"github.com/iliyamo/museum-desk/internal/utils"
)

// DefaultAdminTitle is given to admin staff records created without a title.
const DefaultAdminTitle = "Administrator"

// NewAccount is the input of account creation. Member fields apply to the
// member role, staff fields to every other role.
type NewAccount struct {
	Username string
	Email    string
	Password string
	Role     string

	FirstName string
	LastName  string
	Phone     string

	Tier      string
	AutoRenew bool

	DepartmentID *uint64
	Title        string
	NationalID   string
	SupervisorID *uint64
	HireDate     *time.Time
}

// AccountService creates accounts with their linked profiles and
// authenticates logins.
type AccountService struct {
	Deps
	accounts   *repository.AccountRepo
	members    *repository.MemberRepo
	staff      *repository.StaffRepo
	bcryptCost int
}

func NewAccountService(d Deps, bcryptCost int) *AccountService {
	d = d.withDefaults()
	return &AccountService{
		Deps:       d,
		accounts:   repository.NewAccountRepo(d.DB),
		members:    repository.NewMemberRepo(d.DB),
		staff:      repository.NewStaffRepo(d.DB),
		bcryptCost: bcryptCost,
	}
}

// DigitsOnly strips every non-digit from a national id.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// normalize validates in and returns the parsed role. It also strips the
// national id and fills role-conditional defaults.
func (s *AccountService) normalize(in *NewAccount) (auth.Role, error) {
	if err := required(
		[2]string{"username", in.Username},
		[2]string{"email", in.Email},
		[2]string{"password", in.Password},
		[2]string{"role", in.Role},
		[2]string{"first_name", in.FirstName},
		[2]string{"last_name", in.LastName},
	); err != nil {
		return "", err
	}
	role, err := auth.ParseRole(in.Role)
	if err != nil {
		return "", invalid("role", "unknown role")
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if role == auth.RoleMember {
		if strings.TrimSpace(in.Tier) == "" {
			in.Tier = string(model.TierIndividual)
		}
		tier, ok := model.ParseTier(in.Tier)
		if !ok {
			return "", invalid("membership_type", "unknown membership tier")
		}
		in.Tier = string(tier)
		return role, nil
	}

	in.NationalID = DigitsOnly(in.NationalID)
	if in.NationalID == "" {
		return "", invalid("national_id", "is required and must contain digits")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" && role == auth.RoleAdmin {
		in.Title = DefaultAdminTitle
	}
	return role, nil
}

// Create validates the input and, in one unit of work, creates the linked
// profile and then the account that references it. Nothing survives a
// failure at any step.
func (s *AccountService) Create(ctx context.Context, actor Actor, in NewAccount) (model.Account, error) {
	role, err := s.normalize(&in)
	if err != nil {
		return model.Account{}, err
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Now()
	day := model.DateOnly(now)
	acct := model.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role.String(),
		IsActive:     true,
		CreatedAt:    now.UTC(),
	}

	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if role == auth.RoleMember {
			m := model.Member{
				FirstName:      in.FirstName,
				LastName:       in.LastName,
				Email:          in.Email,
				Phone:          strings.TrimSpace(in.Phone),
				Tier:           model.MembershipTier(in.Tier),
				StartDate:      day,
				ExpirationDate: day.AddDate(1, 0, 0),
				AutoRenew:      in.AutoRenew,
			}
			if err := s.members.CreateTx(ctx, tx, &m); err != nil {
				return fmt.Errorf("create member profile: %w", err)
			}
			acct.Profile = model.MemberProfile(m.ID)
		} else {
			hire := day
			if in.HireDate != nil {
				hire = model.DateOnly(*in.HireDate)
			}
			st := model.Staff{
				DepartmentID: in.DepartmentID,
				FirstName:    in.FirstName,
				LastName:     in.LastName,
				Email:        in.Email,
				Title:        in.Title,
				HireDate:     hire,
				NationalID:   in.NationalID,
				SupervisorID: in.SupervisorID,
			}
			if err := s.staff.CreateTx(ctx, tx, &st); err != nil {
				return fmt.Errorf("create staff profile: %w", err)
			}
			acct.Profile = model.StaffProfile(st.ID)
		}
		return s.accounts.CreateTx(ctx, tx, &acct)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Account{}, ErrUsernameTaken
		}
		s.Log.Error("create account failed", zap.String("username", in.Username), zap.Error(err))
		return model.Account{}, err
	}

	metrics.AccountsCreated.WithLabelValues(acct.Role).Inc()
	s.Activity.Record(ctx, actor, model.ActionCreateUser, "users", acct.ID,
		fmt.Sprintf("Created %s account %q", acct.Role, acct.Username))
	return acct, nil
}

// Authenticate checks a handle and password. Legacy digests are upgraded
// to bcrypt and last_login is stamped on success.
func (s *AccountService) Authenticate(ctx context.Context, username, password string, ip string) (model.Account, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return model.Account{}, ErrInvalidCredentials
	}
	acct, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Account{}, err
	}
	if !utils.VerifyPassword(acct.PasswordHash, password) {
		return model.Account{}, ErrInvalidCredentials
	}
	if !acct.IsActive {
		return model.Account{}, ErrAccountInactive
	}

	if utils.NeedsRehash(acct.PasswordHash, s.bcryptCost) {
		if hash, err := utils.HashPassword(password, s.bcryptCost); err == nil {
			if err := s.accounts.UpdatePasswordHash(ctx, acct.ID, hash); err != nil {
				s.Log.Warn("password rehash failed", zap.Uint64("user_id", acct.ID), zap.Error(err))
			} else {
				acct.PasswordHash = hash
			}
		}
	}
	now := s.Now().UTC()
	if err := s.accounts.TouchLogin(ctx, acct.ID, now); err != nil {
		s.Log.Warn("update last_login failed", zap.Uint64("user_id", acct.ID), zap.Error(err))
	} else {
		acct.LastLogin = &now
	}

	s.Activity.Record(ctx, Actor{AccountID: acct.ID, Handle: acct.Username, IP: ip},
		model.ActionLogin, "users", acct.ID, "User logged in")
	return acct, nil
}

// Logout records the end of a session.
func (s *AccountService) Logout(ctx context.Context, actor Actor) {
	s.Activity.Record(ctx, actor, model.ActionLogout, "users", actor.AccountID, "User logged out")
}

// SetActive activates or deactivates an account.
func (s *AccountService) SetActive(ctx context.Context, actor Actor, id uint64, active bool) error {
	if err := s.accounts.SetActive(ctx, id, active); err != nil {
		return fromRepo(err)
	}
	state := "deactivated"
	if active {
		state = "activated"
	}
	s.Activity.Record(ctx, actor, model.ActionUpdateUser, "users", id, "Account "+state)
	return nil
}

func (s *AccountService) Get(ctx context.Context, id uint64) (model.Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	return a, fromRepo(err)
}

func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	return s.accounts.List(ctx)
}

package barter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// Registration is the self-service signup payload.
type Registration struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// Register creates a creator account with the starting credit balance.
func (e *Engine) Register(ctx context.Context, in Registration) (*entity.Member, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.newCreator(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSpace(in.Name)
	m.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	m.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := e.commit(ctx, ChangeSet{Members: []entity.Member{*m}}); err != nil {
		return nil, err
	}
	e.logger.Infow("member registered", "member", m.ID, "code", m.Code)
	return m, nil
}

// AddMember is the administrator shortcut: username only, default password.
func (e *Engine) AddMember(ctx context.Context, username string) (*entity.Member, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.newCreator(ctx, username, e.cfg.DefaultPassword)
	if err != nil {
		return nil, err
	}
	m.Name = username
	if err := e.commit(ctx, ChangeSet{Members: []entity.Member{*m}}); err != nil {
		return nil, err
	}
	e.logger.Infow("member added by admin", "member", m.ID, "code", m.Code)
	return m, nil
}

// newCreator builds (but does not store) a creator with the next U-nnnn code.
func (e *Engine) newCreator(ctx context.Context, username, password string) (*entity.Member, error) {
	members, err := e.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	creators := 0
	for _, m := range members {
		if m.Username == username {
			return nil, ErrDuplicateUsername
		}
		if m.Role == entity.RoleCreator {
			creators++
		}
	}
	hash, algo, err := e.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := e.now()
	m := &entity.Member{
		ID:                 e.newID("u"),
		Code:               fmt.Sprintf("U-%04d", creators+1),
		Username:           username,
		PasswordHash:       hash,
		PasswordAlgo:       algo,
		Role:               entity.RoleCreator,
		LastActivity:       now,
		LastTaskSubmission: timePtr(now),
		Active:             true,
		CreatedAt:          now,
	}
	credit(m, e.cfg.StartingCredits)
	m.Tier = entity.TierFor(m.Credits)
	return m, nil
}

// EnsureAdmin creates the administrator account if username is not taken yet.
func (e *Engine) EnsureAdmin(ctx context.Context, username, password string) (*entity.Member, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: admin username and password are required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	existing, err := e.store.GetMemberByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}
	hash, algo, err := e.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := e.now()
	m := entity.Member{
		ID:                 e.newID("a"),
		Code:               "A-0000",
		Username:           username,
		Name:               "Administrator",
		PasswordHash:       hash,
		PasswordAlgo:       algo,
		Role:               entity.RoleAdmin,
		Tier:               entity.TierFor(0),
		LastActivity:       now,
		LastTaskSubmission: timePtr(now),
		Active:             true,
		CreatedAt:          now,
	}
	if err := e.commit(ctx, ChangeSet{Members: []entity.Member{m}}); err != nil {
		return nil, err
	}
	e.logger.Infow("admin account created", "member", m.ID, "username", username)
	return &m, nil
}

// ResetPassword sets a new password when phone matches the one on file
// (digits only, so "0812-345" equals "0812 345").
func (e *Engine) ResetPassword(ctx context.Context, username, phone, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.store.GetMemberByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	want := auth.DigitsOnly(m.PhoneNumber)
	if want == "" || !auth.ConstantTimeCompare(auth.DigitsOnly(phone), want) {
		return ErrPhoneMismatch
	}
	hash, algo, err := e.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	m.PasswordHash, m.PasswordAlgo = hash, algo
	if err := e.commit(ctx, ChangeSet{Members: []entity.Member{*m}}); err != nil {
		return err
	}
	e.logger.Infow("password reset", "member", m.ID)
	return nil
}

// UpdateMember applies an administrator's allow-listed patch.
func (e *Engine) UpdateMember(ctx context.Context, id string, patch entity.MemberPatch) (*entity.Member, error) {
	if patch.Username != nil {
		u := strings.TrimSpace(*patch.Username)
		if u == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
		}
		patch.Username = &u
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Username != nil && *patch.Username != m.Username {
		other, err := e.store.GetMemberByUsername(ctx, *patch.Username)
		switch {
		case err == nil && other.ID != m.ID:
			return nil, ErrDuplicateUsername
		case err != nil && !errors.Is(err, ErrMemberNotFound):
			return nil, err
		}
	}
	patch.Apply(m)
	if err := e.commit(ctx, ChangeSet{Members: []entity.Member{*m}}); err != nil {
		return nil, err
	}
	e.markActivity(m)
	return m, nil
}

// Member returns one member by id.
func (e *Engine) Member(ctx context.Context, id string) (*entity.Member, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, err := e.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	e.markActivity(m)
	return m, nil
}

// Members lists every account (admin view).
func (e *Engine) Members(ctx context.Context) ([]entity.Member, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	members, err := e.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		e.markActivity(&members[i])
	}
	return members, nil
}

// markActivity derives Active from LastActivity at read time; the stored column is only a snapshot.
func (e *Engine) markActivity(m *entity.Member) {
	m.Active = m.IsActive(e.now(), e.cfg.InactivityWindow)
}

// Tasks lists every task (admin view).
func (e *Engine) Tasks(ctx context.Context) ([]entity.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ListTasks(ctx)
}

package barter

import (
	"errors"
	"testing"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.EnsureAdmin(f.ctx, "root", "rootpw"); err != nil {
		t.Fatal(err)
	}

	first, err := f.engine.Register(f.ctx, Registration{Name: "Alice", Username: " alice ", Password: "pw", Email: "Alice@Example.COM"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.Code != "U-0001" || first.Username != "alice" || first.Email != "alice@example.com" {
		t.Fatalf("unexpected member %+v", first)
	}
	if first.Credits != 5 || first.Tier != entity.TierBronze || first.Role != entity.RoleCreator {
		t.Fatalf("unexpected ledger defaults %+v", first)
	}

	second, err := f.engine.Register(f.ctx, Registration{Username: "bob", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if second.Code != "U-0002" {
		t.Fatalf("admin must not count toward creator codes, got %s", second.Code)
	}

	if _, err := f.engine.Register(f.ctx, Registration{Username: "alice", Password: "x"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := f.engine.Register(f.ctx, Registration{Username: "carol"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing password: expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.engine.Login(f.ctx, "alice", "pw"); err != nil {
		t.Fatalf("login after register: %v", err)
	}
}

func TestAddMemberUsesDefaultPassword(t *testing.T) {
	f := newFixture(t)
	m, err := f.engine.AddMember(f.ctx, "dave")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "dave" || m.Code != "U-0001" {
		t.Fatalf("unexpected member %+v", m)
	}
	if _, err := f.engine.Login(f.ctx, "dave", "password123"); err != nil {
		t.Fatalf("login with default password: %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	a, err := f.engine.EnsureAdmin(f.ctx, "root", "rootpw")
	if err != nil {
		t.Fatal(err)
	}
	if a.Code != "A-0000" || !a.IsAdmin() {
		t.Fatalf("unexpected admin %+v", a)
	}
	b, err := f.engine.EnsureAdmin(f.ctx, "root", "other")
	if err != nil {
		t.Fatal(err)
	}
	if b.ID != a.ID {
		t.Fatalf("second call created a new admin")
	}
	members, _ := f.engine.Members(f.ctx)
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.Register(f.ctx, Registration{Username: "alice", Password: "old", PhoneNumber: "0812-345-678"}); err != nil {
		t.Fatal(err)
	}

	if err := f.engine.ResetPassword(f.ctx, "alice", "0812000000", "new"); !errors.Is(err, ErrPhoneMismatch) {
		t.Fatalf("expected ErrPhoneMismatch, got %v", err)
	}
	if err := f.engine.ResetPassword(f.ctx, "ghost", "0812345678", "new"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	if err := f.engine.ResetPassword(f.ctx, "alice", "0812 345 678", "new"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := f.engine.Login(f.ctx, "alice", "old"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("old password still works")
	}
	if _, err := f.engine.Login(f.ctx, "alice", "new"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestResetPasswordWithoutPhoneOnFile(t *testing.T) {
	f := newFixture(t)
	f.member("alice")
	if err := f.engine.ResetPassword(f.ctx, "alice", "", "new"); !errors.Is(err, ErrPhoneMismatch) {
		t.Fatalf("expected ErrPhoneMismatch, got %v", err)
	}
}

func TestUpdateMember(t *testing.T) {
	f := newFixture(t)
	f.member("alice", func(m *entity.Member) { m.Credits = 42 })
	f.member("bob")

	name, taken := "Alice A.", "bob"
	m, err := f.engine.UpdateMember(f.ctx, "alice", entity.MemberPatch{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != name || m.Credits != 42 {
		t.Fatalf("unexpected member %+v", m)
	}
	if _, err := f.engine.UpdateMember(f.ctx, "alice", entity.MemberPatch{Username: &taken}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	empty := " "
	if _, err := f.engine.UpdateMember(f.ctx, "alice", entity.MemberPatch{Username: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.engine.UpdateMember(f.ctx, "ghost", entity.MemberPatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

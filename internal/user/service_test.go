package user

import (
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	created, err := svc.Register(User{Username: "sita", Email: "sita@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Error("expected an assigned id")
	}
	if created.Role != RoleCustomer {
		t.Errorf("expected default customer role, got %v", created.Role)
	}
	if created.Password == "hunter2" {
		t.Error("password must be stored hashed")
	}

	u, err := svc.Authenticate("sita", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != created.ID {
		t.Errorf("authenticated the wrong user: %+v", u)
	}

	if _, err := svc.Authenticate("sita", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for a bad password, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for an unknown user, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	if _, err := svc.Register(User{Username: "sita", Email: "sita@example.com", Password: "x"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(User{Username: "sita", Email: "other@example.com", Password: "x"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	if _, err := svc.Register(User{Username: "sita", Email: "sita@example.com", Password: "x"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(User{Username: "gita", Email: "sita@example.com", Password: "x"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRoleIsAdmin(t *testing.T) {
	if RoleCustomer.IsAdmin() {
		t.Error("customer must not be admin")
	}
	if !RoleAdmin.IsAdmin() {
		t.Error("admin role not recognized")
	}
}

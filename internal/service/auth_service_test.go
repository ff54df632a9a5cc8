package service

import (
	"errors"
	"testing"

	"github.com/harshgurla/codeassess/config"
	"github.com/harshgurla/codeassess/internal/auth"
	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/model"
)

func authTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TeacherEmail = "teacher@example.com"
	cfg.Auth.TeacherPassword = "teacher-pass"
	cfg.Auth.TeacherName = "The Teacher"
	return cfg
}

func newAuthService(accounts *fakeAccountRepo) AuthService {
	cfg := authTestConfig()
	return NewAuthService(accounts, auth.NewTokenManager(cfg), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newAuthService(accounts)

	reg, err := svc.Register(dto.RegisterDTO{Email: "Student@Example.com", Password: "hunter22", Name: "S"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Token == "" {
		t.Error("register returned no token")
	}
	if reg.Account.Email != "student@example.com" {
		t.Errorf("email = %q, want lowercased", reg.Account.Email)
	}
	if reg.Account.Role != model.RoleStudent {
		t.Errorf("role = %q, want student", reg.Account.Role)
	}

	stored, err := accounts.FindByEmail("student@example.com")
	if err != nil {
		t.Fatalf("account not persisted: %v", err)
	}
	if stored.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}

	login, err := svc.Login(dto.LoginDTO{Email: "student@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Token == "" {
		t.Error("login returned no token")
	}
}

func TestRegisterRejectsDuplicateAndReservedEmails(t *testing.T) {
	svc := newAuthService(newFakeAccountRepo())

	if _, err := svc.Register(dto.RegisterDTO{Email: "s@example.com", Password: "pw123456", Name: "S"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(dto.RegisterDTO{Email: "S@Example.com", Password: "pw123456", Name: "S2"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register error = %v, want ErrEmailTaken", err)
	}
	if _, err := svc.Register(dto.RegisterDTO{Email: "Teacher@Example.com", Password: "pw123456", Name: "Impostor"}); !errors.Is(err, ErrValidation) {
		t.Errorf("reserved-email register error = %v, want ErrValidation", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(newFakeAccountRepo())

	if _, err := svc.Register(dto.RegisterDTO{Email: "s@example.com", Password: "pw123456", Name: "S"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(dto.LoginDTO{Email: "s@example.com", Password: "wrong"}); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password error = %v, want ErrBadCredentials", err)
	}
	if _, err := svc.Login(dto.LoginDTO{Email: "nobody@example.com", Password: "pw123456"}); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown account error = %v, want ErrBadCredentials", err)
	}
}

func TestTeacherFirstLogin(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newAuthService(accounts)

	if _, err := svc.Login(dto.LoginDTO{Email: "teacher@example.com", Password: "wrong"}); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong teacher password error = %v, want ErrBadCredentials", err)
	}

	resp, err := svc.Login(dto.LoginDTO{Email: "Teacher@Example.com", Password: "teacher-pass"})
	if err != nil {
		t.Fatalf("teacher first login: %v", err)
	}
	if resp.Account.Role != model.RoleTeacher {
		t.Errorf("role = %q, want teacher", resp.Account.Role)
	}
	if resp.Account.Name != "The Teacher" {
		t.Errorf("name = %q", resp.Account.Name)
	}

	stored, err := accounts.FindByEmail("teacher@example.com")
	if err != nil {
		t.Fatalf("teacher account not persisted: %v", err)
	}
	if stored.PasswordHash == "teacher-pass" {
		t.Error("teacher password stored in plaintext")
	}

	// Subsequent logins hit the stored account, not the bootstrap path.
	if _, err := svc.Login(dto.LoginDTO{Email: "teacher@example.com", Password: "teacher-pass"}); err != nil {
		t.Errorf("teacher second login: %v", err)
	}
}

func TestAccountFor(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newAuthService(accounts)

	reg, err := svc.Register(dto.RegisterDTO{Email: "s@example.com", Password: "pw123456", Name: "S"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	account, err := svc.AccountFor(&auth.Claims{AccountID: reg.Account.ID})
	if err != nil {
		t.Fatalf("account for: %v", err)
	}
	if account.Email != "s@example.com" {
		t.Errorf("email = %q", account.Email)
	}

	if _, err := svc.AccountFor(&auth.Claims{AccountID: 9999}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown account error = %v, want ErrNotFound", err)
	}
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harshgurla/codeassess/config"
	"github.com/harshgurla/codeassess/internal/auth"
	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/model"
	"github.com/harshgurla/codeassess/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req dto.RegisterDTO) (*dto.AuthResponseDTO, error)
	Login(req dto.LoginDTO) (*dto.AuthResponseDTO, error)
	AccountFor(claims *auth.Claims) (*dto.AccountDTO, error)
}

type authService struct {
	accountRepo repository.AccountRepository
	tokens      *auth.TokenManager
	cfg         *config.Config
}

func NewAuthService(accountRepo repository.AccountRepository, tokens *auth.TokenManager, cfg *config.Config) AuthService {
	return &authService{accountRepo: accountRepo, tokens: tokens, cfg: cfg}
}

// Register creates a student account. The teacher account is never
// self-registered.
func (s *authService) Register(req dto.RegisterDTO) (*dto.AuthResponseDTO, error) {
	email := strings.ToLower(req.Email)
	if email == s.cfg.Auth.TeacherEmail {
		return nil, fmt.Errorf("%w: this email is reserved", ErrValidation)
	}
	if _, err := s.accountRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := model.Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		Name:         req.Name,
	}
	if err := s.accountRepo.Create(&account); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to create student account")
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.issue(&account)
}

// Login authenticates either role. The configured teacher account is created
// lazily on its first successful login.
func (s *authService) Login(req dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	email := strings.ToLower(req.Email)

	account, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		if email == s.cfg.Auth.TeacherEmail && errors.Is(err, gorm.ErrRecordNotFound) {
			return s.teacherFirstLogin(req.Password)
		}
		return nil, ErrBadCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrBadCredentials
	}
	return s.issue(account)
}

func (s *authService) teacherFirstLogin(password string) (*dto.AuthResponseDTO, error) {
	if s.cfg.Auth.TeacherPassword == "" || password != s.cfg.Auth.TeacherPassword {
		return nil, ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	account := model.Account{
		Email:        s.cfg.Auth.TeacherEmail,
		PasswordHash: string(hash),
		Role:         model.RoleTeacher,
		Name:         s.cfg.Auth.TeacherName,
	}
	if err := s.accountRepo.Create(&account); err != nil {
		log.Error().Err(err).Msg("Failed to create teacher account on first login")
		return nil, fmt.Errorf("failed to create teacher account: %w", err)
	}
	log.Info().Str("email", account.Email).Msg("Teacher account created on first login")
	return s.issue(&account)
}

func (s *authService) AccountFor(claims *auth.Claims) (*dto.AccountDTO, error) {
	account, err := s.accountRepo.FindByID(claims.AccountID)
	if err != nil {
		return nil, ErrNotFound
	}
	return &dto.AccountDTO{ID: account.ID, Email: account.Email, Role: account.Role, Name: account.Name}, nil
}

func (s *authService) issue(account *model.Account) (*dto.AuthResponseDTO, error) {
	token, err := s.tokens.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &dto.AuthResponseDTO{
		Token:   token,
		Account: dto.AccountDTO{ID: account.ID, Email: account.Email, Role: account.Role, Name: account.Name},
	}, nil
}

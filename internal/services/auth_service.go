package services

import (
	"database/sql"
	"errors"
	"time"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/auth"
	"craftbazaar/internal/domain"
	"craftbazaar/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// AuthService issues tokens and resolves them back to live accounts.
// Authentication only: role and approval gating live in the authz middleware,
// except at login where deactivated and pending-seller accounts are refused a
// token outright.
type AuthService struct {
	Users    *repos.UserRepo
	Secret   string
	TokenTTL time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: secret, TokenTTL: ttl}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type SellerRegisterInput struct {
	RegisterInput
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
}

func (s *AuthService) Register(in RegisterInput) (*domain.Account, string, error) {
	return s.register(in, domain.RoleCustomer, "", "")
}

// RegisterSeller creates a pending seller; an admin must approve it before
// the seller can log in or list products.
func (s *AuthService) RegisterSeller(in SellerRegisterInput) (*domain.Account, string, error) {
	return s.register(in.RegisterInput, domain.RoleSeller, in.BusinessName, in.BusinessAddress)
}

func (s *AuthService) register(in RegisterInput, role, bizName, bizAddr string) (*domain.Account, string, error) {
	taken, err := s.Users.EmailTaken(in.Email)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", apperr.E(apperr.Conflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	a := &domain.Account{
		ID:              uuid.NewString(),
		Email:           in.Email,
		Name:            in.Name,
		Phone:           in.Phone,
		Hash:            string(hash),
		Role:            role,
		BusinessName:    bizName,
		BusinessAddress: bizAddr,
		IsApproved:      role != domain.RoleSeller,
		IsActive:        true,
	}
	if err := s.Users.Create(a); err != nil {
		return nil, "", err
	}

	token, err := s.issue(a)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}

// Login verifies the password, then applies the account gates: deactivated
// accounts never authenticate, pending sellers are refused a token even with
// a correct password.
func (s *AuthService) Login(email, password string) (*domain.Account, string, error) {
	a, err := s.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperr.E(apperr.Unauthenticated, "invalid email or password")
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return nil, "", apperr.E(apperr.Unauthenticated, "invalid email or password")
	}
	if !a.IsActive {
		return nil, "", apperr.E(apperr.Forbidden, "account has been deactivated")
	}
	if a.Role == domain.RoleSeller && !a.IsApproved {
		return nil, "", apperr.E(apperr.Forbidden, "seller account is pending approval")
	}

	token, err := s.issue(a)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}

// Resolve maps a bearer token back to its live account. Stale tokens for
// deleted accounts fail here; isActive/isApproved are deliberately not
// checked (that is the role gates' job).
func (s *AuthService) Resolve(tokenStr string) (*domain.Account, error) {
	claims, err := auth.ValidateToken(s.Secret, tokenStr)
	if err != nil {
		return nil, apperr.E(apperr.Unauthenticated, "invalid or expired token")
	}
	a, err := s.Users.ByID(claims.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.Unauthenticated, "account no longer exists")
		}
		return nil, err
	}
	return a, nil
}

func (s *AuthService) issue(a *domain.Account) (string, error) {
	return auth.GenerateToken(s.Secret, s.TokenTTL, a.ID, a.Role)
}

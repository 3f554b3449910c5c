package services

import (
	"database/sql"
	"errors"
	"strings"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/domain"
	"craftbazaar/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountService owns profile and address maintenance for the calling
// account.
type AccountService struct {
	Users *repos.UserRepo
	Auth  *AuthService
}

func NewAccountService(users *repos.UserRepo, auth *AuthService) *AccountService {
	return &AccountService{Users: users, Auth: auth}
}

type Profile struct {
	Account   *domain.Account  `json:"account"`
	Addresses []domain.Address `json:"addresses"`
}

func (s *AccountService) Profile(accountID string) (Profile, error) {
	a, err := s.Users.ByID(accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, apperr.E(apperr.NotFound, "account not found")
		}
		return Profile{}, err
	}
	addrs, err := s.Users.Addresses(accountID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Account: a, Addresses: addrs}, nil
}

type ProfileUpdateInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profileImage"`
	Password     string `json:"password"` // empty keeps the current one
}

// UpdateProfile overwrites the mutable profile fields and re-issues a token,
// matching the register/login response shape.
func (s *AccountService) UpdateProfile(accountID string, in ProfileUpdateInput) (*domain.Account, string, error) {
	a, err := s.Users.ByID(accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperr.E(apperr.NotFound, "account not found")
		}
		return nil, "", err
	}

	if !strings.EqualFold(in.Email, a.Email) {
		taken, err := s.Users.EmailTaken(in.Email)
		if err != nil {
			return nil, "", err
		}
		if taken {
			return nil, "", apperr.E(apperr.Conflict, "an account with this email already exists")
		}
	}

	a.Name = in.Name
	a.Email = in.Email
	a.Phone = in.Phone
	a.ProfileImage = in.ProfileImage
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return nil, "", err
		}
		a.Hash = string(hash)
	}

	if err := s.Users.UpdateProfile(a); err != nil {
		return nil, "", err
	}
	token, err := s.Auth.issue(a)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}

type AddressInput struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

// AddAddress appends an address; a new default atomically displaces any
// previous default.
func (s *AccountService) AddAddress(accountID string, in AddressInput) ([]domain.Address, error) {
	a := &domain.Address{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		IsDefault:  in.IsDefault,
	}
	if err := s.Users.AddAddress(a); err != nil {
		return nil, err
	}
	return s.Users.Addresses(accountID)
}

func (s *AccountService) UpdateAddress(accountID, addressID string, in AddressInput) ([]domain.Address, error) {
	existing, err := s.Users.AddressByID(accountID, addressID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "address not found")
		}
		return nil, err
	}

	existing.Street = in.Street
	existing.City = in.City
	existing.State = in.State
	existing.PostalCode = in.PostalCode
	existing.Country = in.Country
	existing.IsDefault = in.IsDefault
	if err := s.Users.UpdateAddress(existing); err != nil {
		return nil, err
	}
	return s.Users.Addresses(accountID)
}

func (s *AccountService) DeleteAddress(accountID, addressID string) error {
	removed, err := s.Users.DeleteAddress(accountID, addressID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.E(apperr.NotFound, "address not found")
	}
	return nil
}

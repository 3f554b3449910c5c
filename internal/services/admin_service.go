package services

import (
	"database/sql"
	"errors"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/domain"
	"craftbazaar/internal/repos"
)

const (
	recentOrdersLimit = 5
	topProductsLimit  = 5
	adminPageSize     = 10
)

// AdminService serves moderation and the dashboard rollups. Every dashboard
// call recomputes from live data; nothing is cached.
type AdminService struct {
	Users  *repos.UserRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
}

func NewAdminService(users *repos.UserRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *AdminService {
	return &AdminService{Users: users, Prods: prods, Orders: orders}
}

type DashboardStats struct {
	TotalUsers    int                    `json:"totalUsers"`
	TotalSellers  int                    `json:"totalSellers"`
	TotalProducts int                    `json:"totalProducts"`
	TotalOrders   int                    `json:"totalOrders"`
	TotalRevenue  float64                `json:"totalRevenue"`
	RecentOrders  []repos.RecentOrderRow `json:"recentOrders"`
	TopProducts   []repos.ProductRow     `json:"topProducts"`
}

func (s *AdminService) Dashboard() (DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.TotalUsers, err = s.Users.CountByRole(domain.RoleCustomer); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalSellers, err = s.Users.CountByRole(domain.RoleSeller); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalProducts, err = s.Prods.CountAll(); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalOrders, err = s.Orders.Count(); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalRevenue, err = s.Orders.Revenue(); err != nil {
		return DashboardStats{}, err
	}
	if stats.RecentOrders, err = s.Orders.Recent(recentOrdersLimit); err != nil {
		return DashboardStats{}, err
	}
	if stats.TopProducts, err = s.Prods.Top(topProductsLimit); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

type AccountPage struct {
	Users []domain.Account `json:"users"`
	Page  int              `json:"page"`
	Pages int              `json:"pages"`
	Count int              `json:"count"`
}

func (s *AdminService) ListUsers(page int) (AccountPage, error) {
	if page < 1 {
		page = 1
	}
	count, err := s.Users.Count()
	if err != nil {
		return AccountPage{}, err
	}
	users, err := s.Users.List(adminPageSize, adminPageSize*(page-1))
	if err != nil {
		return AccountPage{}, err
	}
	return AccountPage{
		Users: users,
		Page:  page,
		Pages: (count + adminPageSize - 1) / adminPageSize,
		Count: count,
	}, nil
}

func (s *AdminService) GetUser(id string) (*domain.Account, error) {
	a, err := s.Users.ByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "user not found")
		}
		return nil, err
	}
	return a, nil
}

type AdminUserUpdateInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	IsApproved bool   `json:"isApproved"`
	IsActive   bool   `json:"isActive"`
}

func (s *AdminService) UpdateUser(id string, in AdminUserUpdateInput) (*domain.Account, error) {
	a, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	switch in.Role {
	case domain.RoleCustomer, domain.RoleSeller, domain.RoleAdmin:
	default:
		return nil, apperr.E(apperr.Validation, "unknown role")
	}

	a.Name = in.Name
	a.Email = in.Email
	a.Phone = in.Phone
	a.Role = in.Role
	a.IsApproved = in.IsApproved
	a.IsActive = in.IsActive
	if err := s.Users.AdminUpdate(a); err != nil {
		return nil, err
	}
	return s.GetUser(id)
}

// DeactivateUser is the admin "delete": a soft flag, reversible only through
// a direct admin edit.
func (s *AdminService) DeactivateUser(id string) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	return s.Users.Deactivate(id)
}

func (s *AdminService) PendingSellers() ([]domain.Account, error) {
	return s.Users.PendingSellers()
}

// ApproveSeller sets the approval flag; re-approving an approved seller is a
// no-op, and "reject" simply leaves the flag false.
func (s *AdminService) ApproveSeller(id string, approved bool) (*domain.Account, error) {
	a, err := s.GetUser(id)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.E(apperr.NotFound, "seller not found")
		}
		return nil, err
	}
	if a.Role != domain.RoleSeller {
		return nil, apperr.E(apperr.Validation, "user is not a seller")
	}
	if err := s.Users.SetApproval(id, approved); err != nil {
		return nil, err
	}
	return s.GetUser(id)
}

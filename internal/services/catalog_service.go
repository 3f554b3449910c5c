package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/domain"
	"craftbazaar/internal/repos"

	"github.com/google/uuid"
)

const (
	pageSize      = 10
	featuredLimit = 8
	topLimit      = 5
	maxImages     = 5
)

// CatalogService owns product and category reads plus the seller/admin
// mutations on them. Soft-deleted products are invisible to public reads but
// never physically removed.
type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

type ProductPage struct {
	Products []repos.ProductRow `json:"products"`
	Page     int                `json:"page"`
	Pages    int                `json:"pages"`
	Count    int                `json:"count"`
}

// ListProducts applies the AND-combined filter over active products. A page
// beyond range yields an empty list, not an error.
func (s *CatalogService) ListProducts(f repos.Filter, page int) (ProductPage, error) {
	if page < 1 {
		page = 1
	}
	count, err := s.Prods.Count(f)
	if err != nil {
		return ProductPage{}, err
	}
	items, err := s.Prods.List(f, pageSize, pageSize*(page-1))
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		Products: items,
		Page:     page,
		Pages:    (count + pageSize - 1) / pageSize,
		Count:    count,
	}, nil
}

func (s *CatalogService) Featured() ([]repos.ProductRow, error) {
	return s.Prods.Featured(featuredLimit)
}

func (s *CatalogService) Top() ([]repos.ProductRow, error) {
	return s.Prods.Top(topLimit)
}

// GetProduct hides soft-deleted products from direct lookup.
func (s *CatalogService) GetProduct(id string) (*repos.ProductRow, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "product not found")
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, apperr.E(apperr.NotFound, "product not found")
	}
	return p, nil
}

func (s *CatalogService) SellerProducts(sellerID string, page int) (ProductPage, error) {
	if page < 1 {
		page = 1
	}
	count, err := s.Prods.CountBySeller(sellerID)
	if err != nil {
		return ProductPage{}, err
	}
	items, err := s.Prods.BySeller(sellerID, pageSize, pageSize*(page-1))
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		Products: items,
		Page:     page,
		Pages:    (count + pageSize - 1) / pageSize,
		Count:    count,
	}, nil
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Images      []string        `json:"images"`
	CategoryID  string          `json:"category"`
	Stock       int             `json:"countInStock"`
	CraftType   string          `json:"craftType"`
	Region      string          `json:"region"`
	Tags        []string        `json:"tags"`
	Materials   []string        `json:"materials"`
	Dimensions  json.RawMessage `json:"dimensions"`
	Weight      json.RawMessage `json:"weight"`
}

func (in ProductInput) check(s *CatalogService) error {
	switch {
	case in.Name == "":
		return apperr.E(apperr.Validation, "product name is required")
	case in.Description == "":
		return apperr.E(apperr.Validation, "product description is required")
	case in.Price < 0:
		return apperr.E(apperr.Validation, "price must not be negative")
	case in.Stock < 0:
		return apperr.E(apperr.Validation, "stock must not be negative")
	case in.CraftType == "":
		return apperr.E(apperr.Validation, "craft type is required")
	case in.Region == "":
		return apperr.E(apperr.Validation, "region is required")
	case len(in.Images) > maxImages:
		return apperr.Errorf(apperr.Validation, "at most %d images allowed", maxImages)
	}

	cat, err := s.Cats.Get(in.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.Validation, "invalid category")
		}
		return err
	}
	if !cat.IsActive {
		return apperr.E(apperr.Validation, "invalid category")
	}
	return nil
}

func jsonList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// CreateProduct lists a product under the calling seller. Callers pass
// through the approved-seller gate before reaching here; ownership is fixed
// at creation.
func (s *CatalogService) CreateProduct(sellerID string, in ProductInput) (*repos.ProductRow, error) {
	if err := in.check(s); err != nil {
		return nil, err
	}

	p := &domain.Product{
		ID:             uuid.NewString(),
		SellerID:       sellerID,
		CategoryID:     in.CategoryID,
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		ImagesJSON:     jsonList(in.Images),
		Stock:          in.Stock,
		CraftType:      in.CraftType,
		Region:         in.Region,
		TagsJSON:       jsonList(in.Tags),
		MaterialsJSON:  jsonList(in.Materials),
		DimensionsJSON: string(in.Dimensions),
		WeightJSON:     string(in.Weight),
	}
	if err := s.Prods.Create(p); err != nil {
		return nil, err
	}
	return s.Prods.Get(p.ID)
}

// UpdateProduct replaces the descriptive fields. Only the owning seller or
// an admin may update; ownership itself never changes. Approval is re-checked
// here because a token outlives an admin revoking it.
func (s *CatalogService) UpdateProduct(actor *domain.Account, id string, in ProductInput) (*repos.ProductRow, error) {
	existing, err := s.Prods.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "product not found")
		}
		return nil, err
	}
	if existing.SellerID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, apperr.E(apperr.Forbidden, "you can only update your own products")
	}
	if actor.Role == domain.RoleSeller && !actor.IsApproved {
		return nil, apperr.E(apperr.Forbidden, "seller account not approved yet")
	}
	if err := in.check(s); err != nil {
		return nil, err
	}

	p := existing.Product
	p.CategoryID = in.CategoryID
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.ImagesJSON = jsonList(in.Images)
	p.Stock = in.Stock
	p.CraftType = in.CraftType
	p.Region = in.Region
	p.TagsJSON = jsonList(in.Tags)
	p.MaterialsJSON = jsonList(in.Materials)
	p.DimensionsJSON = string(in.Dimensions)
	p.WeightJSON = string(in.Weight)

	if err := s.Prods.Update(&p); err != nil {
		return nil, err
	}
	return s.Prods.Get(id)
}

// DeleteProduct soft-deletes: carts and orders may still reference the row.
func (s *CatalogService) DeleteProduct(actor *domain.Account, id string) error {
	existing, err := s.Prods.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, "product not found")
		}
		return err
	}
	if existing.SellerID != actor.ID && actor.Role != domain.RoleAdmin {
		return apperr.E(apperr.Forbidden, "you can only delete your own products")
	}
	if actor.Role == domain.RoleSeller && !actor.IsApproved {
		return apperr.E(apperr.Forbidden, "seller account not approved yet")
	}
	return s.Prods.SoftDelete(id)
}

func (s *CatalogService) FeatureProduct(id string, featured bool) (*repos.ProductRow, error) {
	if _, err := s.Prods.Get(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "product not found")
		}
		return nil, err
	}
	if err := s.Prods.SetFeatured(id, featured); err != nil {
		return nil, err
	}
	return s.Prods.Get(id)
}

// ---------- Categories ----------

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.ListActive()
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ParentID    string `json:"parentCategory"`
}

func (s *CatalogService) CreateCategory(in CategoryInput) (*domain.Category, error) {
	if in.Name == "" {
		return nil, apperr.E(apperr.Validation, "category name is required")
	}
	taken, err := s.Cats.NameTaken(in.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.E(apperr.Conflict, "category already exists")
	}
	if in.ParentID != "" {
		if _, err := s.Cats.Get(in.ParentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperr.E(apperr.Validation, "invalid parent category")
			}
			return nil, err
		}
	}

	c := &domain.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		ParentID:    in.ParentID,
		IsActive:    true,
	}
	if err := s.Cats.Create(c); err != nil {
		return nil, err
	}
	return s.Cats.Get(c.ID)
}

func (s *CatalogService) UpdateCategory(id string, in CategoryInput, isActive bool) (*domain.Category, error) {
	c, err := s.Cats.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "category not found")
		}
		return nil, err
	}
	if in.Name == "" {
		return nil, apperr.E(apperr.Validation, "category name is required")
	}
	if !strings.EqualFold(in.Name, c.Name) {
		taken, err := s.Cats.NameTaken(in.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.E(apperr.Conflict, "category already exists")
		}
	}
	if in.ParentID != "" {
		if in.ParentID == id {
			return nil, apperr.E(apperr.Validation, "category cannot be its own parent")
		}
		if _, err := s.Cats.Get(in.ParentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperr.E(apperr.Validation, "invalid parent category")
			}
			return nil, err
		}
	}

	c.Name = in.Name
	c.Description = in.Description
	c.Image = in.Image
	c.ParentID = in.ParentID
	c.IsActive = isActive
	if err := s.Cats.Update(c); err != nil {
		return nil, err
	}
	return s.Cats.Get(id)
}

// DeleteCategory removes a category only when no product references it;
// otherwise it is marked inactive. Reports whether the row was removed.
func (s *CatalogService) DeleteCategory(id string) (bool, error) {
	if _, err := s.Cats.Get(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, apperr.E(apperr.NotFound, "category not found")
		}
		return false, err
	}
	n, err := s.Prods.CountInCategory(id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, s.Cats.MarkInactive(id)
	}
	return true, s.Cats.Delete(id)
}

package services

import (
	"database/sql"
	"errors"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/repos"
)

// CartService owns the one-cart-per-account aggregate. Every mutation
// re-validates against live product state; stock is checked at mutation time
// only, with no reservation, so checkout must re-validate.
type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type CartView struct {
	ID    string              `json:"id"`
	Items []repos.CartLineRow `json:"items"`
	Total float64             `json:"total"`
}

func (s *CartService) view(cartID string) (CartView, error) {
	items, err := s.Carts.Lines(cartID)
	if err != nil {
		return CartView{}, err
	}
	total := 0.0
	for _, it := range items {
		total += it.Subtotal
	}
	return CartView{ID: cartID, Items: items, Total: total}, nil
}

// GetOrCreate returns the account's cart with populated line items, creating
// an empty cart on first access. Never fails for a valid account.
func (s *CartService) GetOrCreate(accountID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(accountID)
	if err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

// checkProduct validates a (product, quantity) pair against live state.
func (s *CartService) checkProduct(productID string, qty int) error {
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, "product not found")
		}
		return err
	}
	if !p.IsActive {
		return apperr.E(apperr.Unavailable, "product is no longer available")
	}
	if qty > p.Stock {
		return apperr.E(apperr.InsufficientStock, "not enough stock available")
	}
	return nil
}

// AddOrSetItem writes the line quantity for a product. If the line already
// exists its quantity is replaced, not incremented.
func (s *CartService) AddOrSetItem(accountID, productID string, qty int) (CartView, error) {
	if qty < 1 {
		return CartView{}, apperr.E(apperr.Validation, "quantity must be a positive integer")
	}
	if err := s.checkProduct(productID, qty); err != nil {
		return CartView{}, err
	}
	cartID, err := s.Carts.EnsureCart(accountID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.SetItem(cartID, productID, qty); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

// UpdateQuantity overwrites an existing line; missing cart or line is
// NotFound.
func (s *CartService) UpdateQuantity(accountID, productID string, qty int) (CartView, error) {
	if qty < 1 {
		return CartView{}, apperr.E(apperr.Validation, "quantity must be a positive integer")
	}
	if err := s.checkProduct(productID, qty); err != nil {
		return CartView{}, err
	}
	cartID, err := s.Carts.CartID(accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartView{}, apperr.E(apperr.NotFound, "cart not found")
		}
		return CartView{}, err
	}
	updated, err := s.Carts.UpdateQty(cartID, productID, qty)
	if err != nil {
		return CartView{}, err
	}
	if !updated {
		return CartView{}, apperr.E(apperr.NotFound, "item not found in cart")
	}
	return s.view(cartID)
}

// RemoveItem is idempotent: removing an absent line returns the cart
// unchanged.
func (s *CartService) RemoveItem(accountID, productID string) (CartView, error) {
	cartID, err := s.Carts.CartID(accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartView{}, apperr.E(apperr.NotFound, "cart not found")
		}
		return CartView{}, err
	}
	if err := s.Carts.RemoveItem(cartID, productID); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

// Clear empties the line list; a cart that was never created is NotFound.
func (s *CartService) Clear(accountID string) (CartView, error) {
	cartID, err := s.Carts.CartID(accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartView{}, apperr.E(apperr.NotFound, "cart not found")
		}
		return CartView{}, err
	}
	if err := s.Carts.Clear(cartID); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

package services_test

import (
	"testing"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/services"
)

func TestSingleDefaultAddressInvariant(t *testing.T) {
	db := openSeeded(t)
	auth := newAuth(db)
	svc := services.NewAccountService(auth.Users, auth)

	home := services.AddressInput{Street: "12 Weaver Lane", City: "Bhubaneswar", State: "Odisha", PostalCode: "751001", Country: "IN", IsDefault: true}
	work := services.AddressInput{Street: "4 Market Road", City: "Cuttack", State: "Odisha", PostalCode: "753001", Country: "IN", IsDefault: true}

	addrs, err := svc.AddAddress("a-mira", home)
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 1 || !addrs[0].IsDefault {
		t.Fatalf("first address should be default: %+v", addrs)
	}

	// A second default displaces the first.
	addrs, err = svc.AddAddress("a-mira", work)
	if err != nil {
		t.Fatal(err)
	}
	defaults := 0
	for _, a := range addrs {
		if a.IsDefault {
			defaults++
			if a.City != "Cuttack" {
				t.Fatalf("newest default should win: %+v", a)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("want exactly one default, got %d", defaults)
	}

	// Updating the other one back to default displaces again.
	var homeID string
	for _, a := range addrs {
		if a.City == "Bhubaneswar" {
			homeID = a.ID
		}
	}
	home.IsDefault = true
	addrs, err = svc.UpdateAddress("a-mira", homeID, home)
	if err != nil {
		t.Fatal(err)
	}
	defaults = 0
	for _, a := range addrs {
		if a.IsDefault {
			defaults++
			if a.ID != homeID {
				t.Fatalf("wrong default after update: %+v", a)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("want exactly one default after update, got %d", defaults)
	}
}

func TestAddressOwnershipAndDelete(t *testing.T) {
	db := openSeeded(t)
	auth := newAuth(db)
	svc := services.NewAccountService(auth.Users, auth)

	addrs, err := svc.AddAddress("a-mira", services.AddressInput{Street: "12 Weaver Lane", City: "Bhubaneswar", Country: "IN"})
	if err != nil {
		t.Fatal(err)
	}
	id := addrs[0].ID

	// Another account can neither update nor delete it.
	if _, err := svc.UpdateAddress("a-admin", id, services.AddressInput{Street: "x", City: "y", Country: "z"}); !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("foreign address update must be NotFound, got %v", err)
	}
	if err := svc.DeleteAddress("a-admin", id); !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("foreign address delete must be NotFound, got %v", err)
	}

	if err := svc.DeleteAddress("a-mira", id); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteAddress("a-mira", id); !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("second delete must be NotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := openSeeded(t)
	auth := newAuth(db)
	svc := services.NewAccountService(auth.Users, auth)

	// Moving onto a taken email is a conflict.
	if _, _, err := svc.UpdateProfile("a-mira", services.ProfileUpdateInput{
		Name: "Mira", Email: "admin@craftbazaar.test",
	}); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("want Conflict for taken email, got %v", err)
	}

	a, token, err := svc.UpdateProfile("a-mira", services.ProfileUpdateInput{
		Name: "Mira Devi", Email: "mira@craftbazaar.test", Phone: "+91 9000000000", Password: "N3w!passwd",
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "Mira Devi" || token == "" {
		t.Fatalf("update should return the account and a fresh token: %+v", a)
	}

	// The new password works, the old one does not.
	if _, _, err := auth.Login("mira@craftbazaar.test", "Passw0rd!"); !apperr.Is(err, apperr.Unauthenticated) {
		t.Fatalf("old password should be dead, got %v", err)
	}
	if _, _, err := auth.Login("mira@craftbazaar.test", "N3w!passwd"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

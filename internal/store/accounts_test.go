package store

import (
	"context"
	"testing"

	"github.com/erazemk/drazba/internal/db"
)

func TestLoginCreatesAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	account, err := LoginOrCreateAccount(ctx, database, "Alice", "a@x.com")
	if err != nil {
		t.Fatalf("LoginOrCreateAccount: %v", err)
	}
	if account.ID == 0 {
		t.Fatal("account got reserved id 0")
	}
	if account.Name != "Alice" || account.Email != "a@x.com" {
		t.Errorf("unexpected account: %+v", account)
	}
}

func TestRepeatLoginUpdatesName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := LoginOrCreateAccount(ctx, database, "Alice", "a@x.com")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}

	second, err := LoginOrCreateAccount(ctx, database, "Alicia", "a@x.com")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected same account id, got %d and %d", first.ID, second.ID)
	}
	if second.Name != "Alicia" {
		t.Errorf("expected name updated to 'Alicia', got %q", second.Name)
	}

	stored, _ := GetAccount(ctx, database, first.ID)
	if stored.Name != "Alicia" {
		t.Errorf("stored name not updated: %q", stored.Name)
	}
}

func TestDistinctEmailsDistinctAccounts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := LoginOrCreateAccount(ctx, database, "Alice", "a@x.com")
	b, _ := LoginOrCreateAccount(ctx, database, "Bob", "b@x.com")
	if a.ID == b.ID {
		t.Errorf("distinct emails resolved to one account id %d", a.ID)
	}
}

func TestGetAccountAbsent(t *testing.T) {
	database := db.NewTestDB(t)

	account, err := GetAccount(context.Background(), database, 12345)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if account != nil {
		t.Errorf("expected nil for absent account, got %+v", account)
	}
}

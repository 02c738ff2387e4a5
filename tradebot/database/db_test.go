package database

import (
	"strings"
	"testing"
)

func TestBuildConnString(t *testing.T) {
	got := buildConnString(DBConfig{Host: "db", Port: 5433, User: "trader", Password: "pw", Database: "cards"})
	want := "postgres://trader:pw@db:5433/cards?connect_timeout=5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIndexesCarryConcurrencyInvariants(t *testing.T) {
	required := []string{
		"idx_trades_active_room_code",
		"idx_trade_requests_pending_key",
		"idx_room_invites_pending_pair",
	}
	for _, name := range required {
		found := false
		for _, stmt := range indexes {
			if strings.Contains(stmt, name) && strings.Contains(stmt, "UNIQUE") && strings.Contains(stmt, "WHERE") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no partial unique index %s", name)
		}
	}
}

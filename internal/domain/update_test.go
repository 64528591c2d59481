package domain

import (
	"testing"
	"time"
)

func TestOrderUpdate_Valid(t *testing.T) {
	status := StatusCompleted
	loc := LocationReadingRoom

	cases := []struct {
		name string
		cmd  OrderUpdate
		want bool
	}{
		{"empty", OrderUpdate{}, false},
		{"status only", StatusUpdate(StatusCompleted), true},
		{"location only", LocationUpdate(LocationReadingRoom), true},
		{"comment only", CommentUpdate("note"), true},
		{"expire only", ExpireAtUpdate(time.Now()), true},
		{"status and location", OrderUpdate{Status: &status, Location: &loc}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cmd.Valid(); got != tc.want {
				t.Fatalf("Valid() = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestOrderUpdate_ConstructorsCarryValue(t *testing.T) {
	if cmd := StatusUpdate(StatusDeleted); cmd.Status == nil || *cmd.Status != StatusDeleted {
		t.Fatalf("StatusUpdate = %+v", cmd)
	}
	if cmd := LocationUpdate(LocationInStorage); cmd.Location == nil || *cmd.Location != LocationInStorage {
		t.Fatalf("LocationUpdate = %+v", cmd)
	}
	if cmd := CommentUpdate("x"); cmd.Comment == nil || *cmd.Comment != "x" {
		t.Fatalf("CommentUpdate = %+v", cmd)
	}
	at := time.Now().UTC()
	if cmd := ExpireAtUpdate(at); cmd.ExpireAt == nil || !cmd.ExpireAt.Equal(at) {
		t.Fatalf("ExpireAtUpdate = %+v", cmd)
	}
}

package history_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"draw-poker/internal/model"
	"draw-poker/internal/service/game"
	"draw-poker/internal/service/history"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newHistoryService(t *testing.T) (*gorm.DB, *history.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.HandRecord{}); err != nil {
		t.Fatalf("failed to migrate hand record model: %v", err)
	}

	return db, history.NewService(db)
}

func settledHand(code string, handNo int64) game.HandResult {
	return game.HandResult{
		Lobby:          code,
		HandNo:         handNo,
		WinnerIdentity: "id-1",
		WinnerName:     "bob",
		WinningRank:    game.Flush.String(),
		Pot:            30,
		Seats: []game.SeatResult{
			{Identity: "id-0", Name: "alice", Bet: 15, Delta: -15, Balance: 85},
			{Identity: "id-1", Name: "bob", Bet: 15, Delta: 15, Balance: 115, Active: true},
		},
		SettledAt: time.Now(),
	}
}

func TestRecordHand(t *testing.T) {
	ctx := context.Background()
	db, svc := newHistoryService(t)

	if err := svc.Record(ctx, settledHand("ABCDEF", 1)); err != nil {
		t.Fatalf("record hand failed: %v", err)
	}

	var stored model.HandRecord
	if err := db.WithContext(ctx).First(&stored).Error; err != nil {
		t.Fatalf("load record failed: %v", err)
	}
	if stored.LobbyCode != "ABCDEF" || stored.Pot != 30 || stored.WinnerName != "bob" {
		t.Fatalf("unexpected record: %+v", stored)
	}

	var seats []game.SeatResult
	if err := json.Unmarshal(stored.SeatsJSON, &seats); err != nil {
		t.Fatalf("decode seats failed: %v", err)
	}
	if len(seats) != 2 || seats[1].Delta != 15 {
		t.Fatalf("unexpected seats: %+v", seats)
	}
}

func TestListHandsNewestFirst(t *testing.T) {
	ctx := context.Background()
	_, svc := newHistoryService(t)

	for i := int64(1); i <= 3; i++ {
		if err := svc.Record(ctx, settledHand("ABCDEF", i)); err != nil {
			t.Fatalf("record hand %d failed: %v", i, err)
		}
	}
	if err := svc.Record(ctx, settledHand("ZZZZZZ", 1)); err != nil {
		t.Fatalf("record other lobby failed: %v", err)
	}

	result, err := svc.List(ctx, "ABCDEF", 1, 2)
	if err != nil {
		t.Fatalf("list hands failed: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected total=3, got %d", result.Total)
	}
	if len(result.Items) != 2 || result.Items[0].HandNo != 3 {
		t.Fatalf("unexpected page: %+v", result.Items)
	}

	page2, err := svc.List(ctx, "ABCDEF", 2, 2)
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if len(page2.Items) != 1 || page2.Items[0].HandNo != 1 {
		t.Fatalf("unexpected second page: %+v", page2.Items)
	}
}

func TestListUnknownLobby(t *testing.T) {
	_, svc := newHistoryService(t)

	result, err := svc.List(context.Background(), "NOPE00", 0, 0)
	if err != nil {
		t.Fatalf("list hands failed: %v", err)
	}
	if result.Total != 0 || len(result.Items) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

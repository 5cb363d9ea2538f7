package history

import (
	"context"
	"encoding/json"

	"draw-poker/internal/model"
	"draw-poker/internal/service/game"
	"draw-poker/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ListResult struct {
	Items []model.HandRecord
	Total int64
}

// Record persists a settled hand.
func (s *Service) Record(ctx context.Context, result game.HandResult) error {
	seats, err := json.Marshal(result.Seats)
	if err != nil {
		return err
	}
	record := model.HandRecord{
		LobbyCode:      result.Lobby,
		HandNo:         result.HandNo,
		WinnerIdentity: result.WinnerIdentity,
		WinnerName:     result.WinnerName,
		WinningRank:    result.WinningRank,
		Pot:            result.Pot,
		Voided:         result.Voided,
		SeatsJSON:      datatypes.JSON(seats),
		SettledAt:      result.SettledAt,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		logger.Log.Error("failed to record hand",
			zap.String(logger.LobbyKey, result.Lobby),
			zap.Int64(logger.HandNoKey, result.HandNo),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// List returns a lobby's hands, newest first.
func (s *Service) List(ctx context.Context, code string, page, size int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.HandRecord{}).
		Where("lobby_code = ?", code).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var records []model.HandRecord
	if total > 0 {
		if err := s.db.WithContext(ctx).
			Where("lobby_code = ?", code).
			Order("hand_no DESC").
			Order("id DESC").
			Limit(size).
			Offset((page - 1) * size).
			Find(&records).Error; err != nil {
			return nil, err
		}
	}

	return &ListResult{
		Items: records,
		Total: total,
	}, nil
}

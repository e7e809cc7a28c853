package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexivanou/geocommunity/internal/model"
	"go.uber.org/zap"
)

func (s *Service) CreateInterest(ctx context.Context, name string, description *string) (*model.Interest, error) {
	name, err := requireText("name", name, maxNameLength)
	if err != nil {
		return nil, err
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		description = &d
	}
	in, err := s.interestRepo.CreateInterest(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create interest: %w", err)
	}
	return in, nil
}

func (s *Service) GetInterest(ctx context.Context, id string) (*model.Interest, error) {
	return s.interestRepo.GetInterest(ctx, id)
}

func (s *Service) ListInterests(ctx context.Context, p model.ListParams) ([]model.Interest, error) {
	return s.interestRepo.ListInterests(ctx, p)
}

func (s *Service) DeleteInterest(ctx context.Context, id string) error {
	return s.interestRepo.DeleteInterest(ctx, id)
}

func (s *Service) Subscribe(ctx context.Context, userID, interestID string) (*model.UserInterest, error) {
	link, err := s.interestRepo.Subscribe(ctx, userID, interestID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	s.logger.Debug("subscribed", zap.String("user_id", userID), zap.String("interest_id", interestID))
	return link, nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, interestID string) error {
	return s.interestRepo.Unsubscribe(ctx, userID, interestID)
}

func (s *Service) ListSubscribers(ctx context.Context, interestID string, p model.ListParams) ([]model.User, error) {
	return s.interestRepo.ListUsersByInterest(ctx, interestID, p)
}

func (s *Service) ListUserInterests(ctx context.Context, userID string, p model.ListParams) ([]model.Interest, error) {
	return s.interestRepo.ListInterestsByUser(ctx, userID, p)
}

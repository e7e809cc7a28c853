package service

import (
	"context"
	"fmt"

	"github.com/alexivanou/geocommunity/internal/model"
	"go.uber.org/zap"
)

// PostQuery selects the scope of a post listing. Exactly one of the ids
// must be set.
type PostQuery struct {
	DistrictID     string
	NeighborhoodID string
	AuthorID       string
	Status         string
}

func (s *Service) CreatePost(ctx context.Context, in model.NewPost) (*model.Post, error) {
	title, err := requireText("title", in.Title, maxTitleLength)
	if err := collect(err, requireID("author_id", in.AuthorID)); err != nil {
		return nil, err
	}
	in.Title = title

	post, err := s.postRepo.CreatePost(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.logger.Info("post created", zap.String("post_id", post.ID), zap.String("author_id", post.AuthorID))
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return s.postRepo.GetPost(ctx, id)
}

func (s *Service) UpdatePost(ctx context.Context, id string, upd model.PostUpdate) (*model.Post, error) {
	if upd.Title != nil {
		title, err := requireText("title", *upd.Title, maxTitleLength)
		if err != nil {
			return nil, err
		}
		upd.Title = &title
	}
	post, err := s.postRepo.UpdatePost(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *Service) ChangePostStatus(ctx context.Context, id, status string) (*model.Post, error) {
	next, err := model.ParsePostStatus(status)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.TransitionPost(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("failed to change post status: %w", err)
	}
	s.metrics.Transitions.WithLabelValues("post", string(next)).Inc()
	s.logger.Info("post status changed", zap.String("post_id", id), zap.String("status", string(next)))
	return post, nil
}

func (s *Service) DeletePost(ctx context.Context, id string) error {
	return s.postRepo.DeletePost(ctx, id)
}

func (s *Service) ListPosts(ctx context.Context, q PostQuery, p model.ListParams) ([]model.Post, error) {
	var f model.PostFilter
	if q.Status != "" {
		status, err := model.ParsePostStatus(q.Status)
		if err != nil {
			return nil, err
		}
		f.Status = status
	}

	switch {
	case q.NeighborhoodID != "":
		return s.postRepo.ListPostsByNeighborhood(ctx, q.NeighborhoodID, f, p)
	case q.DistrictID != "":
		return s.postRepo.ListPostsByDistrict(ctx, q.DistrictID, f, p)
	case q.AuthorID != "":
		return s.postRepo.ListPostsByAuthor(ctx, q.AuthorID, f, p)
	}
	return nil, invalid("scope", "one of district_id, neighborhood_id or author_id is required")
}

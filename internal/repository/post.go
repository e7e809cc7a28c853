package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
)

const postColumns = "id, title, description, photos, status, district_id, neighborhood_id, author_id, created_at, updated_at"

type postRepository struct {
	store
}

func (r *postRepository) CreatePost(ctx context.Context, in model.NewPost) (*model.Post, error) {
	ts := now()
	post := &model.Post{
		ID:          model.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Photos:      in.Photos,
		Status:      model.PostDraft,
		AuthorID:    in.AuthorID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, "users", in.AuthorID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("author %s: %w", in.AuthorID, model.ErrParentNotFound)
		}

		loc, err := r.resolveLocation(ctx, tx, in.Location)
		if err != nil {
			return err
		}
		post.DistrictID = loc.DistrictID
		post.NeighborhoodID = loc.NeighborhoodID

		_, err = sqlx.NamedExecContext(ctx, tx, `
			INSERT INTO posts (`+postColumns+`)
			VALUES (:id, :title, :description, :photos, :status, :district_id, :neighborhood_id, :author_id,
				:created_at, :updated_at)`, post)
		return r.translate(err, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) getPost(ctx context.Context, ext sqlx.ExtContext, id string, lock bool) (*model.Post, error) {
	q := "SELECT " + postColumns + " FROM posts WHERE id = ?"
	if lock {
		q += r.d.forUpdate()
	}
	var p model.Post
	err := get(ctx, ext, &p, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return r.getPost(ctx, r.db, id, false)
}

func (r *postRepository) UpdatePost(ctx context.Context, id string, upd model.PostUpdate) (*model.Post, error) {
	var post *model.Post
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		p, err := r.getPost(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if upd.Title != nil {
			p.Title = *upd.Title
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.Photos != nil {
			p.Photos = *upd.Photos
		}
		if upd.Location != nil {
			loc, err := r.resolveLocation(ctx, tx, *upd.Location)
			if err != nil {
				return err
			}
			p.DistrictID = loc.DistrictID
			p.NeighborhoodID = loc.NeighborhoodID
		}
		p.UpdatedAt = now()

		_, err = sqlx.NamedExecContext(ctx, tx, `
			UPDATE posts SET title = :title, description = :description, photos = :photos,
				district_id = :district_id, neighborhood_id = :neighborhood_id, updated_at = :updated_at
			WHERE id = :id`, p)
		if err != nil {
			return r.translate(err, nil, nil)
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// TransitionPost moves a post along the status table. The update is
// conditional on the status read under lock.
func (r *postRepository) TransitionPost(ctx context.Context, id string, next model.PostStatus) (*model.Post, error) {
	var post *model.Post
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		p, err := r.getPost(ctx, tx, id, true)
		if err != nil {
			return err
		}
		status, err := p.Status.Transition(next)
		if err != nil {
			return err
		}

		ts := now()
		res, err := exec(ctx, tx, "UPDATE posts SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
			status, ts, id, p.Status)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &model.TransitionError{Entity: "post", From: string(p.Status), To: string(next)}
		}
		p.Status = status
		p.UpdatedAt = ts
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) DeletePost(ctx context.Context, id string) error {
	res, err := exec(ctx, r.db, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return r.translate(err, nil, nil)
	}
	return requireAffected(res, "post "+id)
}

func (r *postRepository) listBy(ctx context.Context, column, value string, f model.PostFilter, p model.ListParams) ([]model.Post, error) {
	lq := newListQuery("SELECT "+postColumns+" FROM posts", "id").where(column+" = ?", value)
	if f.Status != "" {
		lq.where("status = ?", f.Status)
	}
	q, args := lq.build(p)

	posts := []model.Post{}
	if err := selectAll(ctx, r.db, &posts, q, args...); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListPostsByDistrict(ctx context.Context, districtID string, f model.PostFilter, p model.ListParams) ([]model.Post, error) {
	return r.listBy(ctx, "district_id", districtID, f, p)
}

func (r *postRepository) ListPostsByNeighborhood(ctx context.Context, neighborhoodID string, f model.PostFilter, p model.ListParams) ([]model.Post, error) {
	return r.listBy(ctx, "neighborhood_id", neighborhoodID, f, p)
}

func (r *postRepository) ListPostsByAuthor(ctx context.Context, authorID string, f model.PostFilter, p model.ListParams) ([]model.Post, error) {
	return r.listBy(ctx, "author_id", authorID, f, p)
}

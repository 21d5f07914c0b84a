package service

import (
	"context"
	"strings"

	"github.com/challenge-hub/backend/internal/client"
	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/prompt"
)

type VideoRepository interface {
	CreateVideo(ctx context.Context, title, url, description string) (*model.Video, error)
	GetVideo(ctx context.Context, id int64) (*model.Video, error)
	ListVideos(ctx context.Context, limit, offset int) ([]model.Video, int64, error)
	UpdateVideo(ctx context.Context, v *model.Video) (*model.Video, error)
	DeleteVideo(ctx context.Context, id int64) error
}

type VideoService struct {
	repo      VideoRepository
	generator client.Generator
}

func NewVideoService(repo VideoRepository, generator client.Generator) *VideoService {
	return &VideoService{repo: repo, generator: generator}
}

func (s *VideoService) List(ctx context.Context, page, perPage int) (*model.Page[model.Video], error) {
	page, perPage, offset := paging(page, perPage)
	items, total, err := s.repo.ListVideos(ctx, perPage, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(items, page, perPage, total), nil
}

func (s *VideoService) Create(ctx context.Context, req model.CreateVideoRequest) (*model.Video, error) {
	return s.create(ctx, req.Title, req.URL, req.Description)
}

func (s *VideoService) Generate(ctx context.Context) (*model.Video, error) {
	text, err := generate(ctx, s.generator, "video", prompt.VideoPrompt())
	if err != nil {
		return nil, err
	}
	reply, err := prompt.ParseVideoReply(text)
	if err != nil {
		return nil, malformedReply("video", text, err)
	}
	return s.create(ctx, &reply.Title, &reply.URL, &reply.Description)
}

func (s *VideoService) Get(ctx context.Context, id int64) (*model.Video, error) {
	v, err := s.repo.GetVideo(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return v, nil
}

func (s *VideoService) Update(ctx context.Context, id int64, req model.UpdateVideoRequest) (*model.Video, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	verr.optional("title", req.Title, func(val string) { verr.maxLength("title", val, maxStringLength) })
	verr.optional("url", req.URL, func(val string) { verr.url("url", strings.TrimSpace(val)) })
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	if req.Title != nil {
		v.Title = strings.TrimSpace(*req.Title)
	}
	if req.URL != nil {
		v.URL = strings.TrimSpace(*req.URL)
	}
	// description is optional and may be cleared.
	if req.Description != nil {
		v.Description = strings.TrimSpace(*req.Description)
	}

	updated, err := s.repo.UpdateVideo(ctx, v)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return updated, nil
}

func (s *VideoService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return mapNotFound(s.repo.DeleteVideo(ctx, id))
}

func (s *VideoService) create(ctx context.Context, title, url, description *string) (*model.Video, error) {
	verr := &ValidationError{}
	if verr.required("title", title) {
		verr.maxLength("title", strings.TrimSpace(*title), maxStringLength)
	}
	if verr.required("url", url) {
		verr.url("url", strings.TrimSpace(*url))
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	desc := ""
	if description != nil {
		desc = strings.TrimSpace(*description)
	}
	return s.repo.CreateVideo(ctx, strings.TrimSpace(*title), strings.TrimSpace(*url), desc)
}

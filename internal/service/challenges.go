package service

import (
	"context"
	"strings"

	"github.com/challenge-hub/backend/internal/client"
	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/prompt"
)

type ChallengeRepository interface {
	CreateChallenge(ctx context.Context, title, description string) (*model.Challenge, error)
	GetChallenge(ctx context.Context, id int64) (*model.Challenge, error)
	ListChallenges(ctx context.Context, limit, offset int) ([]model.Challenge, int64, error)
	UpdateChallenge(ctx context.Context, c *model.Challenge) (*model.Challenge, error)
	DeleteChallenge(ctx context.Context, id int64) error
}

type ChallengeService struct {
	repo      ChallengeRepository
	generator client.Generator
}

func NewChallengeService(repo ChallengeRepository, generator client.Generator) *ChallengeService {
	return &ChallengeService{repo: repo, generator: generator}
}

func (s *ChallengeService) List(ctx context.Context, page, perPage int) (*model.Page[model.Challenge], error) {
	page, perPage, offset := paging(page, perPage)
	items, total, err := s.repo.ListChallenges(ctx, perPage, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(items, page, perPage, total), nil
}

func (s *ChallengeService) Create(ctx context.Context, req model.CreateChallengeRequest) (*model.Challenge, error) {
	return s.create(ctx, req.Title, req.Description)
}

func (s *ChallengeService) Generate(ctx context.Context) (*model.Challenge, error) {
	text, err := generate(ctx, s.generator, "challenge", prompt.ChallengePrompt())
	if err != nil {
		return nil, err
	}
	reply, err := prompt.ParseChallengeReply(text)
	if err != nil {
		return nil, malformedReply("challenge", text, err)
	}
	return s.create(ctx, &reply.Title, &reply.Description)
}

func (s *ChallengeService) Get(ctx context.Context, id int64) (*model.Challenge, error) {
	c, err := s.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (s *ChallengeService) Update(ctx context.Context, id int64, req model.UpdateChallengeRequest) (*model.Challenge, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	verr.optional("title", req.Title, func(v string) { verr.maxLength("title", v, maxStringLength) })
	verr.optional("description", req.Description, nil)
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}

	updated, err := s.repo.UpdateChallenge(ctx, c)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return updated, nil
}

func (s *ChallengeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return mapNotFound(s.repo.DeleteChallenge(ctx, id))
}

func (s *ChallengeService) create(ctx context.Context, title, description *string) (*model.Challenge, error) {
	verr := &ValidationError{}
	if verr.required("title", title) {
		verr.maxLength("title", strings.TrimSpace(*title), maxStringLength)
	}
	verr.required("description", description)
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}
	return s.repo.CreateChallenge(ctx, strings.TrimSpace(*title), strings.TrimSpace(*description))
}

package service

import (
	"context"
	"errors"

	"github.com/challenge-hub/backend/internal/client"
	"github.com/challenge-hub/backend/internal/db"
	"github.com/challenge-hub/backend/internal/logging"
	"github.com/challenge-hub/backend/internal/model"
)

// CheckCreateType validates the discriminator of a create request.
func CheckCreateType(createType string) error {
	return validateType(createType)
}

// generate asks gen for a reply. Any failure is a *GenerationError carrying
// the raw upstream body when there was one.
func generate(ctx context.Context, gen client.Generator, kind, prompt string) (string, error) {
	if gen == nil {
		return "", &GenerationError{Kind: kind, Err: ErrGenerationDisabled}
	}

	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		genErr := &GenerationError{Kind: kind, Err: err}
		var adapterErr *client.AdapterError
		if errors.As(err, &adapterErr) {
			genErr.Raw = adapterErr.Raw
		}
		logging.Warn().Err(err).Str("kind", kind).Msg("generation request failed")
		return "", genErr
	}
	return text, nil
}

func malformedReply(kind, text string, err error) error {
	logging.Warn().Err(err).Str("kind", kind).Str("reply", text).Msg("generated reply rejected")
	return &GenerationError{Kind: kind, Raw: []byte(text), Err: err}
}

func mapNotFound(err error) error {
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	return err
}

func paging(page, perPage int) (int, int, int) {
	page, perPage = model.NormalizePaging(page, perPage)
	return page, perPage, model.Offset(page, perPage)
}

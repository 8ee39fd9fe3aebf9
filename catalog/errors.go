package catalog

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeFoodNotFound   = "FOOD_NOT_FOUND"
	TextCodeRecipeNotFound = "RECIPE_NOT_FOUND"
	TextCodeCoverNotFound  = "COVER_NOT_FOUND"
	TextCodeCoverMissing   = "COVER_FILE_MISSING"
	TextCodeNoCover        = "NO_COVER"
	TextCodeInvalidImage   = "INVALID_IMAGE"
	TextCodeInvalidID      = "INVALID_ID"
)

var ErrFoodNotFound = goerrors.New("food not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeFoodNotFound).
	WithCode(goerrors.CodeNotFound)

var ErrRecipeNotFound = goerrors.New("recipe not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeRecipeNotFound).
	WithCode(goerrors.CodeNotFound)

var ErrCoverNotFound = goerrors.New("cover not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeCoverNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrCoverMissing the upload request carried no file
var ErrCoverMissing = goerrors.New("cover file is required", goerrors.CategoryBadInput).
	WithTextCode(TextCodeCoverMissing).
	WithCode(goerrors.CodeBadRequest)

// ErrNoCover the record has no cover to delete
var ErrNoCover = goerrors.New("record has no cover", goerrors.CategoryBadInput).
	WithTextCode(TextCodeNoCover).
	WithCode(goerrors.CodeBadRequest)

var ErrInvalidID = goerrors.New("invalid id", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidID).
	WithCode(goerrors.CodeBadRequest)

func invalidImage(err error) error {
	msg := err.Error()
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		msg = rich.Message
	}
	return goerrors.New("invalid cover image: "+msg, goerrors.CategoryBadInput).
		WithTextCode(TextCodeInvalidImage).
		WithCode(goerrors.CodeBadRequest)
}

func internalError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithCode(goerrors.CodeInternal)
}

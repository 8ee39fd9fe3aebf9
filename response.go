package foodbook

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the body of every JSON response
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success writes a 200 envelope
func Success(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Created writes a 201 envelope
func Created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Fail writes a client error envelope with null data
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{
		Status:  StatusFail,
		Message: message,
		Data:    nil,
	})
}

// FailWithData writes a client error envelope with details, used for
// validation errors.
func FailWithData(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Status:  StatusFail,
		Message: message,
		Data:    data,
	})
}

// ErrorEnvelope writes a server error envelope
func ErrorEnvelope(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{
		Status:  StatusError,
		Message: message,
		Data:    nil,
	})
}

// WriteError maps err to an envelope. Rich errors use their code and
// message, fiber errors their code, anything else is a 500 that does
// not leak the cause.
func WriteError(c *fiber.Ctx, err error) error {
	status, message := StatusAndMessage(err)
	if status >= fiber.StatusInternalServerError {
		return ErrorEnvelope(c, status, message)
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && len(richErr.Metadata) > 0 && richErr.Category == goerrors.CategoryValidation {
		return FailWithData(c, status, message, richErr.Metadata)
	}

	return Fail(c, status, message)
}

// StatusAndMessage extracts the HTTP status and public message of err
func StatusAndMessage(err error) (int, string) {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		status := richErr.Code
		if status == 0 {
			status = statusForCategory(richErr)
		}
		if status >= fiber.StatusInternalServerError {
			return status, "internal server error"
		}
		return status, richErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, "internal server error"
}

func statusForCategory(richErr *goerrors.Error) int {
	switch richErr.Category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return fiber.StatusBadRequest
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

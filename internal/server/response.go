package server

import (
	"errors"

	"github.com/spigell/blacktable/internal/failure"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Kind    failure.Kind `json:"kind,omitempty"`
}

func success(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(successResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondError(c *fiber.Ctx, status int, kind failure.Kind, message string) error {
	return c.Status(status).JSON(errorResponse{
		Success: false,
		Message: message,
		Kind:    kind,
	})
}

// StatusFor maps a failure kind to an HTTP status. Every typed failure is a
// 4xx, provider trouble included (424). Only untyped errors are a 500.
func StatusFor(kind failure.Kind) int {
	switch kind {
	case failure.InvalidInput, failure.UnsupportedFormat, failure.UnknownRound:
		return fiber.StatusBadRequest
	case failure.FileNotFound:
		return fiber.StatusNotFound
	case failure.SchemaMismatch, failure.ConversionFailed, failure.RequirementExtractionFailed, failure.AnalysisFailed:
		return fiber.StatusUnprocessableEntity
	case failure.ProviderUnavailable, failure.MissingCredentials:
		return fiber.StatusFailedDependency
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every error that reaches fiber in the response envelope.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return respondError(c, fe.Code, "", fe.Message)
	}

	kind := failure.KindOf(err)
	status := StatusFor(kind)

	log := s.logger.Warn
	if status >= fiber.StatusInternalServerError {
		log = s.logger.Error
	}
	log("request failed", append(requestFields(c, status), zap.Error(err))...)

	return respondError(c, status, kind, err.Error())
}

package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"contentproof/internal/chain"
	"contentproof/internal/digest"
	"contentproof/internal/http/middleware"
	"contentproof/internal/model"
	"contentproof/internal/pinning"
	"contentproof/internal/repository"
	"contentproof/internal/verify"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ControllerSource hands out the per-user verification controller.
// *verify.Registry satisfies it.
type ControllerSource interface {
	For(userID string) *verify.Controller
}

type textRequest struct {
	Text string `json:"text"`
}

type hashRequest struct {
	Hash string `json:"hash"`
}

type recordsResponse struct {
	Data   []model.VerificationRecord `json:"data"`
	Total  int                        `json:"total"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

// VerifyText godoc
// @Summary Verify a text payload
// @Tags verify
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body textRequest true "text"
// @Success 200 {object} verify.Outcome
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/verify/text [post]
func VerifyText(src ControllerSource, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req textRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return submit(c, src, log, verify.Request{Mode: verify.ModeText, Text: req.Text})
	}
}

// VerifyFile godoc
// @Summary Verify an uploaded file
// @Tags verify
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "file to verify"
// @Success 200 {object} verify.Outcome
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /api/verify/file [post]
func VerifyFile(src ControllerSource, maxBytes int64, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "EMPTY_INPUT", verify.ErrEmptyInput.Error())
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file exceeds upload limit")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		var r io.Reader = f
		if maxBytes > 0 {
			r = io.LimitReader(f, maxBytes+1)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}
		if maxBytes > 0 && int64(len(data)) > maxBytes {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file exceeds upload limit")
		}

		return submit(c, src, log, verify.Request{Mode: verify.ModeFile, File: data, Filename: fh.Filename})
	}
}

// VerifyHash godoc
// @Summary Verify a precomputed digest
// @Tags verify
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body hashRequest true "0x-prefixed 32-byte hex digest"
// @Success 200 {object} verify.Outcome
// @Failure 400 {object} errorPayload
// @Router /api/verify/hash [post]
func VerifyHash(src ControllerSource, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req hashRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return submit(c, src, log, verify.Request{Mode: verify.ModeHash, Hash: req.Hash})
	}
}

func submit(c *fiber.Ctx, src ControllerSource, log zerolog.Logger, req verify.Request) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
	}

	out, err := src.For(claims.ID).Submit(c.UserContext(), req)
	if err == nil {
		return c.JSON(out)
	}

	status, code, msg := verifyFailure(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("verification failed")
	}
	if out != nil {
		return writeErrorDetails(c, status, code, msg, out)
	}
	return writeError(c, status, code, msg)
}

// VerifyStatus godoc
// @Summary Dashboard state for the signed-in user
// @Tags verify
// @Produce json
// @Security BearerAuth
// @Success 200 {object} verify.Snapshot
// @Router /api/verify/status [get]
func VerifyStatus(src ControllerSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		}
		return c.JSON(src.For(claims.ID).Snapshot())
	}
}

// VerifyHistory godoc
// @Summary On-chain history for an account
// @Tags verify
// @Produce json
// @Security BearerAuth
// @Param account query string false "account address, defaults to the signer"
// @Success 200 {object} verify.HistoryView
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/verify/history [get]
func VerifyHistory(src ControllerSource, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		}

		view, err := src.For(claims.ID).History(c.UserContext(), c.Query("account"))
		if err == nil {
			return c.JSON(view)
		}

		status, code, msg := verifyFailure(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("history failed")
		}
		if view.Phase == verify.HistoryFailed {
			return writeErrorDetails(c, status, code, msg, view)
		}
		return writeError(c, status, code, msg)
	}
}

// ListRecords godoc
// @Summary Audit records of the signed-in user, newest first
// @Tags verify
// @Produce json
// @Security BearerAuth
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} recordsResponse
// @Failure 400 {object} errorPayload
// @Router /api/verify/records [get]
func ListRecords(repo repository.VerificationRepository, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		}

		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
		if err != nil || limit <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil || offset < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := repo.ListByUser(c.UserContext(), claims.ID, repository.PageQuery{Limit: limit, Offset: offset})
		if err != nil {
			log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("list records failed")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		items := res.Items
		if items == nil {
			items = []model.VerificationRecord{}
		}
		return c.JSON(recordsResponse{Data: items, Total: res.Total, Limit: limit, Offset: offset})
	}
}

// verifyFailure maps controller errors to a status, code and client message.
func verifyFailure(err error) (int, string, string) {
	var upload *pinning.UploadError
	var call *chain.ContractCallError

	switch {
	case errors.Is(err, verify.ErrEmptyInput):
		return fiber.StatusBadRequest, "EMPTY_INPUT", err.Error()
	case errors.Is(err, verify.ErrUnknownMode):
		return fiber.StatusBadRequest, "UNKNOWN_MODE", err.Error()
	case errors.Is(err, digest.ErrInvalidHashFormat):
		return fiber.StatusBadRequest, "INVALID_HASH_FORMAT", err.Error()
	case errors.Is(err, chain.ErrInvalidAccount):
		return fiber.StatusBadRequest, "INVALID_ACCOUNT", err.Error()
	case errors.Is(err, verify.ErrAttemptInProgress), errors.Is(err, verify.ErrHistoryInProgress):
		return fiber.StatusConflict, "IN_PROGRESS", err.Error()
	case errors.Is(err, verify.ErrChainUnavailable):
		return fiber.StatusServiceUnavailable, "CHAIN_UNAVAILABLE", err.Error()
	case errors.As(err, &upload):
		return fiber.StatusBadGateway, "PIN_UPLOAD_FAILED", err.Error()
	case errors.As(err, &call):
		return fiber.StatusBadGateway, "CONTRACT_CALL_FAILED", err.Error()
	case errors.Is(err, chain.ErrTransactionRejected):
		return fiber.StatusBadGateway, "TRANSACTION_REJECTED", err.Error()
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"spectra_backend/internals/features/students/dto"
	"spectra_backend/internals/features/students/service"
	helper "spectra_backend/internals/helpers"
)

type SearchController struct {
	Service   *service.SearchService
	Validator *validator.Validate
	Log       *zap.Logger
}

func NewSearchController(svc *service.SearchService, log *zap.Logger) *SearchController {
	return &SearchController{Service: svc, Validator: validator.New(), Log: log.Named("search")}
}

// POST /api/search
func (ctl *SearchController) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.SearchInput = norm.NFC.String(strings.TrimSpace(req.SearchInput))
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Service.Search(c.UserContext(), req.SearchInput)
	switch {
	case errors.Is(err, service.ErrValidation):
		return helper.JsonError(c, fiber.StatusBadRequest, "Search input is required")
	case err != nil:
		ctl.Log.Error("search failed", zap.Error(err))
		if code, msg := helper.MapPGError(err); code != fiber.StatusInternalServerError {
			return helper.JsonError(c, code, msg)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Search failed")
	}

	return helper.JsonList(c, "ok", res.Hits, fiber.Map{"field": res.Field, "match": res.Match})
}

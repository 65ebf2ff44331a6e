package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/handler"
	"github.com/noah-isme/scholarship-portal-api/internal/service"
)

type stubScholarshipService struct {
	items []dto.ScholarshipResponse
}

func (s stubScholarshipService) ListOpen(context.Context) ([]dto.ScholarshipResponse, error) {
	return s.items, nil
}

func (s stubScholarshipService) Get(_ context.Context, id uint) (dto.ScholarshipResponse, error) {
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return dto.ScholarshipResponse{}, service.ErrScholarshipNotFound
}

func newScholarshipApp(svc service.ScholarshipService) *fiber.App {
	app := fiber.New()
	handler.NewScholarshipHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/scholarships"))
	return app
}

func TestScholarshipListIncludesCount(t *testing.T) {
	app := newScholarshipApp(stubScholarshipService{items: []dto.ScholarshipResponse{
		{ID: 1, Title: "Merit Grant", IsOpen: true},
		{ID: 2, Title: "Need-Based Aid", IsOpen: true},
	}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/scholarships", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data []dto.ScholarshipResponse `json:"data"`
		Meta map[string]interface{}    `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data, 2)
	require.Equal(t, float64(2), payload.Meta["count"])
}

func TestScholarshipGetStatusMapping(t *testing.T) {
	app := newScholarshipApp(stubScholarshipService{items: []dto.ScholarshipResponse{{ID: 4, Title: "STEM Fund"}}})

	cases := map[string]int{
		"/api/v1/scholarships/4":   fiber.StatusOK,
		"/api/v1/scholarships/99":  fiber.StatusNotFound,
		"/api/v1/scholarships/abc": fiber.StatusBadRequest,
	}
	for path, status := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		require.Equal(t, status, resp.StatusCode, path)
	}
}

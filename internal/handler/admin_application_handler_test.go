package handler_test

import (
	"bytes"
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

type stubReviewService struct {
	decision    dto.DecisionResponse
	detail      dto.ApplicationResponse
	err         error
	lastActor   service.ActivityActor
	lastPayload dto.DecisionRequest
	lastID      uint
}

func (s *stubReviewService) List(context.Context, dto.ApplicationListRequest) (dto.ApplicationListResponse, error) {
	return dto.ApplicationListResponse{Items: []dto.ApplicationResponse{s.detail}}, s.err
}

func (s *stubReviewService) Get(_ context.Context, id uint) (dto.ApplicationResponse, error) {
	s.lastID = id
	return s.detail, s.err
}

func (s *stubReviewService) Decide(_ context.Context, id uint, actor service.ActivityActor, payload dto.DecisionRequest) (dto.DecisionResponse, error) {
	s.lastID = id
	s.lastActor = actor
	s.lastPayload = payload
	return s.decision, s.err
}

type stubBulkService struct {
	response dto.BulkDecisionResponse
	err      error
	last     dto.BulkDecisionRequest
}

func (s *stubBulkService) BulkUpdate(_ context.Context, _ service.ActivityActor, payload dto.BulkDecisionRequest) (dto.BulkDecisionResponse, error) {
	s.last = payload
	return s.response, s.err
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Details map[string]interface{} `json:"details"`
}

func newReviewerApp(review service.ApplicationReviewService, bulk service.BulkReviewService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/admin/applications", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(9))
		c.Locals("user_role", "staff")
		return c.Next()
	})
	handler.NewAdminApplicationHandler(review, bulk, zerolog.Nop()).Register(group)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	return resp, payload
}

func TestDecisionHandlerSuccess(t *testing.T) {
	review := &stubReviewService{decision: dto.DecisionResponse{ApplicationID: 12, Status: "rejected", Message: "Application rejected. The student will be notified with the reason provided."}}
	app := newReviewerApp(review, &stubBulkService{})

	resp, payload := postJSON(t, app, "/api/admin/applications/12/decision", map[string]interface{}{
		"decision":          "reject",
		"rejection_details": map[string]string{"reason_code": "gwa", "additional_notes": "Retake Math 101"},
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "rejected", payload.Data["status"])
	require.Equal(t, float64(12), payload.Data["application_id"])
	require.Equal(t, uint(12), review.lastID)
	require.Equal(t, uint(9), review.lastActor.ID)
	require.Equal(t, "staff", review.lastActor.Role)
	require.Equal(t, "gwa", review.lastPayload.RejectionDetails.ReasonCode)
}

func TestDecisionHandlerStatusMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"denied":    {err: service.ErrAccessDenied, status: fiber.StatusForbidden},
		"missing":   {err: service.ErrApplicationNotFound, status: fiber.StatusNotFound},
		"decided":   {err: service.ErrInvalidState, status: fiber.StatusConflict},
		"persist":   {err: service.ErrPersistence, status: fiber.StatusInternalServerError},
		"malformed": {err: nil, status: fiber.StatusBadRequest},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := newReviewerApp(&stubReviewService{err: tc.err}, &stubBulkService{})
			path := "/api/admin/applications/3/decision"
			if tc.err == nil {
				path = "/api/admin/applications/abc/decision"
			}
			resp, payload := postJSON(t, app, path, map[string]string{"decision": "approve"})
			require.Equal(t, tc.status, resp.StatusCode)
			require.False(t, payload.Success)
		})
	}
}

func TestBulkDecisionHandlerReportsIneligibleSelection(t *testing.T) {
	bulk := &stubBulkService{err: &service.IneligibleSelectionError{NonPending: 2}}
	app := newReviewerApp(&stubReviewService{}, bulk)

	resp, payload := postJSON(t, app, "/api/admin/applications/bulk-decision", map[string]interface{}{
		"ids":    []interface{}{1, "2", 3},
		"status": "rejected",
	})

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.False(t, payload.Success)
	require.Equal(t, "Only pending applications can be bulk updated. You have selected 2 non-pending application(s).", payload.Message)
	require.Len(t, bulk.last.IDs, 3)
}

func TestBulkDecisionHandlerSuccess(t *testing.T) {
	bulk := &stubBulkService{response: dto.BulkDecisionResponse{UpdatedCount: 2, ProcessedIDs: []uint{4, 5}, Message: "Successfully approved 2 pending application(s)"}}
	app := newReviewerApp(&stubReviewService{}, bulk)

	resp, payload := postJSON(t, app, "/api/admin/applications/bulk-decision", map[string]interface{}{
		"ids":    []int{4, 5},
		"status": "approved",
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "Successfully approved 2 pending application(s)", payload.Message)
	require.Equal(t, float64(2), payload.Data["updated_count"])
	require.Len(t, payload.Data["processed_ids"], 2)
}

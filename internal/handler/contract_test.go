package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/service"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile("file://" + filepath.ToSlash(schemaPath))
	require.NoError(t, err)
	return schema
}

func decodeBody(t *testing.T, resp *http.Response) interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestDecisionContract(t *testing.T) {
	schema := compileSchema(t, "decision_response.schema.json")
	review := &stubReviewService{decision: dto.DecisionResponse{ApplicationID: 4, Status: "approved", Message: "Application approved successfully. The student will be notified."}}
	app := newReviewerApp(review, &stubBulkService{})

	resp, _ := postJSONRaw(t, app, "/api/admin/applications/4/decision", `{"decision":"approve"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, schema.Validate(decodeBody(t, resp)))
}

func TestBulkDecisionContract(t *testing.T) {
	schema := compileSchema(t, "bulk_decision_response.schema.json")

	ok := &stubBulkService{response: dto.BulkDecisionResponse{UpdatedCount: 1, ProcessedIDs: []uint{3}, Message: "Successfully rejected 1 pending application(s)"}}
	resp, _ := postJSONRaw(t, newReviewerApp(&stubReviewService{}, ok), "/api/admin/applications/bulk-decision", `{"ids":[3],"status":"rejected"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, schema.Validate(decodeBody(t, resp)))

	failing := &stubBulkService{err: &service.IneligibleSelectionError{NonPending: 1}}
	resp, _ = postJSONRaw(t, newReviewerApp(&stubReviewService{}, failing), "/api/admin/applications/bulk-decision", `{"ids":[3],"status":"rejected"}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.NoError(t, schema.Validate(decodeBody(t, resp)))
}

func TestApplicationDetailContract(t *testing.T) {
	schema := compileSchema(t, "application_detail.schema.json")
	evaluation := service.EvaluateRejection("Your General Weighted Average (GWA) does not meet the minimum requirement for this scholarship.")
	modified := time.Now().UTC()
	review := &stubReviewService{detail: dto.ApplicationResponse{
		ID:              10,
		StudentID:       2,
		ScholarshipID:   3,
		Status:          "rejected",
		ApplicationDate: time.Now().UTC(),
		Rejection:       &dto.RejectionView{Code: "gwa", Reason: "GWA below minimum"},
		Evaluation:      &evaluation,
		Documents: []dto.DocumentResponse{
			{ID: 1, DocumentType: "valid_id", FileName: "id.png", Exists: true, ModifiedAt: &modified},
		},
	}}
	app := newReviewerApp(review, &stubBulkService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/applications/10", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, schema.Validate(decodeBody(t, resp)))
}

func postJSONRaw(t *testing.T, app *fiber.App, path, body string) (*http.Response, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp, err
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/handler"
	"github.com/academica-app/academica-api/internal/service"
)

type mockDepartmentService struct {
	departments []dto.DepartmentResponse
	lastCreate  dto.DepartmentCreateRequest
	err         error
}

func (m *mockDepartmentService) List(context.Context) ([]dto.DepartmentResponse, error) {
	return m.departments, m.err
}

func (m *mockDepartmentService) Get(_ context.Context, id uint) (dto.DepartmentResponse, error) {
	if m.err != nil {
		return dto.DepartmentResponse{}, m.err
	}
	for _, department := range m.departments {
		if department.ID == id {
			return department, nil
		}
	}
	return dto.DepartmentResponse{}, service.ErrDepartmentNotFound
}

func (m *mockDepartmentService) Create(_ context.Context, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error) {
	m.lastCreate = payload
	if m.err != nil {
		return dto.DepartmentResponse{}, m.err
	}
	return dto.DepartmentResponse{ID: 1, Name: payload.Name, Code: payload.Code}, nil
}

func (m *mockDepartmentService) Update(_ context.Context, id uint, payload dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error) {
	if m.err != nil {
		return dto.DepartmentResponse{}, m.err
	}
	response := dto.DepartmentResponse{ID: id}
	if payload.Name != nil {
		response.Name = *payload.Name
	}
	return response, nil
}

func (m *mockDepartmentService) Delete(context.Context, uint) error {
	return m.err
}

func passthrough(c *fiber.Ctx) error {
	return c.Next()
}

func denyAll(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "forbidden"})
}

func newDepartmentApp(svc service.DepartmentService, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/departments")
	handler.NewDepartmentHandler(svc, zerolog.New(io.Discard)).Register(group, guard)
	return app
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestDepartmentHandlerList(t *testing.T) {
	svc := &mockDepartmentService{departments: []dto.DepartmentResponse{
		{ID: 1, Name: "Mathematics", Code: "MATH"},
		{ID: 2, Name: "Physics", Code: "PHYS"},
	}}
	app := newDepartmentApp(svc, passthrough)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/departments", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                     `json:"success"`
		Data    []dto.DepartmentResponse `json:"data"`
		Message string                   `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data, 2)
	require.Equal(t, "MATH", response.Data[0].Code)
}

func TestDepartmentHandlerGetNotFound(t *testing.T) {
	app := newDepartmentApp(&mockDepartmentService{}, passthrough)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/departments/42", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.False(t, response.Success)
	require.Equal(t, "department not found", response.Message)
}

func TestDepartmentHandlerGetInvalidID(t *testing.T) {
	app := newDepartmentApp(&mockDepartmentService{}, passthrough)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/departments/abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDepartmentHandlerCreate(t *testing.T) {
	svc := &mockDepartmentService{}
	app := newDepartmentApp(svc, passthrough)

	body, err := json.Marshal(dto.DepartmentCreateRequest{Name: "Chemistry", Code: "CHEM"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/departments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "Chemistry", svc.lastCreate.Name)
}

func TestDepartmentHandlerCreateGuarded(t *testing.T) {
	svc := &mockDepartmentService{}
	app := newDepartmentApp(svc, denyAll)

	body, err := json.Marshal(dto.DepartmentCreateRequest{Name: "Chemistry", Code: "CHEM"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/departments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Empty(t, svc.lastCreate.Name)

	listResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/departments", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)
}

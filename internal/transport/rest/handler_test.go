package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/productcatalog/internal/analytics"
	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/abgdnv/productcatalog/internal/product"
	"github.com/abgdnv/productcatalog/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, req product.CreateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockProductService) FindByID(ctx context.Context, id string) (*product.Response, error) {
	args := m.Called(ctx, id)
	var p *product.Response
	if args.Get(0) != nil {
		p = args.Get(0).(*product.Response)
	}
	return p, args.Error(1)
}

func (m *MockProductService) FindAll(ctx context.Context) ([]product.Response, error) {
	args := m.Called(ctx)
	var list []product.Response
	if args.Get(0) != nil {
		list = args.Get(0).([]product.Response)
	}
	return list, args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, patch product.Patch) (bool, error) {
	args := m.Called(ctx, id, patch)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) (service.DeleteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.DeleteResult), args.Error(1)
}

func (m *MockProductService) Search(ctx context.Context, query string) ([]product.Response, error) {
	args := m.Called(ctx, query)
	var list []product.Response
	if args.Get(0) != nil {
		list = args.Get(0).([]product.Response)
	}
	return list, args.Error(1)
}

func (m *MockProductService) Reindex(ctx context.Context) (service.ReindexStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.ReindexStats), args.Error(1)
}

type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) GenerateReport(ctx context.Context) (*analytics.Report, error) {
	args := m.Called(ctx)
	var r *analytics.Report
	if args.Get(0) != nil {
		r = args.Get(0).(*analytics.Report)
	}
	return r, args.Error(1)
}

const productID = "65a1b2c3d4e5f6a7b8c9d0e1"

var lamp = product.Response{
	ID: productID, Name: "Lamp", Category: "home", Price: 19.99, Quantity: "10", Description: "A red lamp",
}

const lampJSON = `{"id":"65a1b2c3d4e5f6a7b8c9d0e1","name":"Lamp","category":"home","price":19.99,"quantity":"10","description":"A red lamp"}`

func newRouter(svc *MockProductService, reports *MockReportGenerator) *chi.Mux {
	mux := chi.NewRouter()
	NewHandler(svc, reports, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, target, reader))
	return rr
}

func Test_Handler_FindByID(t *testing.T) {
	testCases := []struct {
		name         string
		found        *product.Response
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			found:        &lamp,
			expectedCode: http.StatusOK,
			expectedBody: lampJSON,
		},
		{
			name:         "Error - product not found",
			err:          perrors.ErrProductNotFound,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 65a1b2c3d4e5f6a7b8c9d0e1 not found"}`,
		},
		{
			name:         "Error - store unavailable",
			err:          perrors.ErrStoreUnavailable,
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"error":"Service is temporarily unavailable"}`,
		},
		{
			name:         "Error - unexpected error",
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to retrieve product with ID 65a1b2c3d4e5f6a7b8c9d0e1"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			svc.On("FindByID", mock.Anything, productID).Return(tc.found, tc.err)

			// when
			rr := serve(newRouter(svc, nil), http.MethodGet, "/products/"+productID, "")

			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_FindAll(t *testing.T) {
	testCases := []struct {
		name         string
		list         []product.Response
		err          error
		expectedCode int
		expectedBody string
	}{
		{name: "Success - products found", list: []product.Response{lamp}, expectedCode: http.StatusOK, expectedBody: "[" + lampJSON + "]"},
		{name: "Success - empty catalog", list: []product.Response{}, expectedCode: http.StatusOK, expectedBody: `[]`},
		{
			name: "Error - store unavailable", err: perrors.ErrStoreUnavailable,
			expectedCode: http.StatusServiceUnavailable, expectedBody: `{"error":"Service is temporarily unavailable"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockProductService)
			svc.On("FindAll", mock.Anything).Return(tc.list, tc.err)

			rr := serve(newRouter(svc, nil), http.MethodGet, "/products", "")

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_Create(t *testing.T) {
	price := decimal.RequireFromString("19.99")
	validReq := product.CreateRequest{Name: "Lamp", Category: "home", Price: &price, Quantity: "10", Description: "A red lamp"}

	testCases := []struct {
		name         string
		body         string
		setup        func(svc *MockProductService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product created",
			body: `{"name":"Lamp","category":"home","price":19.99,"quantity":"10","description":"A red lamp"}`,
			setup: func(svc *MockProductService) {
				svc.On("Create", mock.Anything, mock.MatchedBy(func(r product.CreateRequest) bool {
					return r.Name == validReq.Name && r.Price.Equal(*validReq.Price) && r.Quantity == validReq.Quantity
				})).Return(productID, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":"65a1b2c3d4e5f6a7b8c9d0e1"}`,
		},
		{
			name: "Error - missing field",
			body: `{"category":"home","price":19.99,"quantity":"10","description":"A red lamp"}`,
			setup: func(svc *MockProductService) {
				svc.On("Create", mock.Anything, mock.Anything).Return("", perrors.MissingField("name"))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"name: missing required field"}`,
		},
		{
			name:         "Error - malformed body",
			body:         `{"name":`,
			setup:        func(svc *MockProductService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name: "Error - store unavailable",
			body: `{"name":"Lamp","category":"home","price":19.99,"quantity":"10","description":"A red lamp"}`,
			setup: func(svc *MockProductService) {
				svc.On("Create", mock.Anything, mock.Anything).Return("", perrors.ErrStoreUnavailable)
			},
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"error":"Service is temporarily unavailable"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			tc.setup(svc)

			// when
			rr := serve(newRouter(svc, nil), http.MethodPost, "/products", tc.body)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_Update(t *testing.T) {
	testCases := []struct {
		name         string
		modified     bool
		err          error
		expectedCode int
		expectedBody string
	}{
		{name: "Success - updated", modified: true, expectedCode: http.StatusOK, expectedBody: `{"result":"updated"}`},
		{name: "Success - not modified", modified: false, expectedCode: http.StatusOK, expectedBody: `{"result":"not modified"}`},
		{
			name: "Error - not found", err: perrors.ErrProductNotFound,
			expectedCode: http.StatusNotFound, expectedBody: `{"error":"Product with ID 65a1b2c3d4e5f6a7b8c9d0e1 not found"}`,
		},
		{
			name: "Error - invalid value", err: perrors.InvalidValue("price", "must not be negative"),
			expectedCode: http.StatusBadRequest, expectedBody: `{"error":"price: must not be negative"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			svc.On("Update", mock.Anything, productID, mock.MatchedBy(func(p product.Patch) bool {
				_, ok := p["price"]
				return ok && len(p) == 1
			})).Return(tc.modified, tc.err)

			// when
			rr := serve(newRouter(svc, nil), http.MethodPut, "/products/"+productID, `{"price":25}`)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		result       service.DeleteResult
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - deleted from both stores",
			result:       service.DeleteResult{Primary: true, Index: true},
			expectedCode: http.StatusOK,
			expectedBody: `{"result":true,"status":"deleted","primary":true,"index":true}`,
		},
		{
			name:         "Partial - shadow missing",
			result:       service.DeleteResult{Primary: true},
			expectedCode: http.StatusOK,
			expectedBody: `{"result":false,"status":"partial","primary":true,"index":false}`,
		},
		{
			name:         "Not deleted",
			result:       service.DeleteResult{},
			expectedCode: http.StatusOK,
			expectedBody: `{"result":false,"status":"not_deleted","primary":false,"index":false}`,
		},
		{
			name:         "Error - store unavailable",
			err:          perrors.ErrStoreUnavailable,
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"error":"Service is temporarily unavailable"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockProductService)
			svc.On("Delete", mock.Anything, productID).Return(tc.result, tc.err)

			rr := serve(newRouter(svc, nil), http.MethodDelete, "/products/"+productID, "")

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_Search(t *testing.T) {
	t.Run("Success - ordered results", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("Search", mock.Anything, "red lamp").Return([]product.Response{lamp}, nil)

		rr := serve(newRouter(svc, nil), http.MethodGet, "/products/search?query=red+lamp", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "["+lampJSON+"]", rr.Body.String())
	})

	t.Run("Error - missing query", func(t *testing.T) {
		svc := new(MockProductService)

		rr := serve(newRouter(svc, nil), http.MethodGet, "/products/search", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"query url parameter is required"}`, rr.Body.String())
		svc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("Error - index unavailable", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("Search", mock.Anything, "lamp").Return(nil, perrors.ErrIndexUnavailable)

		rr := serve(newRouter(svc, nil), http.MethodGet, "/products/search?query=lamp", "")

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func Test_Handler_Analytics(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		reports := new(MockReportGenerator)
		reports.On("GenerateReport", mock.Anything).Return(&analytics.Report{
			TotalProducts:           3,
			PopularCategory:         "tech",
			AvgPrice:                analytics.Amount{Value: decimal.RequireFromString("12.32"), Valid: true},
			AvgDescriptionWordCount: 5,
		}, nil)

		rr := serve(newRouter(new(MockProductService), reports), http.MethodGet, "/products/analytics", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"total_products":3,"popular_category":"tech","avg_price":12.32,"avg_description_word_count":5}`, rr.Body.String())
	})

	t.Run("Error - index unavailable", func(t *testing.T) {
		reports := new(MockReportGenerator)
		reports.On("GenerateReport", mock.Anything).Return(nil, perrors.ErrIndexUnavailable)

		rr := serve(newRouter(new(MockProductService), reports), http.MethodGet, "/products/analytics", "")

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func Test_Handler_HealthCheck(t *testing.T) {
	rr := serve(newRouter(new(MockProductService), nil), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rr.Code)
}

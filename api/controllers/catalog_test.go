package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type stubCatalogService struct {
	listInput catalog.ListProductsInput
	slug      string
}

func (s *stubCatalogService) ListCategories(context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{{Name: "Camisetas", Slug: "camisetas"}}, nil
}

func (s *stubCatalogService) ListProducts(_ context.Context, input catalog.ListProductsInput) (*types.Page[catalog.ProductDTO], error) {
	s.listInput = input
	return &types.Page[catalog.ProductDTO]{Items: []catalog.ProductDTO{{Slug: "tee"}}, NextCursor: "next"}, nil
}

func (s *stubCatalogService) GetVariantBySlug(_ context.Context, slug string) (*catalog.VariantDetail, error) {
	s.slug = slug
	if slug != "tee-v1" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
	}
	return &catalog.VariantDetail{Variant: catalog.VariantDTO{Slug: slug}}, nil
}

func TestCatalogProductsParsesQuery(t *testing.T) {
	svc := &stubCatalogService{}

	rec := httptest.NewRecorder()
	CatalogProducts(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?category=%20Camisetas%20&limit=10&cursor=abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "camisetas", svc.listInput.CategorySlug)
	assert.Equal(t, 10, svc.listInput.Pagination.Limit)
	assert.Equal(t, "abc", svc.listInput.Pagination.Cursor)

	var page types.Page[catalog.ProductDTO]
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &page))
	assert.Equal(t, "next", page.NextCursor)
}

func TestCatalogProductsRejectsBadLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	CatalogProducts(&stubCatalogService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?limit=1000", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogVariant(t *testing.T) {
	svc := &stubCatalogService{}

	rec := httptest.NewRecorder()
	CatalogVariant(svc, nil).ServeHTTP(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/catalog/variants/TEE-V1", nil), "slug", "TEE-V1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tee-v1", svc.slug)

	rec = httptest.NewRecorder()
	CatalogVariant(svc, nil).ServeHTTP(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/catalog/variants/missing", nil), "slug", "missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogCategories(t *testing.T) {
	rec := httptest.NewRecorder()
	CatalogCategories(&stubCatalogService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var categories []catalog.CategoryDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "camisetas", categories[0].Slug)
}

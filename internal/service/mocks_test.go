package service

import (
	"context"

	"github.com/abgdnv/productcatalog/internal/search"
	"github.com/abgdnv/productcatalog/internal/store"
	"github.com/abgdnv/productcatalog/pkg/messaging"
	"github.com/stretchr/testify/mock"
)

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) Insert(ctx context.Context, p store.Product) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockProductStore) FindAll(ctx context.Context) ([]store.Product, error) {
	args := m.Called(ctx)
	var products []store.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]store.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductStore) FindByID(ctx context.Context, id string) (*store.Product, error) {
	args := m.Called(ctx, id)
	var p *store.Product
	if args.Get(0) != nil {
		p = args.Get(0).(*store.Product)
	}
	return p, args.Error(1)
}

func (m *MockProductStore) UpdateByID(ctx context.Context, id string, p store.Product) (store.UpdateResult, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}

func (m *MockProductStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductStore) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductStore) MostFrequent(ctx context.Context, field string) (string, bool, error) {
	args := m.Called(ctx, field)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockProductStore) Average(ctx context.Context, field string) (float64, bool, error) {
	args := m.Called(ctx, field)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

type MockProductIndex struct {
	mock.Mock
}

func (m *MockProductIndex) Upsert(ctx context.Context, id string, doc search.Document) error {
	args := m.Called(ctx, id, doc)
	return args.Error(0)
}

func (m *MockProductIndex) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductIndex) Match(ctx context.Context, field, text string) ([]string, error) {
	args := m.Called(ctx, field, text)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockProductIndex) Average(ctx context.Context, field string) (float64, bool, error) {
	args := m.Called(ctx, field)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

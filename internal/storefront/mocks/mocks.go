// Package mocks provides testify mocks for the storefront ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/orderlog"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
)

type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Find(ctx context.Context, email, password string) (entity.User, bool, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(entity.User), args.Bool(1), args.Error(2)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subjectID int64, role entity.Role) (string, error) {
	args := m.Called(subjectID, role)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string) (entity.Identity, error) {
	args := m.Called(token)
	return args.Get(0).(entity.Identity), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Append(ctx context.Context, p entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockCatalog) List(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) HasSeen(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) MarkSeen(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockLedger) CheckAndMark(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o entity.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Save(ctx context.Context, entry *orderlog.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sangkips/hotelpos-api/internal/domain/billing"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	"github.com/sangkips/hotelpos-api/pkg/authadmin"
	"github.com/sangkips/hotelpos-api/pkg/pra"
)

type mockInvoiceRepo struct{ mock.Mock }

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice, deltas []billing.StockDelta) error {
	return m.Called(ctx, invoice, deltas).Error(0)
}

func (m *mockInvoiceRepo) Replace(ctx context.Context, invoice *entity.Invoice, deltas []billing.StockDelta) error {
	return m.Called(ctx, invoice, deltas).Error(0)
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*entity.Invoice)
	return inv, args.Error(1)
}

func (m *mockInvoiceRepo) GetByUSIN(ctx context.Context, usin string) (*entity.Invoice, error) {
	args := m.Called(ctx, usin)
	inv, _ := args.Get(0).(*entity.Invoice)
	return inv, args.Error(1)
}

func (m *mockInvoiceRepo) GetLatestByBuyerName(ctx context.Context, name string) (*entity.Invoice, error) {
	args := m.Called(ctx, name)
	inv, _ := args.Get(0).(*entity.Invoice)
	return inv, args.Error(1)
}

func (m *mockInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	args := m.Called(ctx, params)
	invoices, _ := args.Get(0).([]entity.Invoice)
	return invoices, args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceRepo) SumTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInvoiceRepo) BookedRoomCodes(ctx context.Context, date time.Time) ([]string, error) {
	args := m.Called(ctx, date)
	codes, _ := args.Get(0).([]string)
	return codes, args.Error(1)
}

type mockUsinRepo struct{ mock.Mock }

func (m *mockUsinRepo) Peek(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsinRepo) Next(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type stubSettings struct {
	settings entity.Settings
	err      error
}

func (s *stubSettings) Current(context.Context) (entity.Settings, error) {
	return s.settings, s.err
}

type mockSubmitter struct{ mock.Mock }

func (m *mockSubmitter) Submit(ctx context.Context, env pra.Environment, token string, invoice pra.Invoice) (*pra.Result, error) {
	args := m.Called(ctx, env, token, invoice)
	res, _ := args.Get(0).(*pra.Result)
	return res, args.Error(1)
}

type mockMenuRepo struct{ mock.Mock }

func (m *mockMenuRepo) Create(ctx context.Context, item *entity.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockMenuRepo) CreateBatch(ctx context.Context, items []entity.MenuItem) error {
	return m.Called(ctx, items).Error(0)
}

func (m *mockMenuRepo) GetByCode(ctx context.Context, code string) (*entity.MenuItem, error) {
	args := m.Called(ctx, code)
	item, _ := args.Get(0).(*entity.MenuItem)
	return item, args.Error(1)
}

func (m *mockMenuRepo) GetByCodes(ctx context.Context, codes []string) (map[string]entity.MenuItem, error) {
	args := m.Called(ctx, codes)
	items, _ := args.Get(0).(map[string]entity.MenuItem)
	return items, args.Error(1)
}

func (m *mockMenuRepo) Update(ctx context.Context, item *entity.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockMenuRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMenuRepo) List(ctx context.Context, params *repository.MenuFilterParams) ([]entity.MenuItem, int64, error) {
	args := m.Called(ctx, params)
	items, _ := args.Get(0).([]entity.MenuItem)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockMenuRepo) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

func (m *mockMenuRepo) ApplyStockDeltas(ctx context.Context, deltas []billing.StockDelta) error {
	return m.Called(ctx, deltas).Error(0)
}

type mockEmployeeRepo struct{ mock.Mock }

func (m *mockEmployeeRepo) GetByAuthUID(ctx context.Context, businessID uuid.UUID, authUID string) (*entity.Employee, error) {
	args := m.Called(ctx, businessID, authUID)
	e, _ := args.Get(0).(*entity.Employee)
	return e, args.Error(1)
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*entity.Employee)
	return e, args.Error(1)
}

func (m *mockEmployeeRepo) List(ctx context.Context) ([]entity.Employee, error) {
	args := m.Called(ctx)
	employees, _ := args.Get(0).([]entity.Employee)
	return employees, args.Error(1)
}

func (m *mockEmployeeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockEmployeeRepo) ExistsByAuthUID(ctx context.Context, authUID string) (bool, error) {
	args := m.Called(ctx, authUID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *mockEmployeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAuthAdmin struct{ mock.Mock }

func (m *mockAuthAdmin) InviteUserByEmail(ctx context.Context, email string) (*authadmin.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*authadmin.User)
	return u, args.Error(1)
}

func (m *mockAuthAdmin) FindUserByEmail(ctx context.Context, email string) (*authadmin.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*authadmin.User)
	return u, args.Error(1)
}

func (m *mockAuthAdmin) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockSettingsRepo struct{ mock.Mock }

func (m *mockSettingsRepo) Get(ctx context.Context) (*entity.BusinessSettings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*entity.BusinessSettings)
	return s, args.Error(1)
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, settings entity.Settings) (*entity.BusinessSettings, error) {
	args := m.Called(ctx, settings)
	s, _ := args.Get(0).(*entity.BusinessSettings)
	return s, args.Error(1)
}

type mockSettingsCache struct{ mock.Mock }

func (m *mockSettingsCache) Get(ctx context.Context, businessID uuid.UUID) (*entity.Settings, error) {
	args := m.Called(ctx, businessID)
	s, _ := args.Get(0).(*entity.Settings)
	return s, args.Error(1)
}

func (m *mockSettingsCache) Set(ctx context.Context, businessID uuid.UUID, s entity.Settings) error {
	return m.Called(ctx, businessID, s).Error(0)
}

func (m *mockSettingsCache) Delete(ctx context.Context, businessID uuid.UUID) error {
	return m.Called(ctx, businessID).Error(0)
}

type mockInvalidator struct{ mock.Mock }

func (m *mockInvalidator) InvalidateSettings(ctx context.Context, businessID uuid.UUID) error {
	return m.Called(ctx, businessID).Error(0)
}

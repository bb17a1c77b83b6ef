package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/report"
	"github.com/dukerupert/megapdv/internal/service"
)

var (
	adminUser   = domain.User{ID: "u1", Name: "Carlos Silva", Email: "admin@megapdv.local", Role: domain.RoleAdmin}
	cashierUser = domain.User{ID: "u3", Name: "João Oliveira", Email: "caixa@megapdv.local", Role: domain.RoleCashier}
)

// newRequest builds a request authenticated as user (nil for anonymous)
// with the given path values set.
func newRequest(method, target, body string, user *domain.User, pathValues ...string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if user != nil {
		req = req.WithContext(domain.NewContextWithUser(req.Context(), user))
	}
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req
}

// mockProductService implements service.ProductService for testing
type mockProductService struct {
	listProductsFunc  func(ctx context.Context, filter service.ProductFilter) ([]domain.Product, error)
	getProductFunc    func(ctx context.Context, id string) (*domain.Product, error)
	findByCodeFunc    func(ctx context.Context, code string) (*domain.Product, error)
	createProductFunc func(ctx context.Context, input service.ProductInput) (*domain.Product, error)
	updateProductFunc func(ctx context.Context, id string, input service.ProductInput) (*domain.Product, error)
	deleteProductFunc func(ctx context.Context, id string) error
	categoriesFunc    func(ctx context.Context) ([]string, error)
	stockStatsFunc    func(ctx context.Context) (*service.StockStats, error)
}

func (m *mockProductService) ListProducts(ctx context.Context, filter service.ProductFilter) ([]domain.Product, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.getProductFunc != nil {
		return m.getProductFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductService) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	if m.findByCodeFunc != nil {
		return m.findByCodeFunc(ctx, code)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductService) CreateProduct(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
	if m.createProductFunc != nil {
		return m.createProductFunc(ctx, input)
	}
	return nil, nil
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id string, input service.ProductInput) (*domain.Product, error) {
	if m.updateProductFunc != nil {
		return m.updateProductFunc(ctx, id, input)
	}
	return nil, nil
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id string) error {
	if m.deleteProductFunc != nil {
		return m.deleteProductFunc(ctx, id)
	}
	return nil
}

func (m *mockProductService) Categories(ctx context.Context) ([]string, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockProductService) StockStats(ctx context.Context) (*service.StockStats, error) {
	if m.stockStatsFunc != nil {
		return m.stockStatsFunc(ctx)
	}
	return &service.StockStats{}, nil
}

// mockUserService implements service.UserService for testing
type mockUserService struct {
	listUsersFunc      func(ctx context.Context, search string) ([]domain.User, error)
	getUserFunc        func(ctx context.Context, id string) (*domain.User, error)
	createUserFunc     func(ctx context.Context, input service.CreateUserInput) (*domain.User, error)
	updateUserFunc     func(ctx context.Context, id string, input service.UpdateUserInput) (*domain.User, error)
	deleteUserFunc     func(ctx context.Context, actorID, id string) error
	changePasswordFunc func(ctx context.Context, id, password, confirmation string) error
	authenticateFunc   func(ctx context.Context, email, password string) (*domain.User, error)
	roleCountsFunc     func(ctx context.Context) (map[domain.Role]int, error)
}

func (m *mockUserService) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx, search)
	}
	return nil, nil
}

func (m *mockUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserService) CreateUser(ctx context.Context, input service.CreateUserInput) (*domain.User, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, input)
	}
	return nil, nil
}

func (m *mockUserService) UpdateUser(ctx context.Context, id string, input service.UpdateUserInput) (*domain.User, error) {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(ctx, id, input)
	}
	return nil, nil
}

func (m *mockUserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, actorID, id)
	}
	return nil
}

func (m *mockUserService) ChangePassword(ctx context.Context, id, password, confirmation string) error {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, id, password, confirmation)
	}
	return nil
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *mockUserService) RoleCounts(ctx context.Context) (map[domain.Role]int, error) {
	if m.roleCountsFunc != nil {
		return m.roleCountsFunc(ctx)
	}
	return map[domain.Role]int{}, nil
}

// mockSalesService implements service.SalesService for testing
type mockSalesService struct {
	listSalesFunc func(ctx context.Context, filter service.SalesFilter) (*service.SalesList, error)
	getSaleFunc   func(ctx context.Context, id string) (*domain.Sale, error)
}

func (m *mockSalesService) ListSales(ctx context.Context, filter service.SalesFilter) (*service.SalesList, error) {
	if m.listSalesFunc != nil {
		return m.listSalesFunc(ctx, filter)
	}
	return &service.SalesList{}, nil
}

func (m *mockSalesService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	if m.getSaleFunc != nil {
		return m.getSaleFunc(ctx, id)
	}
	return nil, domain.ErrSaleNotFound
}

// mockReportService implements service.ReportService for testing
type mockReportService struct {
	dashboardFunc func(ctx context.Context) (*report.Dashboard, error)
	reportFunc    func(ctx context.Context, period report.Period) (*report.Report, error)
	exportPDFFunc func(ctx context.Context, period report.Period, w io.Writer) error
}

func (m *mockReportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	if m.dashboardFunc != nil {
		return m.dashboardFunc(ctx)
	}
	return &report.Dashboard{}, nil
}

func (m *mockReportService) Report(ctx context.Context, period report.Period) (*report.Report, error) {
	if m.reportFunc != nil {
		return m.reportFunc(ctx, period)
	}
	return &report.Report{}, nil
}

func (m *mockReportService) ExportPDF(ctx context.Context, period report.Period, w io.Writer) error {
	if m.exportPDFFunc != nil {
		return m.exportPDFFunc(ctx, period, w)
	}
	return nil
}

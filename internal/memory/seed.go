package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukerupert/megapdv/internal/auth"
	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/shopspring/decimal"
)

// SeedConfig carries the initial passwords for the demo accounts.
type SeedConfig struct {
	AdminPassword   string
	ManagerPassword string
	CashierPassword string
}

type seedProduct struct {
	name, code, barcode, category string
	purchase, sale                string
	stock                         int
}

var seedProducts = []seedProduct{
	{"Coca-Cola 2L", "BEB001", "7894900011517", "Bebidas", "6.50", "9.99", 48},
	{"Guaraná Antarctica 2L", "BEB002", "7891991000833", "Bebidas", "5.20", "8.49", 36},
	{"Água Mineral 500ml", "BEB003", "7896065200015", "Bebidas", "0.90", "2.50", 120},
	{"Suco de Laranja 1L", "BEB004", "7891098000255", "Bebidas", "4.80", "7.90", 8},
	{"Arroz Tipo 1 5kg", "MER001", "7896006716018", "Mercearia", "19.90", "27.90", 25},
	{"Feijão Carioca 1kg", "MER002", "7896006744110", "Mercearia", "5.40", "8.99", 40},
	{"Açúcar Refinado 1kg", "MER003", "7896215300014", "Mercearia", "3.10", "4.99", 6},
	{"Café Torrado 500g", "MER004", "7896005800015", "Mercearia", "11.20", "16.90", 0},
	{"Pão Francês (un)", "PAD001", "2000000000015", "Padaria", "0.35", "0.80", 200},
	{"Bolo de Fubá", "PAD002", "2000000000022", "Padaria", "6.00", "12.50", 4},
	{"Detergente 500ml", "LIM001", "7891022100105", "Limpeza", "1.60", "2.79", 60},
	{"Sabonete 90g", "HIG001", "7891150019348", "Higiene", "1.20", "2.49", 0},
}

// Seed fills an empty store with a demo catalog and one account per role.
// Login emails are admin@, gerente@ and caixa@megapdv.local.
func Seed(ctx context.Context, s *Store, cfg SeedConfig, logger *slog.Logger) error {
	for _, sp := range seedProducts {
		p := &domain.Product{
			Name:          sp.name,
			Code:          sp.code,
			Barcode:       sp.barcode,
			Category:      sp.category,
			PurchasePrice: decimal.RequireFromString(sp.purchase),
			SalePrice:     decimal.RequireFromString(sp.sale),
			Stock:         sp.stock,
		}
		if err := s.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", sp.code, err)
		}
	}

	accounts := []struct {
		name, email, password string
		role                  domain.Role
	}{
		{"Administrador", "admin@megapdv.local", cfg.AdminPassword, domain.RoleAdmin},
		{"Gerente", "gerente@megapdv.local", cfg.ManagerPassword, domain.RoleManager},
		{"Operador de Caixa", "caixa@megapdv.local", cfg.CashierPassword, domain.RoleCashier},
	}
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password for %s: %w", a.email, err)
		}
		u := &domain.User{Name: a.name, Email: a.email, Role: a.role, PasswordHash: hash}
		if err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", a.email, err)
		}
	}

	logger.Info("memory store seeded",
		"products", len(seedProducts),
		"users", len(accounts),
	)
	return nil
}

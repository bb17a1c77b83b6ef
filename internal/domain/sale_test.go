package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    PaymentMethod
		wantErr bool
	}{
		{"cash", PaymentCash, false},
		{"debit", PaymentDebit, false},
		{"credit", PaymentCredit, false},
		{"pix", PaymentPix, false},
		{"", "", true},
		{"boleto", "", true},
		{"PIX", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePaymentMethod(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, EINVALID, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaymentMethod_Label(t *testing.T) {
	assert.Equal(t, "Dinheiro", PaymentCash.Label())
	assert.Equal(t, "PIX", PaymentPix.Label())
	assert.Equal(t, "other", PaymentMethod("other").Label())
	assert.Len(t, PaymentMethods(), 4)
}

func TestSale_ItemCount(t *testing.T) {
	sale := Sale{
		Items: []SaleItem{
			{Product: Product{ID: "p1", SalePrice: decimal.NewFromInt(5)}, Quantity: 2},
			{Product: Product{ID: "p2", SalePrice: decimal.NewFromInt(7)}, Quantity: 3},
		},
	}
	assert.Equal(t, 5, sale.ItemCount())
	assert.True(t, sale.Items[1].Subtotal().Equal(decimal.NewFromInt(21)))
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Equal(t, "Operador de Caixa", RoleCashier.Label())
}

func TestProduct_StockFlags(t *testing.T) {
	tests := []struct {
		stock      int
		lowStock   bool
		outOfStock bool
	}{
		{0, false, true},
		{1, true, false},
		{10, true, false},
		{11, false, false},
	}

	for _, tt := range tests {
		p := Product{Stock: tt.stock}
		assert.Equal(t, tt.lowStock, p.IsLowStock(), "stock=%d", tt.stock)
		assert.Equal(t, tt.outOfStock, p.IsOutOfStock(), "stock=%d", tt.stock)
	}
}

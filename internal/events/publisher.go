// Package events publishes checkout events for downstream consumers
// (stock replenishment, accounting exports) without coupling the register to them.
package events

//go:generate mockgen -source=publisher.go -destination=mock_publisher.go -package=events

import (
	"context"
	"time"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/shopspring/decimal"
)

// SubjectSaleCompleted is the default subject for finalized sales.
const SubjectSaleCompleted = "pdv.sale.completed"

// SaleCompleted is the payload published after a sale is recorded.
type SaleCompleted struct {
	SaleID        string               `json:"sale_id"`
	CashierID     string               `json:"cashier_id"`
	CashierName   string               `json:"cashier_name"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Discount      decimal.Decimal      `json:"discount"`
	Total         decimal.Decimal      `json:"total"`
	Items         []SaleCompletedItem  `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
}

// SaleCompletedItem is one sold product in a SaleCompleted event.
type SaleCompletedItem struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Quantity  int    `json:"quantity"`
}

// NewSaleCompleted builds the event payload for sale.
func NewSaleCompleted(sale domain.Sale) SaleCompleted {
	items := make([]SaleCompletedItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleCompletedItem{
			ProductID: item.Product.ID,
			Code:      item.Product.Code,
			Quantity:  item.Quantity,
		})
	}
	return SaleCompleted{
		SaleID:        sale.ID,
		CashierID:     sale.CashierID,
		CashierName:   sale.CashierName,
		PaymentMethod: sale.PaymentMethod,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		Items:         items,
		CreatedAt:     sale.CreatedAt,
	}
}

// Publisher delivers checkout events.
type Publisher interface {
	PublishSaleCompleted(ctx context.Context, sale domain.Sale) error
	Close() error
}

// NoopPublisher discards every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSaleCompleted(ctx context.Context, sale domain.Sale) error { return nil }
func (NoopPublisher) Close() error                                                      { return nil }

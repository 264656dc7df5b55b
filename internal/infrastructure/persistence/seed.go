package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/apflow/backend/internal/domain/refdata"
)

// Seeder loads the demo reference dataset: five suppliers and six
// purchase orders, one of them already closed so the receivability
// paths can be exercised end to end.
type Seeder struct {
	suppliers refdata.SupplierRepository
	orders    refdata.PurchaseOrderRepository
	logger    *zap.Logger
}

// NewSeeder creates a reference data seeder
func NewSeeder(suppliers refdata.SupplierRepository, orders refdata.PurchaseOrderRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{suppliers: suppliers, orders: orders, logger: logger}
}

type seedSupplier struct {
	name           string
	taxID          string
	registrationID string
	bankAccount    string
	bankRouting    string
	city           string
	country        string
}

type seedOrder struct {
	reference   string
	supplier    string // seed supplier name
	amount      string
	currency    string
	status      refdata.POStatus
	description string
}

var seedSuppliers = []seedSupplier{
	{
		name:           "Nordwind Components GmbH",
		taxID:          "DE812345670",
		registrationID: "HRB 86123",
		bankAccount:    "DE44500105175407324931",
		bankRouting:    "COBADEFFXXX",
		city:           "Hamburg",
		country:        "DE",
	},
	{
		name:           "Atelier Lumiere SARL",
		taxID:          "FR40123456824",
		registrationID: "RCS PARIS 123 456 824",
		bankAccount:    "FR7630006000011234567890189",
		bankRouting:    "AGRIFRPP",
		city:           "Paris",
		country:        "FR",
	},
	{
		name:           "Iberica Logistica SL",
		taxID:          "ESB12345674",
		registrationID: "B-12345674",
		bankAccount:    "ES9121000418450200051332",
		bankRouting:    "CAIXESBBXXX",
		city:           "Valencia",
		country:        "ES",
	},
	{
		name:           "Delta Office Supplies BV",
		taxID:          "NL123456789B01",
		registrationID: "KVK 34567890",
		bankAccount:    "NL91ABNA0417164300",
		bankRouting:    "ABNANL2A",
		city:           "Utrecht",
		country:        "NL",
	},
	{
		name:           "Stellar Print and Pack Ltd",
		taxID:          "GB123456789",
		registrationID: "09876543",
		bankAccount:    "GB29NWBK60161331926819",
		bankRouting:    "NWBKGB2L",
		city:           "Leeds",
		country:        "GB",
	},
}

var seedOrders = []seedOrder{
	{reference: "PO-2024-001", supplier: "Nordwind Components GmbH", amount: "12500.00", currency: "EUR", status: refdata.POStatusOpen, description: "Server rack components Q3"},
	{reference: "PO-2024-002", supplier: "Atelier Lumiere SARL", amount: "4830.50", currency: "EUR", status: refdata.POStatusOpen, description: "Office lighting refit"},
	{reference: "PO-2024-003", supplier: "Iberica Logistica SL", amount: "27400.00", currency: "EUR", status: refdata.POStatusPartiallyReceived, description: "Warehouse handling services"},
	{reference: "PO-2024-004", supplier: "Delta Office Supplies BV", amount: "1925.75", currency: "EUR", status: refdata.POStatusOpen, description: "Stationery annual order"},
	{reference: "PO-2024-005", supplier: "Stellar Print and Pack Ltd", amount: "8600.00", currency: "GBP", status: refdata.POStatusClosed, description: "Packaging print run, completed"},
	{reference: "PO-2024-006", supplier: "Nordwind Components GmbH", amount: "33150.00", currency: "EUR", status: refdata.POStatusPartiallyReceived, description: "Network switch rollout"},
}

// Seed loads the dataset unless suppliers already exist
func (s *Seeder) Seed(ctx context.Context) error {
	count, err := s.suppliers.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting suppliers: %w", err)
	}
	if count > 0 {
		s.logger.Info("reference data already present, skipping seed", zap.Int64("suppliers", count))
		return nil
	}

	byName := make(map[string]*refdata.Supplier, len(seedSuppliers))
	for _, row := range seedSuppliers {
		supplier, err := refdata.NewSupplier(row.name, row.taxID, row.registrationID, row.bankAccount, row.bankRouting)
		if err != nil {
			return fmt.Errorf("building seed supplier %q: %w", row.name, err)
		}
		supplier.City = row.city
		supplier.Country = row.country
		if err := s.suppliers.Save(ctx, supplier); err != nil {
			return fmt.Errorf("saving seed supplier %q: %w", row.name, err)
		}
		byName[row.name] = supplier
	}

	for _, row := range seedOrders {
		supplier, ok := byName[row.supplier]
		if !ok {
			return fmt.Errorf("seed order %q references unknown supplier %q", row.reference, row.supplier)
		}
		amount, err := decimal.NewFromString(row.amount)
		if err != nil {
			return fmt.Errorf("parsing seed amount for %q: %w", row.reference, err)
		}
		po, err := refdata.NewPurchaseOrder(row.reference, supplier.ID, amount, row.currency)
		if err != nil {
			return fmt.Errorf("building seed order %q: %w", row.reference, err)
		}
		po.Status = row.status
		po.Description = row.description
		if err := s.orders.Save(ctx, po); err != nil {
			return fmt.Errorf("saving seed order %q: %w", row.reference, err)
		}
	}

	s.logger.Info("reference data seeded",
		zap.Int("suppliers", len(seedSuppliers)),
		zap.Int("purchase_orders", len(seedOrders)))
	return nil
}

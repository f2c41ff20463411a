package handlers

import (
	"github.com/jmoiron/sqlx"

	"tradehub/internal/config"
	"tradehub/internal/domain"
	"tradehub/internal/repos"
	"tradehub/internal/services"
)

type Deps struct {
	PartnershipHandler *PartnershipHandler
	AllocationHandler  *AllocationHandler
	InventoryHandler   *InventoryHandler
	ProductHandler     *ProductHandler
	CartHandler        *CartHandler
	OrderHandler       *OrderHandler
	InvoiceHandler     *InvoiceHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	partRepo := repos.NewPartnershipRepo(db)
	allocRepo := repos.NewAllocationRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	invoiceRepo := repos.NewInvoiceRepo(db)

	shipping := map[string]float64{
		domain.DeliveryDirect:   cfg.ShippingDirect,
		domain.DeliveryDropShip: cfg.ShippingDropShip,
	}

	partSvc := services.NewPartnershipService(partRepo, userRepo)
	allocSvc := services.NewAllocationService(db, allocRepo, invRepo, prodRepo, partSvc)
	invSvc := services.NewInventoryService(invRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	invoiceSvc := services.NewInvoiceService(db, invoiceRepo, orderRepo, userRepo, services.FlatRate(cfg.TaxRate), shipping)
	orderSvc := services.NewOrderService(db, cartRepo, invRepo, orderRepo, partRepo, invoiceSvc, services.NewNotifier())

	return &Deps{
		PartnershipHandler: &PartnershipHandler{Partnerships: partSvc},
		AllocationHandler:  &AllocationHandler{Allocations: allocSvc},
		InventoryHandler:   &InventoryHandler{Inv: invSvc},
		ProductHandler:     &ProductHandler{Prods: prodRepo},
		CartHandler:        &CartHandler{Cart: cartSvc},
		OrderHandler:       &OrderHandler{Orders: orderSvc},
		InvoiceHandler:     &InvoiceHandler{Invoices: invoiceSvc},
	}
}

package domain

// Partnership status values.
const (
	PartnershipPending  = "pending"
	PartnershipApproved = "approved"
	PartnershipRejected = "rejected"
)

// Partnership types. The type fixes which roles sit on each side of
// the link.
const (
	TypeManufacturerDistributor = "manufacturer_distributor"
	TypeDistributorRetailer     = "distributor_retailer"
)

// Delivery options accepted at checkout. Direct delivery requires an
// approved distributor_retailer partnership; drop-ship bypasses it.
const (
	DeliveryDirect   = "direct"
	DeliveryDropShip = "drop_ship"
)

// Order statuses. See OrderTransitions for the allowed moves.
const (
	OrderPlaced    = "PLACED"
	OrderConfirmed = "CONFIRMED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// OrderTransitions is the full transition table. A status absent from
// the map (DELIVERED, CANCELLED) is terminal.
var OrderTransitions = map[string][]string{
	OrderPlaced:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

// CanTransition reports whether an order may move from -> to.
func CanTransition(from, to string) bool {
	for _, s := range OrderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// LowStockThreshold drives the isLowStock/needsRestock flags on
// inventory reads.
const LowStockThreshold = 10

type Product struct {
	ID             string  `db:"id" json:"id"`
	ManufacturerID string  `db:"manufacturer_id" json:"manufacturerId"`
	SKU            string  `db:"sku" json:"sku"`
	Title          string  `db:"title" json:"title"`
	Description    string  `db:"description" json:"description"`
	BasePrice      float64 `db:"base_price" json:"basePrice"`
	StockQuantity  int     `db:"stock_quantity" json:"stockQuantity"`
	Active         bool    `db:"active" json:"active"`
	CreatedAt      string  `db:"created_at" json:"createdAt"`
	UpdatedAt      string  `db:"updated_at" json:"updatedAt"`
}

type Partnership struct {
	ID              string `db:"id" json:"id"`
	RequesterID     string `db:"requester_id" json:"requesterId"`
	PartnerID       string `db:"partner_id" json:"partnerId"`
	Status          string `db:"status" json:"status"`
	PartnershipType string `db:"partnership_type" json:"partnershipType"`
	CreatedAt       string `db:"created_at" json:"createdAt"`
	UpdatedAt       string `db:"updated_at" json:"updatedAt"`
}

type Allocation struct {
	ID                string   `db:"id" json:"id"`
	ManufacturerID    string   `db:"manufacturer_id" json:"manufacturerId"`
	DistributorID     string   `db:"distributor_id" json:"distributorId"`
	ProductID         string   `db:"product_id" json:"productId"`
	SellingPrice      *float64 `db:"selling_price" json:"sellingPrice"`
	AllocatedQuantity int      `db:"allocated_quantity" json:"allocatedQuantity"`
	IsActive          bool     `db:"is_active" json:"isActive"`
	CreatedAt         string   `db:"created_at" json:"createdAt"`
	UpdatedAt         string   `db:"updated_at" json:"updatedAt"`
}

type Inventory struct {
	ID            string  `db:"id" json:"id"`
	DistributorID string  `db:"distributor_id" json:"distributorId"`
	ProductID     string  `db:"product_id" json:"productId"`
	Quantity      int     `db:"quantity" json:"quantity"`
	SellingPrice  float64 `db:"selling_price" json:"sellingPrice"`
	IsAvailable   bool    `db:"is_available" json:"isAvailable"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`
	UpdatedAt     string  `db:"updated_at" json:"updatedAt"`
}

// InventoryView is the wire shape for inventory reads; the derived
// fields are computed from Quantity, never stored.
type InventoryView struct {
	Inventory
	AvailableQuantity int  `json:"availableQuantity"`
	IsLowStock        bool `json:"isLowStock"`
	NeedsRestock      bool `json:"needsRestock"`
}

// View derives the read-side flags from the stored row.
func (i Inventory) View() InventoryView {
	low := i.Quantity <= LowStockThreshold
	return InventoryView{
		Inventory:         i,
		AvailableQuantity: i.Quantity,
		IsLowStock:        low,
		NeedsRestock:      low,
	}
}

type Order struct {
	ID             string  `db:"id" json:"id"`
	CheckoutRef    string  `db:"checkout_ref" json:"checkoutRef"`
	BuyerID        string  `db:"buyer_id" json:"buyerId"`
	SellerID       string  `db:"seller_id" json:"sellerId"`
	DeliveryOption string  `db:"delivery_option" json:"deliveryOption"`
	Notes          string  `db:"notes" json:"notes"`
	TotalAmount    float64 `db:"total_amount" json:"totalAmount"`
	Status         string  `db:"status" json:"status"`
	CreatedAt      string  `db:"created_at" json:"createdAt"`
	UpdatedAt      string  `db:"updated_at" json:"updatedAt"`
}

type OrderItem struct {
	OrderID   string  `db:"order_id" json:"orderId"`
	ProductID string  `db:"product_id" json:"productId"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unitPrice"`
}

// Invoice keeps the snake_case wire names billing records are
// persisted under.
type Invoice struct {
	ID             string  `db:"id" json:"id"`
	InvoiceNumber  string  `db:"invoice_number" json:"invoice_number"`
	OrderID        string  `db:"order_id" json:"order_id"`
	SellerID       string  `db:"seller_id" json:"seller_id"`
	BuyerID        string  `db:"buyer_id" json:"buyer_id"`
	TotalAmount    float64 `db:"total_amount" json:"total_amount"`
	TaxAmount      float64 `db:"tax_amount" json:"tax_amount"`
	ShippingAmount float64 `db:"shipping_amount" json:"shipping_amount"`
	GrandTotal     float64 `db:"grand_total" json:"grand_total"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
	UpdatedAt      string  `db:"updated_at" json:"updated_at"`
}

// PartySummary is the nested actor shape embedded in invoice payloads.
type PartySummary struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	CompanyName string `db:"company_name" json:"company_name"`
	Email       string `db:"email" json:"email"`
}

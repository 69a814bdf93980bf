package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusReceived   OrderStatus = "received"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusReceived, OrderStatusProcessing, OrderStatusCompleted:
		return true
	}
	return false
}

// LineItem is a product/quantity/price triple on an order.
type LineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}

// CustomField is free-form labelled metadata on packages and items.
type CustomField struct {
	UniqueKey string `json:"unique_key,omitempty"`
	Value     string `json:"value,omitempty"`
	Label     string `json:"label,omitempty"`
}

// PackageItem is a line inside a package. It has no lifecycle of its own.
type PackageItem struct {
	Reference          string        `json:"reference,omitempty"`
	SKU                string        `json:"sku,omitempty"`
	Quantity           int64         `json:"quantity,omitempty"`
	QuantityUnit       string        `json:"quantity_unit,omitempty"` // pieces
	GrossWeightPerUnit float64       `json:"gross_weight_per_unit,omitempty"`
	WeightUnit         string        `json:"weight_unit,omitempty"` // kg, lbs
	CustomFieldData    []CustomField `json:"custom_field_data,omitempty"`
}

// Package is a shipping unit embedded in an order.
type Package struct {
	DisplayOrder        int           `json:"display_order,omitempty"`
	Reference           string        `json:"reference,omitempty"`
	Code                string        `json:"code,omitempty"`
	Quantity            int64         `json:"quantity,omitempty"`
	QuantityUnit        string        `json:"quantity_unit,omitempty"` // pieces, cartons, pallets
	GrossWeightPerUnit  float64       `json:"gross_weight_per_unit,omitempty"`
	GrossWeightSubtotal float64       `json:"gross_weight_subtotal,omitempty"`
	WeightUnit          string        `json:"weight_unit,omitempty"` // kg, lbs
	Length              float64       `json:"length,omitempty"`
	Height              float64       `json:"height,omitempty"`
	Width               float64       `json:"width,omitempty"`
	DimensionUnit       string        `json:"dimension_unit,omitempty"` // cm, inch
	CBM                 float64       `json:"cbm,omitempty"`
	CustomFieldData     []CustomField `json:"custom_field_data,omitempty"`
	FromWaypointUUID    string        `json:"from_waypoint_uuid,omitempty"`
	ToWaypointUUID      string        `json:"to_waypoint_uuid,omitempty"`
	ItemTotalQuantity   int64         `json:"item_total_quantity,omitempty"`
	Items               []PackageItem `json:"items,omitempty"`
}

// Order is a warehouse order. Packages and their items are embedded and
// owned exclusively by the order.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"user_id"`
	Description     string      `json:"description"`
	Status          OrderStatus `json:"status"`
	LineItems       []LineItem  `json:"line_items,omitempty"`
	TotalAmount     int64       `json:"total_amount"`
	OrderID         string      `json:"order_id,omitempty"` // external identifier
	CustRefNo       string      `json:"cust_ref_no,omitempty"`
	InvoiceURL      string      `json:"invoice_url,omitempty"`
	ExternalOrderID string      `json:"external_order_id,omitempty"`
	Packages        []Package   `json:"packages"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ComputeTotal returns the monetary total over the line items.
func ComputeTotal(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Quantity * it.UnitPrice
	}
	return total
}

// Product is a stocked item referenced by order line items.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int64     `json:"quantity"` // stock on hand
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

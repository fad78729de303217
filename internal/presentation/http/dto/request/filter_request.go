package request

import (
	"time"

	"github.com/sangkips/salepilot-api/pkg/pagination"
)

// PageRequest represents page query parameters
type PageRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// Params returns validated pagination parameters
func (r PageRequest) Params() *pagination.PaginationParams {
	p := &pagination.PaginationParams{Page: r.Page, PerPage: r.PerPage}
	p.Validate()
	return p
}

// CursorRequest represents cursor query parameters
type CursorRequest struct {
	Cursor    string `form:"cursor"`
	Direction string `form:"direction"`
	Limit     int    `form:"limit"`
}

// Requested reports whether the client asked for cursor paging
func (r CursorRequest) Requested() bool {
	return r.Cursor != "" || r.Limit > 0
}

// Params returns validated cursor parameters
func (r CursorRequest) Params() *pagination.CursorParams {
	p := &pagination.CursorParams{
		Cursor:    r.Cursor,
		Direction: pagination.CursorDirection(r.Direction),
		Limit:     r.Limit,
	}
	p.Validate()
	return p
}

// SearchRequest is a paged list with a free-text search
type SearchRequest struct {
	PageRequest
	Search string `form:"search"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	PageRequest
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	Archived   bool   `form:"archived"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	PageRequest
	Search      string `form:"search"`
	Outstanding bool   `form:"outstanding"`
	WithCredit  bool   `form:"with_credit"`
}

// SaleFilterRequest represents sale filter parameters. Supplying a cursor or limit switches to cursor paging.
type SaleFilterRequest struct {
	PageRequest
	CursorRequest
	CustomerID    string     `form:"customer_id"`
	PaymentStatus string     `form:"payment_status"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
}

// ReturnFilterRequest represents return filter parameters
type ReturnFilterRequest struct {
	PageRequest
	SaleID string `form:"sale_id"`
}

// JournalFilterRequest represents journal entry filter parameters
type JournalFilterRequest struct {
	PageRequest
	AccountID  string     `form:"account_id"`
	SourceType string     `form:"source_type"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// PurchaseOrderFilterRequest represents purchase order filter parameters
type PurchaseOrderFilterRequest struct {
	PageRequest
	Status string `form:"status"`
}

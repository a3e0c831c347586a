package models

import "fmt"

const (
	DefaultSkip  = 0
	DefaultLimit = 100
)

// Pagination is decoded from the skip/limit query parameters by gorilla/schema.
type Pagination struct {
	Skip  int `schema:"skip" json:"skip"`
	Limit int `schema:"limit" json:"limit"`
}

// DefaultPagination returns skip=0, limit=100.
func DefaultPagination() Pagination {
	return Pagination{Skip: DefaultSkip, Limit: DefaultLimit}
}

// Validate rejects negative offsets and limits.
func (p Pagination) Validate() error {
	if p.Skip < 0 {
		return fmt.Errorf("skip must not be negative")
	}
	if p.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

// Normalize validates p and maps a zero limit to DefaultLimit.
func (p Pagination) Normalize() (Pagination, error) {
	if err := p.Validate(); err != nil {
		return p, err
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p, nil
}

// Package model defines the core domain types used throughout fincast.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Direction indicates which way money moved in a transaction.
type Direction string

const (
	// DirectionIncome marks transactions that bring money in.
	DirectionIncome Direction = "income"
	// DirectionExpense marks transactions that take money out.
	DirectionExpense Direction = "expense"
)

// Transaction represents a single financial transaction from any source.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string // Raw transaction description
	Category    string
	Amount      float64 // Signed; negative means money out
}

// Direction derives the direction from the amount sign. A non-negative
// amount counts as income.
func (t Transaction) Direction() Direction {
	if t.Amount < 0 {
		return DirectionExpense
	}
	return DirectionIncome
}

// Absolute returns the amount magnitude.
func (t Transaction) Absolute() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// GenerateID creates a stable content hash for duplicate detection.
func (t Transaction) GenerateID() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.Category)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Day normalizes a timestamp to its civil day at UTC midnight. All date
// arithmetic in fincast happens on civil days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Package split divides a shared bill between payers, applying an optional
// discount to everyone and spreading a delivery fee evenly.
package split

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	KeyDiscount = "discount"
	KeyDelivery = "delivery"
)

var (
	ErrInvalid       = errors.New("invalid split request")
	ErrLeadingNumber = fmt.Errorf("%w: amount before any payer", ErrInvalid)
	ErrDiscountRange = fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalid)
	ErrNoPayers      = fmt.Errorf("%w: no payers", ErrInvalid)
)

// Order is the parsed request: raw amounts per payer plus the control values.
type Order struct {
	Amounts  map[string]float64
	Discount float64
	Delivery float64
}

// Share is what one payer owes.
type Share struct {
	Name string
	Due  float64
}

// Bill is the computed split: one share per payer, sorted by name, and the
// amount due after discount and delivery.
type Bill struct {
	Shares []Share
	Total  float64
}

// ParseNumber reports whether token is a finite decimal number.
func ParseNumber(token string) (float64, bool) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Parse scans words left to right. A word that is not a number becomes the
// current payer, numbers add to the current payer. The reserved payers
// "discount" and "delivery", in any case, are moved out into Order.
func Parse(words []string) (Order, error) {
	amounts := make(map[string]float64)
	current := ""
	for _, w := range words {
		if v, ok := ParseNumber(w); ok {
			if current == "" {
				return Order{}, ErrLeadingNumber
			}
			amounts[current] += v
			continue
		}
		if _, ok := amounts[w]; !ok {
			amounts[w] = 0
		}
		current = w
	}

	order := Order{Amounts: make(map[string]float64, len(amounts))}
	// Ascending key order so that with several spellings of a reserved key
	// the last one wins deterministically.
	for _, name := range sortedKeys(amounts) {
		switch strings.ToLower(name) {
		case KeyDiscount:
			order.Discount = amounts[name]
		case KeyDelivery:
			order.Delivery = amounts[name]
		default:
			order.Amounts[name] = amounts[name]
		}
	}
	return order, nil
}

// Compute applies the discount and the delivery fee. A discount of 1 or more
// is a percentage, below 1 a fraction: 1 means 1%.
func Compute(order Order) (Bill, error) {
	discount := order.Discount
	if discount < 0 || discount > 100 {
		return Bill{}, ErrDiscountRange
	}
	if discount >= 1 {
		discount /= 100
	}
	if len(order.Amounts) == 0 {
		return Bill{}, ErrNoPayers
	}

	perPayer := order.Delivery / float64(len(order.Amounts))
	bill := Bill{Shares: make([]Share, 0, len(order.Amounts))}
	sum := 0.0
	for _, name := range sortedKeys(order.Amounts) {
		amount := order.Amounts[name]
		sum += amount
		bill.Shares = append(bill.Shares, Share{
			Name: name,
			Due:  amount*(1-discount) + perPayer,
		})
	}
	bill.Total = (1-discount)*sum + order.Delivery
	return bill, nil
}

// Calculate parses words and computes the bill.
func Calculate(words []string) (Bill, error) {
	order, err := Parse(words)
	if err != nil {
		return Bill{}, err
	}
	return Compute(order)
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

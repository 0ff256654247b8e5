/*
Package forex holds foreign exchange rates against the Nepali rupee.

PURPOSE:
  The portal shows the day's buying and selling rates and converts amounts
  between currencies. Rates are recorded per AD date; the BS date is derived
  with the bsdate converter so pages can be keyed by either calendar.

PRECISION:
  Uses decimal.Decimal throughout; money never goes through float64.

UNITS:
  Rates are quoted per Unit of foreign currency (e.g. 100 INR, 10 JPY).
  Per-unit prices are Buy/Unit and Sell/Unit.

CONVERSION:
  Converting foreign -> NPR uses the buying rate (the bank buys the
  foreign currency). NPR -> foreign uses the selling rate. Cross rates go
  through NPR. Results are rounded to 2 decimal places.
*/
package forex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/shopspring/decimal"
)

// Base is the currency every rate is quoted against.
const Base = "NPR"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidRate is returned when a rate fails validation.
	ErrInvalidRate = errors.New("invalid rate")

	// ErrRateNotFound is returned when no rate exists for a currency.
	ErrRateNotFound = errors.New("rate not found")
)

// =============================================================================
// RATE
// =============================================================================

// Rate is one currency's buying and selling price in NPR on a given day.
type Rate struct {
	Currency string
	Unit     int
	Buy      decimal.Decimal
	Sell     decimal.Decimal
	Date     bsdate.GregorianDate
	BSDate   bsdate.NepaliDate
}

// NewRate builds a validated rate and fills in its BS date.
func NewRate(currency string, unit int, buy, sell decimal.Decimal, date bsdate.GregorianDate) (Rate, error) {
	r := Rate{
		Currency: strings.ToUpper(strings.TrimSpace(currency)),
		Unit:     unit,
		Buy:      buy,
		Sell:     sell,
		Date:     date,
	}
	if err := r.Validate(); err != nil {
		return Rate{}, err
	}
	bs, err := date.ToBS()
	if err != nil {
		return Rate{}, err
	}
	r.BSDate = bs
	return r, nil
}

// Validate checks the currency code and price ordering.
func (r Rate) Validate() error {
	if len(r.Currency) != 3 || strings.ToUpper(r.Currency) != r.Currency {
		return fmt.Errorf("%w: currency %q must be a 3-letter ISO code", ErrInvalidRate, r.Currency)
	}
	if r.Currency == Base {
		return fmt.Errorf("%w: %s is the base currency", ErrInvalidRate, Base)
	}
	if r.Unit < 1 {
		return fmt.Errorf("%w: unit must be at least 1", ErrInvalidRate)
	}
	if !r.Buy.IsPositive() || !r.Sell.IsPositive() {
		return fmt.Errorf("%w: buy and sell must be positive", ErrInvalidRate)
	}
	if r.Sell.LessThan(r.Buy) {
		return fmt.Errorf("%w: sell %s is below buy %s", ErrInvalidRate, r.Sell, r.Buy)
	}
	return nil
}

// BuyPerUnit is the NPR price of one unit of the currency when buying.
func (r Rate) BuyPerUnit() decimal.Decimal {
	return r.Buy.Div(decimal.NewFromInt(int64(r.Unit)))
}

// SellPerUnit is the NPR price of one unit of the currency when selling.
func (r Rate) SellPerUnit() decimal.Decimal {
	return r.Sell.Div(decimal.NewFromInt(int64(r.Unit)))
}

// =============================================================================
// CONVERSION
// =============================================================================

// ToNPR converts an amount of r.Currency into rupees.
func ToNPR(amount decimal.Decimal, r Rate) decimal.Decimal {
	return amount.Mul(r.BuyPerUnit()).Round(2)
}

// FromNPR converts rupees into r.Currency.
func FromNPR(amount decimal.Decimal, r Rate) decimal.Decimal {
	return amount.Div(r.SellPerUnit()).Round(2)
}

// Cross converts between two foreign currencies through NPR. Either side
// may be the zero Rate with Currency == Base to convert to or from rupees.
func Cross(amount decimal.Decimal, from, to Rate) decimal.Decimal {
	npr := amount
	if from.Currency != Base {
		npr = amount.Mul(from.BuyPerUnit())
	}
	if to.Currency == Base {
		return npr.Round(2)
	}
	return npr.Div(to.SellPerUnit()).Round(2)
}

// NPR is the pseudo-rate used as the Base side of Cross.
func NPR() Rate {
	return Rate{Currency: Base, Unit: 1, Buy: decimal.NewFromInt(1), Sell: decimal.NewFromInt(1)}
}

// Table indexes one day's rates by currency.
type Table map[string]Rate

// NewTable indexes rates by currency; the base currency is always present.
func NewTable(rates []Rate) Table {
	t := make(Table, len(rates)+1)
	t[Base] = NPR()
	for _, r := range rates {
		t[r.Currency] = r
	}
	return t
}

// Convert converts amount between two currency codes using the table.
func (t Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fr, ok := t[strings.ToUpper(from)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, from)
	}
	tr, ok := t[strings.ToUpper(to)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, to)
	}
	return Cross(amount, fr, tr), nil
}

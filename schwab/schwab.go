// Package schwab reads the equity award history exported from a Schwab account.
//
// The export is a JSON document listing every transaction of the account.
// Sales of vested shares have the "Sale" action and one entry per lot sold,
// each lot with its own vest date and vest fair market value:
//
//	{"Transactions": [{
//	   "Date": "03/15/2024", "Action": "Sale", "Symbol": "GOOG",
//	   "Quantity": "30", "FeesAndCommissions": "$0.12",
//	   "TransactionDetails": [{"Details": {
//	      "Shares": "10", "SalePrice": "$140.00",
//	      "VestDate": "01/25/2022", "VestFairMarketValue": "$130.00"}}]}]}
package schwab

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "01/02/2006"
	salesPath  = `$.Transactions[?(@.Action == "Sale")]`
	lotsPath   = `$.TransactionDetails[*].Details`
)

// Sale is one sale order, it sells one or more lots at the same price.
type Sale struct {
	Date   date.Date
	Symbol string
	Fees   decimal.Decimal // in USD, for the whole sale
	Lots   []Lot
}

// Lot is a block of shares vested on the same day.
type Lot struct {
	Shares    decimal.Decimal
	VestDate  date.Date
	VestValue decimal.Decimal // fair market value per share at vest, in USD
	SalePrice decimal.Decimal // per share, in USD
}

// Load reads the sales from an export file.
func Load(path string) ([]Sale, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open schwab export: %w", err)
	}
	defer f.Close()
	sales, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not read schwab export %q: %w", path, err)
	}
	log.Debug().Str("file", path).Int("sales", len(sales)).Msg("schwab export loaded")
	return sales, nil
}

// Parse reads the sales from a JSON export, in the export order.
func Parse(r io.Reader) ([]Sale, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if root, ok := jobj.(map[string]any); !ok || root["Transactions"] == nil {
		return nil, errors.New("not a transactions export: missing Transactions")
	}
	jsales, err := jsonpath.Get(salesPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", salesPath, err)
	}
	list, _ := jsales.([]any)

	sales := make([]Sale, 0, len(list))
	var errs error
	for i, jsale := range list {
		sale, err := parseSale(jsale)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("sale #%d: %w", i+1, err))
			continue
		}
		sales = append(sales, sale)
	}
	if errs != nil {
		return nil, errs
	}
	return sales, nil
}

func parseSale(jsale any) (Sale, error) {
	fields, ok := jsale.(map[string]any)
	if !ok {
		return Sale{}, fmt.Errorf("not an object: %v", jsale)
	}
	var sale Sale
	var err error
	if sale.Date, err = parseDate(fields["Date"]); err != nil {
		return Sale{}, fmt.Errorf("date: %w", err)
	}
	sale.Symbol, _ = fields["Symbol"].(string)
	if sale.Fees, err = parseUSD(fields["FeesAndCommissions"]); err != nil {
		return Sale{}, fmt.Errorf("fees: %w", err)
	}

	jlots, err := jsonpath.Get(lotsPath, jsale)
	list, _ := jlots.([]any)
	if err != nil || len(list) == 0 {
		return Sale{}, fmt.Errorf("sale on %s has no lot details", sale.Date)
	}
	total := decimal.Zero
	for i, jlot := range list {
		lot, err := parseLot(jlot)
		if err != nil {
			return Sale{}, fmt.Errorf("lot #%d: %w", i+1, err)
		}
		total = total.Add(lot.Shares)
		sale.Lots = append(sale.Lots, lot)
	}

	// the sale quantity, when present, is the sum of its lots.
	if q, ok := fields["Quantity"]; ok && q != nil && q != "" {
		quantity, err := parseNumber(q)
		if err != nil {
			return Sale{}, fmt.Errorf("quantity: %w", err)
		}
		if !quantity.Equal(total) {
			return Sale{}, fmt.Errorf("sale on %s of %s shares, but its lots sum up to %s", sale.Date, quantity, total)
		}
	}
	return sale, nil
}

func parseLot(jlot any) (Lot, error) {
	fields, ok := jlot.(map[string]any)
	if !ok {
		return Lot{}, fmt.Errorf("not an object: %v", jlot)
	}
	var lot Lot
	var err error
	if lot.Shares, err = parseNumber(fields["Shares"]); err != nil {
		return Lot{}, fmt.Errorf("shares: %w", err)
	}
	if lot.VestDate, err = parseDate(fields["VestDate"]); err != nil {
		return Lot{}, fmt.Errorf("vest date: %w", err)
	}
	if lot.VestValue, err = parseUSD(fields["VestFairMarketValue"]); err != nil {
		return Lot{}, fmt.Errorf("vest fair market value: %w", err)
	}
	if lot.SalePrice, err = parseUSD(fields["SalePrice"]); err != nil {
		return Lot{}, fmt.Errorf("sale price: %w", err)
	}
	return lot, nil
}

func parseDate(v any) (date.Date, error) {
	s, ok := v.(string)
	if !ok {
		return date.Date{}, fmt.Errorf("missing or not a string: %v", v)
	}
	return date.ParseLayout(dateLayout, strings.TrimSpace(s))
}

// parseUSD reads amounts like "$1,234.5678". A missing amount is zero.
func parseUSD(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		s := strings.TrimSpace(x)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	}
	return decimal.Decimal{}, fmt.Errorf("not an amount: %v", v)
}

func parseNumber(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(x), ",", ""))
	}
	return decimal.Decimal{}, fmt.Errorf("not a number: %v", v)
}

// InYear returns the sales made during the fiscal year.
func InYear(sales []Sale, year int) []Sale {
	var kept []Sale
	for _, s := range sales {
		if s.Date.Year() == year {
			kept = append(kept, s)
		}
	}
	return kept
}

// LotFees splits the sale fees between its lots, pro rata of their shares.
// The last lot takes the remainder so that the lot fees add up to the sale fees.
func (s Sale) LotFees() []decimal.Decimal {
	fees := make([]decimal.Decimal, len(s.Lots))
	total := decimal.Zero
	for _, l := range s.Lots {
		total = total.Add(l.Shares)
	}
	allocated := decimal.Zero
	for i, l := range s.Lots {
		if i == len(s.Lots)-1 || total.IsZero() {
			fees[i] = s.Fees.Sub(allocated)
			allocated = s.Fees
			continue
		}
		fees[i] = s.Fees.Mul(l.Shares).Div(total)
		allocated = allocated.Add(fees[i])
	}
	return fees
}

// Converter converts dollar amounts into the reporting currency at a day's rate.
type Converter interface {
	USD(day date.Date) (decimal.Decimal, error)
	ToEUR(usd decimal.Decimal, day date.Date) (rsutax.Money, error)
}

// Lines converts sales into transaction lines, one per lot, in the export order.
//
// Vest values use the rate of the vest date, sale prices and fees the rate
// of the sale date.
func Lines(sales []Sale, rates Converter) ([]rsutax.TransactionLine, error) {
	var lines []rsutax.TransactionLine
	var errs error
	for _, sale := range sales {
		fees := sale.LotFees()
		for i, lot := range sale.Lots {
			ref := fmt.Sprintf("%s sold %s lot %d", sale.Symbol, sale.Date, i+1)
			line, err := convert(ref, sale.Date, lot, fees[i], rates)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("%s: %w", ref, err))
				continue
			}
			lines = append(lines, line)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return lines, nil
}

func convert(ref string, sold date.Date, lot Lot, fees decimal.Decimal, rates Converter) (rsutax.TransactionLine, error) {
	vestValue, err := rates.ToEUR(lot.VestValue, lot.VestDate)
	if err != nil {
		return rsutax.TransactionLine{}, fmt.Errorf("vest value: %w", err)
	}
	salePrice, err := rates.ToEUR(lot.SalePrice, sold)
	if err != nil {
		return rsutax.TransactionLine{}, fmt.Errorf("sale price: %w", err)
	}
	eurFees, err := rates.ToEUR(fees, sold)
	if err != nil {
		return rsutax.TransactionLine{}, fmt.Errorf("fees: %w", err)
	}
	// both days converted above, they have a rate.
	vestRate, err := rates.USD(lot.VestDate)
	if err != nil {
		return rsutax.TransactionLine{}, fmt.Errorf("vest rate: %w", err)
	}
	saleRate, err := rates.USD(sold)
	if err != nil {
		return rsutax.TransactionLine{}, fmt.Errorf("sale rate: %w", err)
	}
	return rsutax.TransactionLine{
		Ref:       ref,
		VestDate:  lot.VestDate,
		SaleDate:  sold,
		Shares:    rsutax.Q(lot.Shares),
		VestValue: vestValue,
		CostBasis: rsutax.EUR(0),
		SalePrice: salePrice,
		Fees:      eurFees,
		Source: &rsutax.Conversion{
			VestValue: rsutax.M(lot.VestValue, "USD"),
			SalePrice: rsutax.M(lot.SalePrice, "USD"),
			Fees:      rsutax.M(fees, "USD"),
			VestRate:  vestRate,
			SaleRate:  saleRate,
		},
	}, nil
}

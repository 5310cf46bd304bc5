// Package bdf reads the EUR reference exchange rates published by the Banque de France.
//
// The rates are downloaded as a CSV file from the Webstat portal: one row per
// day, one column per currency, the amount of foreign currency for one euro.
package bdf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	dateColumn = "Titre :"
	usdColumn  = "Dollar des Etats-Unis (USD)"
	dateLayout = "02/01/2006"
	// metadataRows follow the header row and hold series codes, units and the like.
	metadataRows = 5
	// noQuotation marks a day without quotation (week-ends, bank holidays).
	noQuotation = "-"
)

// Rates holds the daily USD reference rate: how many dollars one euro is worth.
type Rates struct {
	usd date.History[decimal.Decimal]
}

// Load reads the rates from a CSV file.
func Load(path string) (*Rates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open exchange rates: %w", err)
	}
	defer f.Close()
	rates, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not read exchange rates from %q: %w", path, err)
	}
	log.Debug().Str("file", path).Int("days", rates.Len()).Msg("exchange rates loaded")
	return rates, nil
}

// Parse reads the rates from the Banque de France CSV format.
//
// A day without quotation takes the value of the next row in the file.
func Parse(r io.Reader) (*Rates, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // metadata rows are shorter
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("empty file")
	}

	header := records[0]
	dateIdx, usdIdx := columnIndex(header, dateColumn), columnIndex(header, usdColumn)
	if dateIdx < 0 {
		return nil, fmt.Errorf("missing column %q", dateColumn)
	}
	if usdIdx < 0 {
		return nil, fmt.Errorf("missing column %q", usdColumn)
	}
	if len(records) <= 1+metadataRows {
		return nil, errors.New("no rates after the metadata rows")
	}

	type row struct {
		day  date.Date
		rate string
	}
	rows := make([]row, 0, len(records)-1-metadataRows)
	var errs error
	for i, record := range records[1+metadataRows:] {
		line := i + 2 + metadataRows
		if len(record) <= max(dateIdx, usdIdx) {
			errs = errors.Join(errs, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(dateIdx, usdIdx)+1, len(record)))
			continue
		}
		day, err := date.ParseLayout(dateLayout, strings.TrimSpace(record[dateIdx]))
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		rows = append(rows, row{day, strings.TrimSpace(record[usdIdx])})
	}
	if errs != nil {
		return nil, errs
	}

	rates := &Rates{}
	next := ""
	for i := len(rows) - 1; i >= 0; i-- {
		value := rows[i].rate
		if value == noQuotation || value == "" {
			if next == "" {
				// nothing to fill from, the day stays without rate.
				continue
			}
			value = next
		}
		rate, err := decimal.NewFromString(strings.Replace(value, ",", ".", 1))
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("invalid rate %q on %s: %w", value, rows[i].day, err))
			continue
		}
		if !rate.IsPositive() {
			errs = errors.Join(errs, fmt.Errorf("invalid rate %q on %s: must be positive", value, rows[i].day))
			continue
		}
		next = value
		rates.usd.Append(rows[i].day, rate)
	}
	if errs != nil {
		return nil, errs
	}
	return rates, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == name {
			return i
		}
	}
	return -1
}

// Len returns the number of days with a rate.
func (r *Rates) Len() int { return r.usd.Len() }

// USD returns the number of dollars for one euro on 'day'.
//
// There is no fallback to a previous day: a missing rate is an error.
func (r *Rates) USD(day date.Date) (decimal.Decimal, error) {
	rate, ok := r.usd.Get(day)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no EUR/USD rate on %s", day)
	}
	return rate, nil
}

// ToEUR converts an amount of dollars into euros at the rate of 'day'.
func (r *Rates) ToEUR(usd decimal.Decimal, day date.Date) (rsutax.Money, error) {
	rate, err := r.USD(day)
	if err != nil {
		return rsutax.Money{}, err
	}
	return rsutax.EUR(usd.Div(rate)), nil
}

// Package export serializes record sets into streaming CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"winsbygroup.com/leadserver/internal/customer"
)

// Filename is the fixed attachment name for CSV downloads.
const Filename = "customers.csv"

// ContentType is the MIME type of the encoded payload.
const ContentType = "text/csv"

// Header is the fixed column order. Field order here must match the row
// order written by WriteCSV.
var Header = []string{"identity", "name", "email", "phone", "created_at"}

// WriteCSV emits the header followed by one row per record in input order,
// flushing row by row so large exports never materialize in memory. Fields
// containing delimiters, quotes or line breaks are quoted per RFC 4180 by
// encoding/csv. The encoder never drops or reorders a row.
func WriteCSV(w io.Writer, records []customer.Customer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range records {
		r := &records[i]
		row := []string{r.Identity, r.Name, r.Email, r.Phone, r.CreatedAt}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
		// Flush per row: a consumer that abandons the stream just stops
		// reading, and nothing beyond the current row is buffered
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flush csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

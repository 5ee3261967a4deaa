package booking

import (
	"encoding/csv"
	"io"
)

// csvColumns is the fixed export column order consumed by the back-office
// spreadsheet imports; do not reorder.
var csvColumns = []string{"id", "vehicleId", "vehicleName", "from", "to", "status", "email", "phone", "createdAt"}

// WriteCSV streams the reservation rows as a CSV document.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.ID, r.VehicleID, r.VehicleName, r.From, r.To, r.Status, r.Email, r.Phone, r.CreatedAt}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package reports

import (
	"strconv"

	monitoring "storewatch/internal/monitoring/domain"
)

// Header is the fixed artifact header, one column set per window.
var Header = []string{
	"store_id",
	"last_one_hour_uptime",
	"last_one_hour_downtime",
	"last_one_hour_unit",
	"last_one_day_uptime",
	"last_one_day_downtime",
	"last_one_day_unit",
	"last_one_week_uptime",
	"last_one_week_downtime",
	"last_one_week_unit",
}

// Row is one store's availability results across the three windows.
type Row struct {
	StoreID string
	Hour    monitoring.Result
	Day     monitoring.Result
	Week    monitoring.Result
}

// Record flattens the row into artifact fields in Header order.
func (r Row) Record() []string {
	return []string{
		r.StoreID,
		strconv.Itoa(r.Hour.Uptime),
		strconv.Itoa(r.Hour.Downtime),
		r.Hour.Unit,
		strconv.Itoa(r.Day.Uptime),
		strconv.Itoa(r.Day.Downtime),
		r.Day.Unit,
		strconv.Itoa(r.Week.Uptime),
		strconv.Itoa(r.Week.Downtime),
		r.Week.Unit,
	}
}

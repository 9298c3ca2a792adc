package handlers

import (
	"time"

	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

// All date parsing happens in the establishment's timezone so calendar-day
// boundaries match what the desk sees on the wall clock.

func locationFor(est *models.Establishment) *time.Location {
	if est != nil {
		return timezone.Location(est.Timezone)
	}
	return timezone.Location("")
}

func parseDateIn(est *models.Establishment, dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, locationFor(est))
}

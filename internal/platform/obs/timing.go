package obs

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Time logs the duration of an operation when the returned func runs.
// Use with defer and a named error return to capture the outcome:
//
//	defer obs.Time(log, "facade.GetOpenDonations")(&err)
func Time(log logrus.FieldLogger, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		entry := log.WithField("op", name).WithField("dur_ms", time.Since(start).Milliseconds())

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation complete")
	}
}

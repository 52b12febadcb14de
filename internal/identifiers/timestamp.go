package identifiers

import "time"

// DefaultTimestampLayout matches the dashboard's short date-time format.
const DefaultTimestampLayout = "01/02/2006, 15:04"

// TimestampFormatter renders server timestamps in the operator's clock.
type TimestampFormatter struct {
	Layout    string
	Location  *time.Location
	Localizer Localizer
}

// Format renders ts shifted by the skew between the server clock and the
// local clock at fetch time. A zero ts renders the unknown placeholder.
func (f TimestampFormatter) Format(ts, serverTime, fetchedAt time.Time) string {
	if ts.IsZero() {
		return Text(f.Localizer, MsgTimestampUnknown)
	}
	if !serverTime.IsZero() && !fetchedAt.IsZero() {
		ts = ts.Add(fetchedAt.Sub(serverTime))
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format(layout)
}

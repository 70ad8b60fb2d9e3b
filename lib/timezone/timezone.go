package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
}

// force the venue's local zone because the CI runners building the
// calendar may sit in any region, and year/month/day arithmetic on
// listing dates has to happen in Leicester's clock, not the host's
func Now() time.Time {
	return time.Now().In(Location)
}

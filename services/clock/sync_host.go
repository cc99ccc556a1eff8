// services/clock/sync_host.go
//go:build !rp2040 && !rp2350

package clock

import (
	"time"

	"github.com/beevik/ntp"
)

// query is swapped in tests.
var query = func(server string) (time.Duration, error) {
	r, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: queryTimeout})
	if err != nil {
		return 0, err
	}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return r.ClockOffset, nil
}

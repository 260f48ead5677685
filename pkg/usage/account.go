package usage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Account is the per-user metering state.
type Account struct {
	UserID     string    `json:"user_id"`
	UsageCount int       `json:"usage_count"`
	LastReset  time.Time `json:"last_reset"`
	IsPremium  bool      `json:"is_premium"`
}

// Remaining is either a non-negative count or unlimited.
// It encodes to JSON as a number or the string "unlimited".
type Remaining struct {
	Unlimited bool
	Count     int
}

// Unlimited is the remaining value reported for premium users.
var Unlimited = Remaining{Unlimited: true}

// Left returns a finite remaining value clamped at zero.
func Left(n int) Remaining {
	if n < 0 {
		n = 0
	}
	return Remaining{Count: n}
}

func (r Remaining) String() string {
	if r.Unlimited {
		return "unlimited"
	}
	return strconv.Itoa(r.Count)
}

func (r Remaining) MarshalJSON() ([]byte, error) {
	if r.Unlimited {
		return []byte(`"unlimited"`), nil
	}
	return []byte(strconv.Itoa(r.Count)), nil
}

func (r *Remaining) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unlimited" {
			return fmt.Errorf("usage: invalid remaining value %q", s)
		}
		*r = Unlimited
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = Left(n)
	return nil
}

// Decision is the outcome of a metering request.
type Decision struct {
	Allowed   bool      `json:"allowed"`
	Remaining Remaining `json:"remaining"`
}

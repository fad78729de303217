package enum

import "database/sql/driver"

// RefundStatus tracks returns against a sale
type RefundStatus int

const (
	RefundStatusNone              RefundStatus = 0
	RefundStatusPartiallyRefunded RefundStatus = 1
	RefundStatusFullyRefunded     RefundStatus = 2
)

var refundStatusNames = []string{"NONE", "PARTIALLY_REFUNDED", "FULLY_REFUNDED"}

func (s RefundStatus) String() string {
	return nameOf(refundStatusNames, int(s))
}

func (s RefundStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *RefundStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("refundStatus", refundStatusNames, data)
	if err != nil {
		return err
	}
	*s = RefundStatus(i)
	return nil
}

func (s RefundStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *RefundStatus) Scan(value interface{}) error {
	*s = RefundStatus(scanInt(value))
	return nil
}

package enum

import "database/sql/driver"

// PaymentStatus tracks how much of a sale has been paid
type PaymentStatus int

const (
	PaymentStatusUnpaid        PaymentStatus = 0
	PaymentStatusPartiallyPaid PaymentStatus = 1
	PaymentStatusPaid          PaymentStatus = 2
)

var paymentStatusNames = []string{"UNPAID", "PARTIALLY_PAID", "PAID"}

func (s PaymentStatus) String() string {
	return nameOf(paymentStatusNames, int(s))
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("paymentStatus", paymentStatusNames, data)
	if err != nil {
		return err
	}
	*s = PaymentStatus(i)
	return nil
}

// ParsePaymentStatus parses a status name such as "partially_paid"
func ParsePaymentStatus(str string) (PaymentStatus, error) {
	i, err := lookupName("paymentStatus", paymentStatusNames, str)
	return PaymentStatus(i), err
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	*s = PaymentStatus(scanInt(value))
	return nil
}

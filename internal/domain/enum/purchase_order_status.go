package enum

import "database/sql/driver"

// PurchaseOrderStatus is the receiving state of a purchase order
type PurchaseOrderStatus int

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = 0
	PurchaseOrderStatusOrdered           PurchaseOrderStatus = 1
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = 2
	PurchaseOrderStatusReceived          PurchaseOrderStatus = 3
	PurchaseOrderStatusCanceled          PurchaseOrderStatus = 4
)

var purchaseOrderStatusNames = []string{"DRAFT", "ORDERED", "PARTIALLY_RECEIVED", "RECEIVED", "CANCELED"}

func (s PurchaseOrderStatus) String() string {
	return nameOf(purchaseOrderStatusNames, int(s))
}

func (s PurchaseOrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *PurchaseOrderStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("purchaseOrderStatus", purchaseOrderStatusNames, data)
	if err != nil {
		return err
	}
	*s = PurchaseOrderStatus(i)
	return nil
}

func ParsePurchaseOrderStatus(str string) (PurchaseOrderStatus, error) {
	i, err := lookupName("purchaseOrderStatus", purchaseOrderStatusNames, str)
	return PurchaseOrderStatus(i), err
}

func (s PurchaseOrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PurchaseOrderStatus) Scan(value interface{}) error {
	*s = PurchaseOrderStatus(scanInt(value))
	return nil
}

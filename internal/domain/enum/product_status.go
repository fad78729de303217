package enum

import "database/sql/driver"

// ProductStatus marks whether a product is sellable
type ProductStatus int

const (
	ProductStatusActive   ProductStatus = 0
	ProductStatusArchived ProductStatus = 1
)

var productStatusNames = []string{"ACTIVE", "ARCHIVED"}

func (s ProductStatus) String() string {
	return nameOf(productStatusNames, int(s))
}

func (s ProductStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *ProductStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("productStatus", productStatusNames, data)
	if err != nil {
		return err
	}
	*s = ProductStatus(i)
	return nil
}

func (s ProductStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ProductStatus) Scan(value interface{}) error {
	*s = ProductStatus(scanInt(value))
	return nil
}

package enum

import "database/sql/driver"

// StockTakeStatus is the state of a stock take session
type StockTakeStatus int

const (
	StockTakeStatusActive    StockTakeStatus = 0
	StockTakeStatusCompleted StockTakeStatus = 1
)

var stockTakeStatusNames = []string{"ACTIVE", "COMPLETED"}

func (s StockTakeStatus) String() string {
	return nameOf(stockTakeStatusNames, int(s))
}

func (s StockTakeStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *StockTakeStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("stockTakeStatus", stockTakeStatusNames, data)
	if err != nil {
		return err
	}
	*s = StockTakeStatus(i)
	return nil
}

func (s StockTakeStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *StockTakeStatus) Scan(value interface{}) error {
	*s = StockTakeStatus(scanInt(value))
	return nil
}

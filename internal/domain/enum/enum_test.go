package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_JSON(t *testing.T) {
	b, err := json.Marshal(PaymentStatusPartiallyPaid)
	require.NoError(t, err)
	assert.Equal(t, `"PARTIALLY_PAID"`, string(b))

	var s PaymentStatus
	require.NoError(t, json.Unmarshal([]byte(`"paid"`), &s))
	assert.Equal(t, PaymentStatusPaid, s)

	require.NoError(t, json.Unmarshal([]byte(`0`), &s))
	assert.Equal(t, PaymentStatusUnpaid, s)

	assert.Error(t, json.Unmarshal([]byte(`"SETTLED"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`9`), &s))
}

func TestPurchaseOrderStatus_Scan(t *testing.T) {
	var s PurchaseOrderStatus
	require.NoError(t, s.Scan(int64(2)))
	assert.Equal(t, PurchaseOrderStatusPartiallyReceived, s)
	assert.Equal(t, "PARTIALLY_RECEIVED", s.String())

	v, err := PurchaseOrderStatusCanceled.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	assert.Equal(t, "UNKNOWN", PurchaseOrderStatus(42).String())
}

func TestAccountType_DebitNormal(t *testing.T) {
	assert.True(t, AccountTypeAsset.DebitNormal())
	assert.True(t, AccountTypeExpense.DebitNormal())
	assert.False(t, AccountTypeLiability.DebitNormal())
	assert.False(t, AccountTypeEquity.DebitNormal())
	assert.False(t, AccountTypeRevenue.DebitNormal())
	assert.False(t, AccountType("OTHER").Valid())
}

func TestAccountSubType_Singleton(t *testing.T) {
	assert.True(t, AccountSubTypeAccountsReceivable.Singleton())
	assert.True(t, AccountSubTypeAccountsPayable.Singleton())
	assert.True(t, AccountSubTypeSalesTaxPayable.Singleton())
	assert.False(t, AccountSubTypeCash.Singleton())
	assert.True(t, AccountSubTypeCOGS.Valid())
}

func TestParseStatus(t *testing.T) {
	s, err := ParsePaymentStatus("partially_paid")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPartiallyPaid, s)

	_, err = ParsePaymentStatus("settled")
	assert.Error(t, err)

	po, err := ParsePurchaseOrderStatus("ORDERED")
	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderStatusOrdered, po)
}

package enum

// AccountType is the top-level classification of a ledger account
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether balances of this type grow with debits.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// AccountSubType identifies accounts with a system role
type AccountSubType string

const (
	AccountSubTypeCash               AccountSubType = "CASH"
	AccountSubTypeAccountsReceivable AccountSubType = "ACCOUNTS_RECEIVABLE"
	AccountSubTypeInventory          AccountSubType = "INVENTORY"
	AccountSubTypeAccountsPayable    AccountSubType = "ACCOUNTS_PAYABLE"
	AccountSubTypeSalesTaxPayable    AccountSubType = "SALES_TAX_PAYABLE"
	AccountSubTypeSalesRevenue       AccountSubType = "SALES_REVENUE"
	AccountSubTypeCOGS               AccountSubType = "COGS"
	AccountSubTypeStoreCredit        AccountSubType = "STORE_CREDIT_PAYABLE"
)

func (s AccountSubType) Valid() bool {
	switch s {
	case AccountSubTypeCash, AccountSubTypeAccountsReceivable, AccountSubTypeInventory,
		AccountSubTypeAccountsPayable, AccountSubTypeSalesTaxPayable, AccountSubTypeSalesRevenue,
		AccountSubTypeCOGS, AccountSubTypeStoreCredit:
		return true
	}
	return false
}

// Singleton sub-types may exist at most once per tenant.
func (s AccountSubType) Singleton() bool {
	switch s {
	case AccountSubTypeAccountsReceivable, AccountSubTypeAccountsPayable, AccountSubTypeSalesTaxPayable:
		return true
	}
	return false
}

// EntryLineType is the side of a journal line
type EntryLineType string

const (
	EntryLineDebit  EntryLineType = "DEBIT"
	EntryLineCredit EntryLineType = "CREDIT"
)

func (t EntryLineType) Valid() bool {
	return t == EntryLineDebit || t == EntryLineCredit
}

// JournalSourceType records which kind of business event produced an entry
type JournalSourceType string

const (
	JournalSourceSale     JournalSourceType = "SALE"
	JournalSourcePurchase JournalSourceType = "PURCHASE"
	JournalSourceManual   JournalSourceType = "MANUAL"
	JournalSourcePayment  JournalSourceType = "PAYMENT"
)

func (t JournalSourceType) Valid() bool {
	switch t {
	case JournalSourceSale, JournalSourcePurchase, JournalSourceManual, JournalSourcePayment:
		return true
	}
	return false
}

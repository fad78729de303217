package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(account *entity.Account, typ enum.EntryLineType, amount string) JournalLineInput {
	return JournalLineInput{AccountID: account.ID, Type: typ, Amount: dec(amount)}
}

func TestPostJournalEntry_Balanced(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	cash := env.account(t, ctx, "1000", enum.AccountTypeAsset)
	revenue := env.account(t, ctx, "4000", enum.AccountTypeRevenue)

	entry, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{
		Description: "cash sale",
		Lines: []JournalLineInput{
			line(cash, enum.EntryLineDebit, "50.00"),
			line(revenue, enum.EntryLineCredit, "50.00"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enum.JournalSourceManual, entry.SourceType)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, cash.Name, entry.Lines[0].AccountName)

	c, err := env.accounting.GetAccount(ctx, cash.ID)
	require.NoError(t, err)
	assertDecimal(t, "50.00", c.Balance)
	r, err := env.accounting.GetAccount(ctx, revenue.ID)
	require.NoError(t, err)
	assertDecimal(t, "50.00", r.Balance)

	stored, err := env.accounting.GetJournalEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 2)

	env.waitForEvent(t, events.JournalEntryPosted)
}

func TestPostJournalEntry_UnbalancedChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	cash := env.account(t, ctx, "1000", enum.AccountTypeAsset)
	revenue := env.account(t, ctx, "4000", enum.AccountTypeRevenue)

	_, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{
		Lines: []JournalLineInput{
			line(cash, enum.EntryLineDebit, "50.00"),
			line(revenue, enum.EntryLineCredit, "40.00"),
		},
	})
	assertKind(t, err, apperror.KindUnbalanced)

	accounts, err := env.accounting.ListAccounts(ctx)
	require.NoError(t, err)
	for _, a := range accounts {
		assertDecimal(t, "0", a.Balance, a.Number)
	}

	entries, err := env.accounting.ListJournalEntries(ctx, &repository.JournalFilterParams{})
	require.NoError(t, err)
	assert.Zero(t, entries.Pagination.Total)
}

func TestPostJournalEntry_RejectsBadLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	cash := env.account(t, ctx, "1000", enum.AccountTypeAsset)
	revenue := env.account(t, ctx, "4000", enum.AccountTypeRevenue)

	t.Run("no lines", func(t *testing.T) {
		_, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{})
		assertKind(t, err, apperror.KindValidation)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{
			Lines: []JournalLineInput{line(cash, enum.EntryLineDebit, "0"), line(revenue, enum.EntryLineCredit, "0")},
		})
		assertKind(t, err, apperror.KindInvalidAmount)
	})

	t.Run("unknown side", func(t *testing.T) {
		_, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{
			Lines: []JournalLineInput{line(cash, "SIDEWAYS", "1")},
		})
		assertKind(t, err, apperror.KindBadRequest)
	})

	t.Run("unknown account rolls back", func(t *testing.T) {
		_, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{
			Lines: []JournalLineInput{
				line(cash, enum.EntryLineDebit, "5"),
				{AccountID: uuid.New(), Type: enum.EntryLineCredit, Amount: dec("5")},
			},
		})
		assertKind(t, err, apperror.KindNotFound)

		c, err := env.accounting.GetAccount(ctx, cash.ID)
		require.NoError(t, err)
		assertDecimal(t, "0", c.Balance)
	})

	t.Run("foreign account", func(t *testing.T) {
		other := tenantCtx()
		foreign := env.account(t, other, "4000", enum.AccountTypeRevenue)
		_, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{
			Lines: []JournalLineInput{
				line(cash, enum.EntryLineDebit, "5"),
				line(foreign, enum.EntryLineCredit, "5"),
			},
		})
		assertKind(t, err, apperror.KindCrossTenant)
	})
}

func TestAccountingEquationHolds(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	accounts, err := env.accounting.InitializeDefaultAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 9)

	byNumber := make(map[string]*entity.Account, len(accounts))
	for i := range accounts {
		byNumber[accounts[i].Number] = &accounts[i]
	}

	postings := [][]JournalLineInput{
		{line(byNumber["1000"], enum.EntryLineDebit, "1000.00"), line(byNumber["3000"], enum.EntryLineCredit, "1000.00")},
		{line(byNumber["1200"], enum.EntryLineDebit, "400.00"), line(byNumber["2000"], enum.EntryLineCredit, "400.00")},
		{
			line(byNumber["1000"], enum.EntryLineDebit, "107.00"),
			line(byNumber["4000"], enum.EntryLineCredit, "100.00"),
			line(byNumber["2100"], enum.EntryLineCredit, "7.00"),
		},
		{line(byNumber["5000"], enum.EntryLineDebit, "60.00"), line(byNumber["1200"], enum.EntryLineCredit, "60.00")},
		{line(byNumber["2000"], enum.EntryLineDebit, "400.00"), line(byNumber["1000"], enum.EntryLineCredit, "400.00")},
	}
	for _, lines := range postings {
		_, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{Lines: lines})
		require.NoError(t, err)
	}

	accounts, err = env.accounting.ListAccounts(ctx)
	require.NoError(t, err)
	debitNormal, creditNormal := decimal.Zero, decimal.Zero
	for _, a := range accounts {
		if a.IsDebitNormal {
			debitNormal = debitNormal.Add(a.Balance)
		} else {
			creditNormal = creditNormal.Add(a.Balance)
		}
	}
	assert.True(t, debitNormal.Equal(creditNormal), "debit-normal %s, credit-normal %s", debitNormal, creditNormal)

	tb, err := env.accounting.TrialBalance(ctx)
	require.NoError(t, err)
	assert.True(t, tb.IsBalanced)
	assertDecimal(t, "1107.00", tb.TotalDebits)
	assertDecimal(t, "1107.00", tb.TotalCredits)
}

func TestTrialBalance_NegativeBalanceFlipsColumn(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	cash := env.account(t, ctx, "1000", enum.AccountTypeAsset)
	equity := env.account(t, ctx, "3000", enum.AccountTypeEquity)

	// overdrawn cash: credit a debit-normal account
	_, err := env.accounting.PostJournalEntry(ctx, &PostJournalEntryInput{
		Lines: []JournalLineInput{
			line(equity, enum.EntryLineDebit, "25.00"),
			line(cash, enum.EntryLineCredit, "25.00"),
		},
	})
	require.NoError(t, err)

	tb, err := env.accounting.TrialBalance(ctx)
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2)
	assertDecimal(t, "25.00", tb.Rows[0].Credit)
	assertDecimal(t, "-25.00", tb.Rows[0].Net)
	assertDecimal(t, "25.00", tb.Rows[1].Debit)
	assert.True(t, tb.IsBalanced)
}

func TestCreateAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()

	a := env.account(t, ctx, "1000", enum.AccountTypeAsset)
	assert.True(t, a.IsDebitNormal)
	l := env.account(t, ctx, "2000", enum.AccountTypeLiability)
	assert.False(t, l.IsDebitNormal)

	t.Run("duplicate number", func(t *testing.T) {
		_, err := env.accounting.CreateAccount(ctx, &CreateAccountInput{Number: "1000", Name: "Other", Type: enum.AccountTypeAsset})
		assertKind(t, err, apperror.KindConflict)
	})

	t.Run("same number in another tenant", func(t *testing.T) {
		_, err := env.accounting.CreateAccount(tenantCtx(), &CreateAccountInput{Number: "1000", Name: "Cash", Type: enum.AccountTypeAsset})
		assert.NoError(t, err)
	})

	t.Run("singleton sub-type", func(t *testing.T) {
		ar := enum.AccountSubTypeAccountsReceivable
		_, err := env.accounting.CreateAccount(ctx, &CreateAccountInput{Number: "1100", Name: "AR", Type: enum.AccountTypeAsset, SubType: &ar})
		require.NoError(t, err)
		_, err = env.accounting.CreateAccount(ctx, &CreateAccountInput{Number: "1101", Name: "AR 2", Type: enum.AccountTypeAsset, SubType: &ar})
		assertKind(t, err, apperror.KindConflict)
	})

	t.Run("repeatable sub-type", func(t *testing.T) {
		c := enum.AccountSubTypeCash
		_, err := env.accounting.CreateAccount(ctx, &CreateAccountInput{Number: "1001", Name: "Till 1", Type: enum.AccountTypeAsset, SubType: &c})
		require.NoError(t, err)
		_, err = env.accounting.CreateAccount(ctx, &CreateAccountInput{Number: "1002", Name: "Till 2", Type: enum.AccountTypeAsset, SubType: &c})
		assert.NoError(t, err)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := env.accounting.CreateAccount(ctx, &CreateAccountInput{Number: "9000", Name: "X", Type: "CRYPTO"})
		assertKind(t, err, apperror.KindBadRequest)
	})
}

func TestInitializeDefaultAccounts_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()

	first, err := env.accounting.InitializeDefaultAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 9)
	assert.Equal(t, "1000", first[0].Number)
	assert.Equal(t, "5000", first[8].Number)

	second, err := env.accounting.InitializeDefaultAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 9)

	for _, a := range first {
		assert.Equal(t, a.Type.DebitNormal(), a.IsDebitNormal, a.Number)
	}
}

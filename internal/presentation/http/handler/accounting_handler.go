package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salepilot-api/internal/application/service"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
)

// AccountingHandler handles chart of accounts and journal requests
type AccountingHandler struct {
	accountingService *service.AccountingService
}

// NewAccountingHandler creates a new accounting handler
func NewAccountingHandler(accountingService *service.AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: accountingService}
}

// ListAccounts handles listing the chart of accounts
func (h *AccountingHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountingService.ListAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Accounts retrieved successfully", accounts)
}

// CreateAccount handles adding an account
func (h *AccountingHandler) CreateAccount(c *gin.Context) {
	var input service.CreateAccountInput
	if !bindJSON(c, &input) {
		return
	}

	account, err := h.accountingService.CreateAccount(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Account created successfully", account)
}

// GetAccount handles getting a single account
func (h *AccountingHandler) GetAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	account, err := h.accountingService.GetAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Account retrieved successfully", account)
}

// InitializeDefaults seeds the default chart of accounts
func (h *AccountingHandler) InitializeDefaults(c *gin.Context) {
	accounts, err := h.accountingService.InitializeDefaultAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Default accounts initialized", accounts)
}

// ListJournalEntries handles listing journal entries
func (h *AccountingHandler) ListJournalEntries(c *gin.Context) {
	var filter request.JournalFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	accountID, ok := optionalID(c, "account_id", filter.AccountID)
	if !ok {
		return
	}

	params := &repository.JournalFilterParams{
		Pagination: filter.Params(),
		AccountID:  accountID,
		From:       filter.From,
		To:         filter.To,
	}
	if filter.SourceType != "" {
		source := enum.JournalSourceType(strings.ToUpper(filter.SourceType))
		if !source.Valid() {
			response.BadRequest(c, "Invalid source_type")
			return
		}
		params.SourceType = &source
	}

	result, err := h.accountingService.ListJournalEntries(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Journal entries retrieved successfully", result)
}

// PostJournalEntry handles posting a manual journal entry
func (h *AccountingHandler) PostJournalEntry(c *gin.Context) {
	var input service.PostJournalEntryInput
	if !bindJSON(c, &input) {
		return
	}
	if input.SourceType == "" {
		input.SourceType = enum.JournalSourceManual
	}

	entry, err := h.accountingService.PostJournalEntry(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Journal entry posted successfully", entry)
}

// GetJournalEntry handles getting a single journal entry with its lines
func (h *AccountingHandler) GetJournalEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.accountingService.GetJournalEntry(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Journal entry retrieved successfully", entry)
}

// TrialBalance handles the trial balance report
func (h *AccountingHandler) TrialBalance(c *gin.Context) {
	report, err := h.accountingService.TrialBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Trial balance generated", report)
}

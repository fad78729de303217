package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CustomerService handles customer records and the customer balance ledger
// (store credit and accounts receivable).
type CustomerService struct {
	tx           repository.Transactor
	customerRepo repository.CustomerRepository
	log          logrus.FieldLogger
}

// NewCustomerService creates a new customer service
func NewCustomerService(tx repository.Transactor, customerRepo repository.CustomerRepository, log logrus.FieldLogger) *CustomerService {
	return &CustomerService{
		tx:           tx,
		customerRepo: customerRepo,
		log:          log.WithField("module", "customer_service"),
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// CreateCustomer creates a new customer. Emails are unique per tenant.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:    input.Name,
		Email:   normalizeEmail(input.Email),
		Phone:   input.Phone,
		Address: input.Address,
		Notes:   input.Notes,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureEmailFree(ctx, customer.Email, uuid.Nil); err != nil {
			return err
		}
		return s.customerRepo.Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// ListCustomers lists customers with optional balance filters
func (s *CustomerService) ListCustomers(ctx context.Context, params *repository.CustomerFilterParams) (*pagination.PaginatedResult[entity.Customer], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	customers, total, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// UpdateCustomer updates contact details. Balances are only changed through the ledger operations.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var customer *entity.Customer
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.customerRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			customer.Name = *input.Name
		}
		if input.Email != nil {
			email := normalizeEmail(input.Email)
			if err := s.ensureEmailFree(ctx, email, customer.ID); err != nil {
				return err
			}
			customer.Email = email
		}
		if input.Phone != nil {
			customer.Phone = input.Phone
		}
		if input.Address != nil {
			customer.Address = input.Address
		}
		if input.Notes != nil {
			customer.Notes = input.Notes
		}

		return s.customerRepo.UpdateFields(ctx, customer, "name", "email", "phone", "address", "notes")
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer that neither owes money nor holds store credit
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if customer.HasOutstandingBalance() {
			return apperror.NewConflictError("Cannot delete customer with outstanding balance")
		}
		if customer.StoreCredit.IsPositive() {
			return apperror.NewConflictError("Cannot delete customer with remaining store credit")
		}
		return s.customerRepo.Delete(ctx, id)
	})
}

// AddStoreCredit increases the customer's store credit
func (s *CustomerService) AddStoreCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*entity.Customer, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewInvalidAmountError("amount must be greater than zero")
	}

	var customer *entity.Customer
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.customerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		customer.StoreCredit = customer.StoreCredit.Add(amount)
		return s.customerRepo.UpdateFields(ctx, customer, "store_credit")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"customer": customerID,
		"amount":   amount.String(),
	}).Info("store credit added")
	return customer, nil
}

// DeductStoreCredit spends store credit. It never takes the balance below zero.
func (s *CustomerService) DeductStoreCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*entity.Customer, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewInvalidAmountError("amount must be greater than zero")
	}

	var customer *entity.Customer
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.customerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(customer.StoreCredit) {
			return apperror.NewInsufficientCreditError(customer.StoreCredit)
		}
		customer.StoreCredit = customer.StoreCredit.Sub(amount)
		return s.customerRepo.UpdateFields(ctx, customer, "store_credit")
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// AdjustAccountBalance applies a signed change to what the customer owes.
// A negative delta means the customer owes more, a positive delta settles debt.
func (s *CustomerService) AdjustAccountBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (*entity.Customer, error) {
	var customer *entity.Customer
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.customerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		customer.AccountBalance = customer.AccountBalance.Add(delta)
		return s.customerRepo.UpdateFields(ctx, customer, "account_balance")
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, email *string, self uuid.UUID) error {
	if email == nil {
		return nil
	}
	existing, err := s.customerRepo.GetByEmail(ctx, *email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Customer email already exists")
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

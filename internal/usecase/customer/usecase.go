package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"credit-approval/internal/domain/customer"

	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid customer input")

type Usecase struct {
	repo customer.Repository
	log  *slog.Logger
}

func NewUsecase(r customer.Repository, log *slog.Logger) *Usecase {
	return &Usecase{repo: r, log: log}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*CustomerDTO, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" || in.LastName == "" || in.Age <= 0 || !in.MonthlyIncome.IsPositive() {
		return nil, ErrInvalidInput
	}

	c := customer.New(customer.Registration{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Age:           in.Age,
		PhoneNumber:   in.PhoneNumber,
		MonthlySalary: in.MonthlyIncome,
	})
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	u.log.InfoContext(ctx, "customer registered",
		"customer_id", c.ID,
		"approved_limit", c.ApprovedLimit.String(),
	)
	return toDTO(c), nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*CustomerDTO, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrNotFound
		}
		return nil, err
	}
	return toDTO(c), nil
}

func toDTO(c *customer.Customer) *CustomerDTO {
	return &CustomerDTO{
		CustomerID:    c.ID,
		Name:          c.Name(),
		Age:           c.Age,
		MonthlyIncome: c.MonthlySalary,
		ApprovedLimit: c.ApprovedLimit,
		PhoneNumber:   c.PhoneNumber,
	}
}

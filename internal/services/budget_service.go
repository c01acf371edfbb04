package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "kopilka/internal/errors"
	"kopilka/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// PeriodWindow computes the fixed [start, end] date range a budget
// covers, anchored at ref: the Sunday-started week, the calendar month,
// or the calendar year containing ref. End is the last instant of the
// window's final day.
func PeriodWindow(period models.BudgetPeriod, ref time.Time) (time.Time, time.Time) {
	var start, end time.Time
	switch period {
	case models.BudgetPeriodWeekly:
		day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
		start = day.AddDate(0, 0, -int(day.Weekday()))
		end = start.AddDate(0, 0, 6)
	case models.BudgetPeriodYearly:
		start = time.Date(ref.Year(), 1, 1, 0, 0, 0, 0, ref.Location())
		end = time.Date(ref.Year(), 12, 31, 0, 0, 0, 0, ref.Location())
	default: // monthly
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		end = start.AddDate(0, 1, -1)
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, ref.Location())
	return start, end
}

// CreateBudget creates a budget for an expense category. The period
// window is computed once, now, and stored; budgets never roll forward.
func (s *budgetService) CreateBudget(userID, categoryID string, amount int64, period models.BudgetPeriod) (*models.Budget, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ? AND type = ?",
		categoryID, userID, models.CategoryTypeExpense).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "Expense category not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	start, end := PeriodWindow(period, time.Now())

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Period:     period,
		StartDate:  start,
		EndDate:    end,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.loadWithCategory(budget.ID)
}

// GetUserBudgets returns all of the user's budgets, newest first, each
// joined with its live spend figures.
func (s *budgetService) GetUserBudgets(userID string) ([]BudgetStats, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := make([]BudgetStats, 0, len(budgets))
	for i := range budgets {
		st, err := s.stats(userID, &budgets[i])
		if err != nil {
			return nil, err
		}
		stats = append(stats, *st)
	}
	return stats, nil
}

// stats sums the expense transactions in the budget's category inside
// its stored window. Remaining may go negative; percentage is clamped
// to [0, 100] and is zero for a zero-amount budget.
func (s *budgetService) stats(userID string, budget *models.Budget) (*BudgetStats, error) {
	var spent int64
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, budget.CategoryID, models.TransactionTypeExpense, budget.StartDate, budget.EndDate).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var percentage float64
	if budget.Amount > 0 {
		percentage = float64(spent) / float64(budget.Amount) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	return &BudgetStats{
		Budget:     *budget,
		Spent:      spent,
		Remaining:  budget.Amount - spent,
		Percentage: percentage,
	}, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's fields. The stored date window is
// kept as-is even when the period changes.
func (s *budgetService) UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ? AND type = ?",
			*fields.CategoryID, userID, models.CategoryTypeExpense).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "Expense category not found")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["category_id"] = *fields.CategoryID
	}
	if fields.Amount != nil {
		if *fields.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.Period != nil {
		updates["period"] = *fields.Period
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.loadWithCategory(budget.ID)
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) loadWithCategory(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ?", budgetID).First(&budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

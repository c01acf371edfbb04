package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetFlow_CreateTrackDelete(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budget@test.com", "password123")
	accountID := app.createAccount(t, token, 100000)
	categoryID := app.createCategory(t, token, "Food", "expense")

	// Create a monthly budget.
	body := fmt.Sprintf(`{"category_id":%q,"amount":10000,"period":"monthly"}`, categoryID)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	budgetID := budget["id"].(string)

	// Spend in the category.
	txBody := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"type":"expense","amount":2500}`, accountID, categoryID)
	rec = app.request("POST", "/api/v1/transactions", txBody, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}

	// The budget list reflects the spend.
	rec = app.request("GET", "/api/v1/budgets", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list budgets failed: %d %s", rec.Code, rec.Body.String())
	}
	budgets := parseJSON(t, rec)["budgets"].([]interface{})
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}
	first := budgets[0].(map[string]interface{})
	if first["spent"].(float64) != 2500 {
		t.Errorf("expected spent 2500, got %v", first["spent"])
	}
	if first["remaining"].(float64) != 7500 {
		t.Errorf("expected remaining 7500, got %v", first["remaining"])
	}
	if first["percentage"].(float64) != 25 {
		t.Errorf("expected percentage 25, got %v", first["percentage"])
	}

	// Delete the budget.
	rec = app.request("DELETE", "/api/v1/budgets/"+budgetID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete budget failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/budgets/"+budgetID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestBudgetFlow_IncomeCategoryRejected(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budgetincome@test.com", "password123")
	categoryID := app.createCategory(t, token, "Salary", "income")

	body := fmt.Sprintf(`{"category_id":%q,"amount":10000,"period":"monthly"}`, categoryID)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for income category, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_InvalidPeriod(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budgetperiod@test.com", "password123")
	categoryID := app.createCategory(t, token, "Food", "expense")

	body := fmt.Sprintf(`{"category_id":%q,"amount":10000,"period":"daily"}`, categoryID)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid period, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_UpdateAmount(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budgetupd@test.com", "password123")
	categoryID := app.createCategory(t, token, "Food", "expense")

	body := fmt.Sprintf(`{"category_id":%q,"amount":10000,"period":"monthly"}`, categoryID)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	created := parseJSON(t, rec)["budget"].(map[string]interface{})
	budgetID := created["id"].(string)

	rec = app.request("PUT", "/api/v1/budgets/"+budgetID, `{"amount":20000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update budget failed: %d %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)["budget"].(map[string]interface{})
	if updated["amount"].(float64) != 20000 {
		t.Errorf("expected amount 20000, got %v", updated["amount"])
	}
	// The tracked window is fixed at creation.
	if updated["start_date"] != created["start_date"] || updated["end_date"] != created["end_date"] {
		t.Error("expected the stored window to be unchanged")
	}
}

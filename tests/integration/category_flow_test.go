package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCategoryFlow_TreeAndCycle(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "catflow@test.com", "password123")

	rootID := app.createCategory(t, token, "Food", "expense")

	// Create a child under root.
	body := fmt.Sprintf(`{"name":"Restaurants","type":"expense","parent_id":%q}`, rootID)
	rec := app.request("POST", "/api/v1/categories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create child failed: %d %s", rec.Code, rec.Body.String())
	}
	childID := parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)

	// Reparenting root under its own child must be rejected.
	rec = app.request("PUT", "/api/v1/categories/"+rootID, fmt.Sprintf(`{"parent_id":%q}`, childID), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for cycle, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "CATEGORY_CYCLE" {
		t.Errorf("expected CATEGORY_CYCLE, got %v", errObj["code"])
	}

	// Detaching the child with an empty parent_id works.
	rec = app.request("PUT", "/api/v1/categories/"+childID, `{"parent_id":""}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("detach failed: %d %s", rec.Code, rec.Body.String())
	}
	detached := parseJSON(t, rec)["category"].(map[string]interface{})
	if _, ok := detached["parent_id"]; ok {
		t.Errorf("expected parent_id cleared, got %v", detached["parent_id"])
	}
}

func TestCategoryFlow_DeleteDetachesTransactions(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "catdel@test.com", "password123")
	accountID := app.createAccount(t, token, 10000)
	categoryID := app.createCategory(t, token, "Food", "expense")

	body := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"type":"expense","amount":500}`, accountID, categoryID)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	txID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)

	rec = app.request("DELETE", "/api/v1/categories/"+categoryID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete category failed: %d %s", rec.Code, rec.Body.String())
	}

	// The transaction survives, uncategorized, and the balance is untouched.
	rec = app.request("GET", "/api/v1/transactions/"+txID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if _, ok := tx["category_id"]; ok {
		t.Errorf("expected category_id cleared, got %v", tx["category_id"])
	}
	if got := app.accountBalance(t, token, accountID); got != 9500 {
		t.Errorf("expected balance 9500, got %d", got)
	}
}

func TestCategoryFlow_TypeFilter(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "catfilter@test.com", "password123")
	app.createCategory(t, token, "Food", "expense")
	app.createCategory(t, token, "Transport", "expense")
	app.createCategory(t, token, "Salary", "income")

	rec := app.request("GET", "/api/v1/categories?type=expense", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	list := result["categories"].([]interface{})
	if len(list) != 2 {
		t.Errorf("expected 2 expense categories, got %d", len(list))
	}

	rec = app.request("GET", "/api/v1/categories?type=bogus", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bogus type filter, got %d", rec.Code)
	}
}

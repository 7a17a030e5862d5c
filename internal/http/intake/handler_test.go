package intake_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/leadserver/internal/customer"
	"winsbygroup.com/leadserver/internal/http/intake"
	"winsbygroup.com/leadserver/internal/testutil"
)

func postJSON(t *testing.T, handler *intake.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCustomer(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestCreateCustomerNaturalKey(t *testing.T) {
	db := testutil.NewTestDB(t)
	handler := intake.NewHandler(customer.NewService(db, customer.IdentityNatural))

	t.Run("creates customer and returns 201", func(t *testing.T) {
		rec := postJSON(t, handler, `{
			"identity": "12345678901",
			"name": "Ana Souza",
			"email": "ana@example.com",
			"phone": "11988887777"
		}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if resp["identity"] != "12345678901" {
			t.Errorf("expected identity %q, got %q", "12345678901", resp["identity"])
		}
		if resp["name"] != "Ana Souza" {
			t.Errorf("expected name %q, got %q", "Ana Souza", resp["name"])
		}
		if resp["created_at"] == "" {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("duplicate identity returns 409", func(t *testing.T) {
		rec := postJSON(t, handler, `{
			"identity": "12345678901",
			"name": "Ana Again",
			"email": "ana2@example.com",
			"phone": "11988886666"
		}`)

		if rec.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
		}
	})

	t.Run("validation failure returns 422", func(t *testing.T) {
		rec := postJSON(t, handler, `{
			"identity": "98765432109",
			"name": "Al",
			"email": "al@example.com",
			"phone": "11988885555"
		}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if resp["error"] == "" {
			t.Error("expected an error message")
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		rec := postJSON(t, handler, `{not json`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestCreateCustomerSurrogate(t *testing.T) {
	db := testutil.NewTestDB(t)
	handler := intake.NewHandler(customer.NewService(db, customer.IdentitySurrogate))

	t.Run("mints identities in insert order", func(t *testing.T) {
		for i, want := range []string{"1", "2"} {
			rec := postJSON(t, handler, `{
				"name": "Customer Number `+want+`",
				"email": "c`+want+`@example.com",
				"phone": "1198888000`+want+`"
			}`)
			if rec.Code != http.StatusCreated {
				t.Fatalf("insert %d: expected status %d, got %d: %s", i, http.StatusCreated, rec.Code, rec.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp["identity"] != want {
				t.Errorf("insert %d: expected identity %q, got %q", i, want, resp["identity"])
			}
		}
	})

	t.Run("supplied identity returns 422", func(t *testing.T) {
		rec := postJSON(t, handler, `{
			"identity": "42",
			"name": "Self Keyed",
			"email": "self@example.com",
			"phone": "11988880009"
		}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
		}
	})
}

func TestIntakeForm(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db, customer.IdentitySurrogate)
	handler := intake.NewHandler(svc)

	postForm := func(t *testing.T, values url.Values) *httptest.ResponseRecorder {
		t.Helper()
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/intake", strings.NewReader(values.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := handler.IntakeForm(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec
	}

	t.Run("valid submission redirects to the site", func(t *testing.T) {
		rec := postForm(t, url.Values{
			"name":  {"Bruno Lima"},
			"email": {"bruno@example.com"},
			"phone": {"21999990000"},
		})

		if rec.Code != http.StatusFound {
			t.Fatalf("expected status %d, got %d", http.StatusFound, rec.Code)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/site/" {
			t.Errorf("expected redirect to /site/, got %q", loc)
		}

		count, err := svc.Count(context.Background())
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 customer, got %d", count)
		}
	})

	t.Run("invalid submission returns 422 without saving", func(t *testing.T) {
		rec := postForm(t, url.Values{
			"name":  {"X"},
			"email": {"not-an-email"},
			"phone": {"123"},
		})

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
		}

		count, err := svc.Count(context.Background())
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected count to stay at 1, got %d", count)
		}
	})
}

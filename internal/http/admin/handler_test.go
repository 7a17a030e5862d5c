package admin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/leadserver/internal/backup"
	"winsbygroup.com/leadserver/internal/bling"
	"winsbygroup.com/leadserver/internal/customer"
	"winsbygroup.com/leadserver/internal/http/admin"
	"winsbygroup.com/leadserver/internal/metrics"
	"winsbygroup.com/leadserver/internal/testutil"
)

func newHandler(t *testing.T, db *sqlx.DB, feed *bling.Client) *admin.Handler {
	t.Helper()
	customerSvc := customer.NewService(db, customer.IdentityNatural)
	metricsSvc := metrics.NewService(customerSvc)
	backupSvc := backup.NewService(db, "unused.db")
	if feed == nil {
		feed = bling.NewClient("", "")
	}
	return admin.NewHandler(customerSvc, metricsSvc, backupSvc, feed)
}

func seed(t *testing.T, db *sqlx.DB) {
	t.Helper()
	rows := []struct {
		identity, name, email, phone, createdAt string
	}{
		{"11111111111", "Ana Souza", "ana@example.com", "11988880001", "2025-11-05"},
		{"22222222222", "Bruno Lima", "bruno@example.com", "21988880002", "2025-11-20"},
		{"33333333333", "Carla Nunes", "carla@other.org", "31988880003", "2025-12-02"},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO customer (identity, name, email, phone, created_at)
			VALUES (?, ?, ?, ?, ?)`, r.identity, r.name, r.email, r.phone, r.createdAt)
		if err != nil {
			t.Fatalf("seed customer %s: %v", r.identity, err)
		}
	}
}

func doGet(t *testing.T, target string, fn func(echo.Context) error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := fn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestGetCustomers(t *testing.T) {
	db := testutil.NewTestDB(t)
	seed(t, db)
	handler := newHandler(t, db, nil)

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) []map[string]string {
		t.Helper()
		var out []map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		return out
	}

	t.Run("no filters returns everything in store order", func(t *testing.T) {
		rec := doGet(t, "/api/admin/customers", handler.GetCustomers)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		out := decode(t, rec)
		if len(out) != 3 {
			t.Fatalf("expected 3 customers, got %d", len(out))
		}
		if out[0]["identity"] != "11111111111" || out[2]["identity"] != "33333333333" {
			t.Errorf("unexpected order: %v", out)
		}
	})

	t.Run("search filter is case-insensitive", func(t *testing.T) {
		rec := doGet(t, "/api/admin/customers?search=BRUNO", handler.GetCustomers)

		out := decode(t, rec)
		if len(out) != 1 || out[0]["name"] != "Bruno Lima" {
			t.Errorf("expected only Bruno Lima, got %v", out)
		}
	})

	t.Run("date range is inclusive and combines with search", func(t *testing.T) {
		rec := doGet(t, "/api/admin/customers?search=example.com&start=2025-11-20&end=2025-12-02", handler.GetCustomers)

		out := decode(t, rec)
		if len(out) != 1 || out[0]["identity"] != "22222222222" {
			t.Errorf("expected only Bruno Lima, got %v", out)
		}
	})

	t.Run("malformed date returns 400", func(t *testing.T) {
		rec := doGet(t, "/api/admin/customers?start=20-11-2025", handler.GetCustomers)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestExportCustomers(t *testing.T) {
	db := testutil.NewTestDB(t)
	seed(t, db)
	handler := newHandler(t, db, nil)

	rec := doGet(t, "/api/admin/customers/export", handler.ExportCustomers)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/csv" {
		t.Errorf("expected content type text/csv, got %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, `filename="customers.csv"`) {
		t.Errorf("unexpected content disposition %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if strings.TrimSpace(lines[0]) != "identity,name,email,phone,created_at" {
		t.Errorf("unexpected header row %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "11111111111,") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestGetMetrics(t *testing.T) {
	db := testutil.NewTestDB(t)
	seed(t, db)
	handler := newHandler(t, db, nil)

	rec := doGet(t, "/api/admin/metrics", handler.GetMetrics)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if out["unique_customers"] != float64(3) {
		t.Errorf("expected 3 unique customers, got %v", out["unique_customers"])
	}
	if out["repeat_customers"] != float64(2) {
		t.Errorf("expected 2 repeat customers, got %v", out["repeat_customers"])
	}
	if out["repeat_rate"] != "66.67%" {
		t.Errorf("expected repeat rate 66.67%%, got %v", out["repeat_rate"])
	}
}

func TestGetMonthlyMetrics(t *testing.T) {
	db := testutil.NewTestDB(t)
	seed(t, db)
	handler := newHandler(t, db, nil)

	rec := doGet(t, "/api/admin/metrics/monthly", handler.GetMonthlyMetrics)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var out map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if out["2025-11"] != 2 || out["2025-12"] != 1 {
		t.Errorf("unexpected monthly series %v", out)
	}
	if len(out) != 2 {
		t.Errorf("expected sparse series with 2 buckets, got %v", out)
	}
}

func TestGetLeads(t *testing.T) {
	db := testutil.NewTestDB(t)

	t.Run("reports feed leads when upstream is healthy", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"retorno":{"clientes":[
				{"cliente":{"nome":"Lead One","email":"one@example.com","fone":"11911110001"}},
				{"cliente":{"nome":"Lead Two","email":"two@example.com","fone":"11911110002"}}
			]}}`))
		}))
		defer upstream.Close()

		handler := newHandler(t, db, bling.NewClient(upstream.URL, "test-key"))
		rec := doGet(t, "/api/admin/leads", handler.GetLeads)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var out map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if out["total"] != float64(2) {
			t.Errorf("expected 2 leads, got %v", out["total"])
		}
	})

	t.Run("dead feed still answers 200 with zero leads", func(t *testing.T) {
		handler := newHandler(t, db, bling.NewClient("http://127.0.0.1:1", "test-key"))
		rec := doGet(t, "/api/admin/leads", handler.GetLeads)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var out map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if out["total"] != float64(0) {
			t.Errorf("expected 0 leads, got %v", out["total"])
		}
	})
}

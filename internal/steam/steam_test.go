package steam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/H4M5TER/steaminfo/internal/config"
)

const suggestFixture = `
<a class="match" data-ds-appid="570" href="https://store.steampowered.com/app/570">
  <div class="match_name">Dota 2</div>
  <div class="match_price">Free To Play</div>
</a>
<a class="match" data-ds-appid="205790" href="https://store.steampowered.com/app/205790">
  <div class="match_name">Dota 2 Test</div>
</a>
<a class="match" data-ds-appid="583950" href="https://store.steampowered.com/app/583950">
  <div class="match_name">Artifact</div>
</a>
`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.SteamConfig{
		StoreURL: srv.URL,
		Region:   "US",
		Locale:   "english",
	})
}

func TestSearchParsesCandidatesInOrder(t *testing.T) {
	var gotTerm string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/suggest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotTerm = r.URL.Query().Get("term")
		if r.URL.Query().Get("f") != "games" {
			t.Errorf("expected f=games, got %q", r.URL.Query().Get("f"))
		}
		if r.URL.Query().Get("cc") != "US" {
			t.Errorf("expected cc=US, got %q", r.URL.Query().Get("cc"))
		}
		w.Write([]byte(suggestFixture))
	}))

	candidates, err := client.Search(context.Background(), "dota")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotTerm != "dota" {
		t.Errorf("expected term dota, got %q", gotTerm)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	want := []Candidate{
		{Name: "Dota 2", AppID: "570"},
		{Name: "Dota 2 Test", AppID: "205790"},
		{Name: "Artifact", AppID: "583950"},
	}
	for i, c := range candidates {
		if c != want[i] {
			t.Errorf("candidate %d: got %+v, want %+v", i, c, want[i])
		}
	}
}

func TestSearchNoMatches(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\n"))
	}))

	candidates, err := client.Search(context.Background(), "zzzzzz")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}

func TestSearchSkipsEntriesWithoutAppID(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`
<a class="match"><div class="match_name">No ID</div></a>
<a class="match" data-ds-appid="440"><div class="match_name">Team Fortress 2</div></a>
`))
	}))

	candidates, err := client.Search(context.Background(), "tf2")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(candidates) != 1 || candidates[0].AppID != "440" {
		t.Errorf("expected only the entry with an app id, got %+v", candidates)
	}
}

func TestSearchServerError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if _, err := client.Search(context.Background(), "dota"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestDetailsSuccess(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/appdetails" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("appids") != "570" {
			t.Errorf("expected appids=570, got %q", r.URL.Query().Get("appids"))
		}
		w.Write([]byte(`{"570":{"success":true,"data":{
			"name":"Dota 2",
			"short_description":"Every day, millions of players...",
			"is_free":true,
			"release_date":{"coming_soon":false,"date":"9 Jul, 2013"},
			"developers":["Valve"],
			"publishers":["Valve"],
			"header_image":"https://cdn.example/header.jpg"
		}}}`))
	}))

	details, err := client.Details(context.Background(), "570")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Name != "Dota 2" || !details.IsFree {
		t.Errorf("unexpected details %+v", details)
	}
	if details.ReleaseDateText() != "9 Jul, 2013" {
		t.Errorf("unexpected release date %q", details.ReleaseDateText())
	}
	if details.HasDiscount() {
		t.Error("free title should not report a discount")
	}
}

func TestDetailsNotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"99999":{"success":false}}`))
	}))

	_, err := client.Details(context.Background(), "99999")
	if !errors.Is(err, ErrAppNotFound) {
		t.Errorf("expected ErrAppNotFound, got %v", err)
	}
}

func TestDetailsMissingEnvelope(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	_, err := client.Details(context.Background(), "570")
	if !errors.Is(err, ErrAppNotFound) {
		t.Errorf("expected ErrAppNotFound, got %v", err)
	}
}

func TestHasDiscount(t *testing.T) {
	d := AppDetails{Price: &PriceOverview{
		FinalFormatted:   "$14.99",
		InitialFormatted: "$29.99",
		DiscountPercent:  50,
	}}
	if !d.HasDiscount() {
		t.Error("expected discount")
	}
	d.Price.DiscountPercent = 0
	if d.HasDiscount() {
		t.Error("zero discount percent should not count as discounted")
	}
}

func TestReviewsSuccess(t *testing.T) {
	var gotPurchaseType string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appreviews/570" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotPurchaseType = r.URL.Query().Get("purchase_type")
		w.Write([]byte(`{"success":1,"query_summary":{"total_positive":90,"total_reviews":100}}`))
	}))

	summary, err := client.Reviews(context.Background(), "570", PurchaseType(true))
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}
	if gotPurchaseType != "all" {
		t.Errorf("free title should use purchase_type=all, got %q", gotPurchaseType)
	}
	if summary.PositivePercent() != 90 {
		t.Errorf("expected 90%% positive, got %d", summary.PositivePercent())
	}
}

func TestReviewsFailure(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":0}`))
	}))

	if _, err := client.Reviews(context.Background(), "570", "steam"); err == nil {
		t.Error("expected error for success=0")
	}
}

func TestPurchaseType(t *testing.T) {
	if PurchaseType(true) != "all" {
		t.Errorf("free: got %q", PurchaseType(true))
	}
	if PurchaseType(false) != "steam" {
		t.Errorf("paid: got %q", PurchaseType(false))
	}
}

func TestPositivePercentRounding(t *testing.T) {
	cases := []struct {
		positive, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{999, 1000, 100},
	}
	for _, c := range cases {
		s := ReviewSummary{TotalPositive: c.positive, TotalReviews: c.total}
		if got := s.PositivePercent(); got != c.want {
			t.Errorf("%d/%d: got %d, want %d", c.positive, c.total, got, c.want)
		}
	}
}

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/drazba/internal/db"
	"github.com/erazemk/drazba/internal/model"
	"github.com/erazemk/drazba/internal/store"
)

const (
	testSecret        = "test-secret"
	testAdminPassword = "opensesame"
)

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing admin password: %v", err)
	}

	server := httptest.NewServer(NewRouter(database, testSecret, hash))
	t.Cleanup(server.Close)
	return server, database
}

// newClient returns an HTTP client with its own cookie jar, i.e. one
// browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func login(t *testing.T, client *http.Client, server *httptest.Server, name, email string) {
	t.Helper()
	resp := postJSON(t, client, server.URL+"/login", map[string]string{"name": name, "email": email})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
}

func adminLogin(t *testing.T, client *http.Client, server *httptest.Server) {
	t.Helper()
	resp := postJSON(t, client, server.URL+"/admin/login", map[string]string{"password": testAdminPassword})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login failed: %d", resp.StatusCode)
	}
}

func seedItem(t *testing.T, database *sql.DB, title string, minimumBid int64) *model.Item {
	t.Helper()
	item, err := store.CreateItem(context.Background(), database, store.ItemParams{
		Title:      title,
		MinimumBid: minimumBid,
	})
	if err != nil {
		t.Fatalf("seeding item: %v", err)
	}
	return item
}

func TestLoginSetsSessionCookie(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(t)

	resp := postJSON(t, client, server.URL+"/login", map[string]string{"name": "Alice", "email": "a@x.com"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var account model.Account
	json.NewDecoder(resp.Body).Decode(&account)
	if account.ID == 0 || account.Name != "Alice" {
		t.Errorf("unexpected account: %+v", account)
	}

	found := false
	for _, c := range resp.Cookies() {
		if c.Name == "session" && c.Value != "" && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("no httponly session cookie set")
	}
}

func TestLoginValidation(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(t)

	resp := postJSON(t, client, server.URL+"/login", map[string]string{"name": "", "email": ""})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty login, got %d", resp.StatusCode)
	}
}

func TestItemsArePublic(t *testing.T) {
	server, database := setupTestServer(t)
	item := seedItem(t, database, "Painting", 100)

	resp, err := http.Get(server.URL + "/items")
	if err != nil {
		t.Fatalf("GET /items: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	if len(items) != 1 || items[0].Title != "Painting" {
		t.Errorf("unexpected items: %+v", items)
	}

	resp, _ = http.Get(server.URL + "/item/" + itoa(item.ID))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for single item, got %d", resp.StatusCode)
	}

	resp, _ = http.Get(server.URL + "/item/9999")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", resp.StatusCode)
	}
}

func TestBidRequiresSession(t *testing.T) {
	server, database := setupTestServer(t)
	item := seedItem(t, database, "Vase", 10)

	resp := postJSON(t, newClient(t), server.URL+"/bid", map[string]int64{"item_id": item.ID, "amount": 10})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestBidFlow(t *testing.T) {
	server, database := setupTestServer(t)
	item := seedItem(t, database, "Sculpture", 100)

	client := newClient(t)
	login(t, client, server, "Alice", "a@x.com")

	// Accepted at the minimum.
	resp := postJSON(t, client, server.URL+"/bid", map[string]int64{"item_id": item.ID, "amount": 100})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for accepted bid, got %d", resp.StatusCode)
	}
	var bid model.Bid
	json.NewDecoder(resp.Body).Decode(&bid)
	resp.Body.Close()
	if bid.UUID == "" || bid.Amount != 100 {
		t.Errorf("unexpected bid: %+v", bid)
	}

	// Same amount again: rejected with the reason in the body.
	resp = postJSON(t, client, server.URL+"/bid", map[string]int64{"item_id": item.ID, "amount": 100})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for equal bid, got %d", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if body["error"] == "" {
		t.Error("rejection has no reason")
	}

	// Unknown item.
	resp = postJSON(t, client, server.URL+"/bid", map[string]int64{"item_id": 9999, "amount": 100})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", resp.StatusCode)
	}
}

func TestBidStatusObscuresExistence(t *testing.T) {
	server, database := setupTestServer(t)
	item := seedItem(t, database, "Print", 10)

	// No session: 404, not 401.
	resp, _ := http.Get(server.URL + "/bid/" + itoa(item.ID))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 without session, got %d", resp.StatusCode)
	}

	client := newClient(t)
	login(t, client, server, "Alice", "a@x.com")

	postJSON(t, client, server.URL+"/bid", map[string]int64{"item_id": item.ID, "amount": 10}).Body.Close()

	resp, err := client.Get(server.URL + "/bid/" + itoa(item.ID))
	if err != nil {
		t.Fatalf("GET /bid/{item_id}: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", resp.StatusCode)
	}

	var status model.BidStatus
	json.NewDecoder(resp.Body).Decode(&status)
	if status.Bid == nil || status.Bid.Amount != 10 || !status.IsHighest {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestDeleteBidOwnership(t *testing.T) {
	server, database := setupTestServer(t)
	item := seedItem(t, database, "Drawing", 10)

	alice := newClient(t)
	login(t, alice, server, "Alice", "a@x.com")

	resp := postJSON(t, alice, server.URL+"/bid", map[string]int64{"item_id": item.ID, "amount": 10})
	var bid model.Bid
	json.NewDecoder(resp.Body).Decode(&bid)
	resp.Body.Close()

	bob := newClient(t)
	login(t, bob, server, "Bob", "b@x.com")

	// Bob cannot delete Alice's bid, even with a valid session.
	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/bid/"+bid.UUID, nil)
	resp, _ = bob.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for foreign bid, got %d", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodDelete, server.URL+"/bid/"+bid.UUID, nil)
	resp, _ = alice.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 deleting own bid, got %d", resp.StatusCode)
	}
}

func TestDonationFlow(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(t)
	login(t, client, server, "Alice", "a@x.com")

	// Nothing donated yet.
	resp, _ := client.Get(server.URL + "/donations")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 before donating, got %d", resp.StatusCode)
	}

	postJSON(t, client, server.URL+"/donate", map[string]int64{"amount": 50}).Body.Close()
	postJSON(t, client, server.URL+"/donate", map[string]int64{"amount": 75}).Body.Close()

	resp, err := client.Get(server.URL + "/donations")
	if err != nil {
		t.Fatalf("GET /donations: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var donation model.Donation
	json.NewDecoder(resp.Body).Decode(&donation)
	if donation.Amount != 75 {
		t.Errorf("expected overwritten amount 75, got %d", donation.Amount)
	}

	resp = postJSON(t, client, server.URL+"/donate", map[string]int64{"amount": -5})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for negative amount, got %d", resp.StatusCode)
	}
}

func TestAdminLogin(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(t)

	resp := postJSON(t, client, server.URL+"/admin/login", map[string]string{"password": "wrong"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", resp.StatusCode)
	}

	adminLogin(t, client, server)
}

func TestAdminLoginDisabled(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testSecret, nil))
	t.Cleanup(server.Close)

	resp := postJSON(t, newClient(t), server.URL+"/admin/login", map[string]string{"password": testAdminPassword})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 when admin login disabled, got %d", resp.StatusCode)
	}
}

func TestAdminBidsOverview(t *testing.T) {
	server, database := setupTestServer(t)
	item := seedItem(t, database, "Mosaic", 10)

	// A bidder session must not open the admin surface.
	bidder := newClient(t)
	login(t, bidder, server, "Alice", "a@x.com")
	postJSON(t, bidder, server.URL+"/bid", map[string]int64{"item_id": item.ID, "amount": 10}).Body.Close()

	resp, _ := bidder.Get(server.URL + "/admin/bids")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bidder on admin endpoint, got %d", resp.StatusCode)
	}

	admin := newClient(t)
	adminLogin(t, admin, server)

	resp, err := admin.Get(server.URL + "/admin/bids")
	if err != nil {
		t.Fatalf("GET /admin/bids: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var groups []struct {
		ItemTitle string `json:"item_title"`
		Bids      []struct {
			BidderName string `json:"bidder_name"`
			Amount     int64  `json:"amount"`
		} `json:"bids"`
	}
	json.NewDecoder(resp.Body).Decode(&groups)
	if len(groups) != 1 || groups[0].ItemTitle != "Mosaic" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if len(groups[0].Bids) != 1 || groups[0].Bids[0].BidderName != "Alice" {
		t.Errorf("unexpected bids: %+v", groups[0].Bids)
	}
}

func TestAdminItemLifecycle(t *testing.T) {
	server, _ := setupTestServer(t)

	admin := newClient(t)
	adminLogin(t, admin, server)

	resp := postJSON(t, admin, server.URL+"/admin/items", map[string]any{
		"title":       "New Piece",
		"minimum_bid": 30,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var item model.Item
	json.NewDecoder(resp.Body).Decode(&item)
	resp.Body.Close()

	resp = postJSON(t, admin, server.URL+"/admin/items/"+itoa(item.ID)+"/close", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 closing item, got %d", resp.StatusCode)
	}

	// Closed item rejects bids.
	bidder := newClient(t)
	login(t, bidder, server, "Alice", "a@x.com")
	resp = postJSON(t, bidder, server.URL+"/bid", map[string]int64{"item_id": item.ID, "amount": 100})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 bidding on closed item, got %d", resp.StatusCode)
	}
}

func TestAdminItemImage(t *testing.T) {
	server, database := setupTestServer(t)
	item := seedItem(t, database, "Photo Piece", 10)

	admin := newClient(t)
	adminLogin(t, admin, server)

	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for x := 0; x < 50; x++ {
		for y := 0; y < 50; y++ {
			img.Set(x, y, color.RGBA{200, 30, 30, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/admin/items/"+itoa(item.ID)+"/image", &buf)
	resp, err := admin.Do(req)
	if err != nil {
		t.Fatalf("PUT image: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 uploading image, got %d", resp.StatusCode)
	}

	// Served publicly as JPEG.
	resp, err = http.Get(server.URL + "/item/" + itoa(item.ID) + "/image")
	if err != nil {
		t.Fatalf("GET image: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 fetching image, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", ct)
	}
}

func TestHealthcheck(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/healthcheck")
	if err != nil {
		t.Fatalf("GET /healthcheck: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

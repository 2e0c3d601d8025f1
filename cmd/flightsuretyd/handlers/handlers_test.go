package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/flightsurety/smart-contract/internal/app"
	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/metrics"
	"github.com/flightsurety/smart-contract/internal/platform/tests"
	"github.com/flightsurety/smart-contract/pkg/inspector"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var test *tests.Test

// TestMain is the entry point for testing.
func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	gin.SetMode(gin.TestMode)

	test = tests.New()
	if test == nil {
		return 1
	}
	defer test.TearDown()

	return m.Run()
}

type testResponse struct {
	Action  string          `json:"action"`
	TraceID string          `json:"trace_id"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
}

type server struct {
	router  *gin.Engine
	ledger  *ledger.Ledger
	metrics *metrics.Metrics
}

func newServer(t *testing.T) *server {
	test.Reset()
	ctx := test.Context

	l, err := ledger.Load(ctx, test.MasterDB, test.OwnerKey.Address(),
		test.NodeConfig.FundingThreshold)
	if err != nil {
		t.Fatalf("\t%s\tFailed to load ledger : %v", tests.Failed, err)
	}

	a, err := app.New(ctx, test.MasterDB, l, test.AppKey.Address(), &test.NodeConfig)
	if err != nil {
		t.Fatalf("\t%s\tFailed to create app : %v", tests.Failed, err)
	}

	m := metrics.NewMetrics("flightsurety")
	api := API(l, a, &test.NodeConfig, m)

	return &server{
		router:  NewRouter(api, test.MasterDB, &test.NodeConfig, m),
		ledger:  l,
		metrics: m,
	}
}

// send signs and posts a request and returns the status and decoded response.
func (s *server) send(t *testing.T, key *keys.Key, action string,
	payload interface{}) (int, testResponse) {

	req, err := inspector.NewRequest(test.Context, key, action, payload, time.Now())
	if err != nil {
		t.Fatalf("\t%s\tFailed to create request : %v", tests.Failed, err)
	}

	return s.post(t, req)
}

func (s *server) post(t *testing.T, req *inspector.Request) (int, testResponse) {
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("\t%s\tFailed to marshal request : %v", tests.Failed, err)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/requests", bytes.NewReader(b)))

	var response testResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("\t%s\tFailed to unmarshal response %q : %v", tests.Failed, w.Body.String(), err)
	}

	if len(response.TraceID) == 0 {
		t.Fatalf("\t%s\tResponse missing trace id", tests.Failed)
	}

	return w.Code, response
}

func TestRequests(t *testing.T) {
	defer tests.Recover(t)

	s := newServer(t)
	owner := test.OwnerKey
	appAddress := test.AppKey.Address()

	stranger, err := tests.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tFailed to generate key : %v", tests.Failed, err)
	}

	airlineKey, err := tests.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tFailed to generate key : %v", tests.Failed, err)
	}

	// Non owners may not authorize or pause.
	status, response := s.send(t, stranger, ActionAuthorizeCaller, AddressRequest{Address: appAddress})
	if status != http.StatusForbidden {
		t.Fatalf("\t%s\tStranger authorize : got %d, want %d : %s", tests.Failed, status,
			http.StatusForbidden, response.Error)
	}

	status, _ = s.send(t, stranger, ActionSetOperatingStatus, StatusRequest{Operational: false})
	if status != http.StatusForbidden {
		t.Fatalf("\t%s\tStranger pause : got %d, want %d", tests.Failed, status, http.StatusForbidden)
	}
	t.Logf("\t%s\tNon owner requests denied", tests.Success)

	// App is not authorized yet.
	status, _ = s.send(t, owner, ActionAppRegisterAirline, RegisterRequest{
		Address: airlineKey.Address(),
		Name:    "Early",
	})
	if status != http.StatusForbidden {
		t.Fatalf("\t%s\tUnauthorized app register : got %d, want %d", tests.Failed, status,
			http.StatusForbidden)
	}

	status, response = s.send(t, owner, ActionAuthorizeCaller, AddressRequest{Address: appAddress})
	if status != http.StatusOK {
		t.Fatalf("\t%s\tOwner authorize : got %d : %s", tests.Failed, status, response.Error)
	}
	if response.Action != ActionAuthorizeCaller {
		t.Fatalf("\t%s\tWrong response action : %s", tests.Failed, response.Action)
	}

	var authorized BoolResult
	status, response = s.send(t, stranger, ActionIsAuthorized, AddressRequest{Address: appAddress})
	if status != http.StatusOK {
		t.Fatalf("\t%s\tAuthorized query : got %d : %s", tests.Failed, status, response.Error)
	}
	if err := json.Unmarshal(response.Result, &authorized); err != nil || !authorized.Value {
		t.Fatalf("\t%s\tApp not authorized : %s", tests.Failed, string(response.Result))
	}
	t.Logf("\t%s\tOwner authorized app", tests.Success)

	// Register through the app and fund.
	status, response = s.send(t, owner, ActionAppRegisterAirline, RegisterRequest{
		Address: airlineKey.Address(),
		Name:    "Second",
	})
	if status != http.StatusOK {
		t.Fatalf("\t%s\tApp register : got %d : %s", tests.Failed, status, response.Error)
	}

	var registration app.Registration
	if err := json.Unmarshal(response.Result, &registration); err != nil || !registration.Registered {
		t.Fatalf("\t%s\tAirline not registered : %s", tests.Failed, string(response.Result))
	}

	var count CountResult
	status, response = s.send(t, stranger, ActionGetAirlineCount, nil)
	if status != http.StatusOK {
		t.Fatalf("\t%s\tCount query : got %d", tests.Failed, status)
	}
	if err := json.Unmarshal(response.Result, &count); err != nil || count.Count != 2 {
		t.Fatalf("\t%s\tAirline count : %s", tests.Failed, string(response.Result))
	}
	t.Logf("\t%s\tAirline registered through app", tests.Success)

	status, response = s.send(t, airlineKey, ActionAppFund, FundRequest{Amount: decimal.NewFromInt(10)})
	if status != http.StatusOK {
		t.Fatalf("\t%s\tApp fund : got %d : %s", tests.Failed, status, response.Error)
	}

	var balance BalanceResult
	if err := json.Unmarshal(response.Result, &balance); err != nil {
		t.Fatalf("\t%s\tFailed to unmarshal balance : %v", tests.Failed, err)
	}
	if !balance.Balance.Equal(decimal.NewFromInt(10)) || !balance.Address.Equal(airlineKey.Address()) {
		t.Fatalf("\t%s\tWrong balance : %s", tests.Failed, string(response.Result))
	}
	if !s.ledger.IsAirlineParticipant(airlineKey.Address()) {
		t.Fatalf("\t%s\tFunded airline is not a participant", tests.Failed)
	}
	t.Logf("\t%s\tAirline funded itself", tests.Success)

	// Invalid input
	status, _ = s.send(t, airlineKey, ActionAppFund, FundRequest{Amount: decimal.NewFromInt(-1)})
	if status != http.StatusBadRequest {
		t.Fatalf("\t%s\tNegative amount : got %d, want %d", tests.Failed, status, http.StatusBadRequest)
	}

	status, _ = s.send(t, owner, "unknownAction", nil)
	if status != http.StatusNotFound {
		t.Fatalf("\t%s\tUnknown action : got %d, want %d", tests.Failed, status, http.StatusNotFound)
	}

	req, err := inspector.NewRequest(test.Context, owner, ActionSetOperatingStatus,
		StatusRequest{Operational: false}, time.Now())
	if err != nil {
		t.Fatalf("\t%s\tFailed to create request : %v", tests.Failed, err)
	}
	req.PublicKey = stranger.PublicKey().String()
	if status, _ := s.post(t, req); status != http.StatusBadRequest {
		t.Fatalf("\t%s\tBad signature : got %d, want %d", tests.Failed, status, http.StatusBadRequest)
	}

	req, err = inspector.NewRequest(test.Context, owner, ActionSetOperatingStatus,
		StatusRequest{Operational: false}, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("\t%s\tFailed to create request : %v", tests.Failed, err)
	}
	if status, _ := s.post(t, req); status != http.StatusBadRequest {
		t.Fatalf("\t%s\tStale request : got %d, want %d", tests.Failed, status, http.StatusBadRequest)
	}

	if !s.ledger.IsOperational() {
		t.Fatalf("\t%s\tRejected request paused the ledger", tests.Failed)
	}
	t.Logf("\t%s\tInvalid requests rejected", tests.Success)

	// Paused
	status, _ = s.send(t, owner, ActionSetOperatingStatus, StatusRequest{Operational: false})
	if status != http.StatusOK {
		t.Fatalf("\t%s\tOwner pause : got %d", tests.Failed, status)
	}

	status, _ = s.send(t, airlineKey, ActionAppFund, FundRequest{Amount: decimal.NewFromInt(1)})
	if status != http.StatusServiceUnavailable {
		t.Fatalf("\t%s\tFund while paused : got %d, want %d", tests.Failed, status,
			http.StatusServiceUnavailable)
	}
	t.Logf("\t%s\tPaused ledger rejected funding", tests.Success)
}

func TestMissingAddress(t *testing.T) {
	defer tests.Recover(t)

	s := newServer(t)
	owner := test.OwnerKey

	status, response := s.send(t, owner, ActionRegisterAirline, map[string]string{"name": "NoAddress"})
	if status != http.StatusBadRequest {
		t.Fatalf("\t%s\tRegister without address : got %d, want %d : %s", tests.Failed, status,
			http.StatusBadRequest, response.Error)
	}
	if count := s.ledger.GetAirlineCount(); count != 1 {
		t.Fatalf("\t%s\tAirline count : got %d, want 1", tests.Failed, count)
	}
	if s.ledger.IsAirlineRegistered(keys.Address{}) {
		t.Fatalf("\t%s\tEmpty address registered", tests.Failed)
	}
	t.Logf("\t%s\tRegistration without address rejected", tests.Success)

	status, _ = s.send(t, owner, ActionAuthorizeCaller, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("\t%s\tAuthorize without address : got %d, want %d", tests.Failed, status,
			http.StatusBadRequest)
	}

	status, _ = s.send(t, owner, ActionFundAirline, map[string]string{"amount": "1"})
	if status != http.StatusBadRequest {
		t.Fatalf("\t%s\tFund without address : got %d, want %d", tests.Failed, status,
			http.StatusBadRequest)
	}
	t.Logf("\t%s\tAuthorize and fund without address rejected", tests.Success)

	status, _ = s.send(t, owner, ActionAuthorizeCaller, AddressRequest{Address: test.AppKey.Address()})
	if status != http.StatusOK {
		t.Fatalf("\t%s\tOwner authorize : got %d", tests.Failed, status)
	}

	status, _ = s.send(t, owner, ActionAppRegisterAirline, map[string]string{"name": "NoAddress"})
	if status != http.StatusBadRequest {
		t.Fatalf("\t%s\tApp register without address : got %d, want %d", tests.Failed, status,
			http.StatusBadRequest)
	}
	if count := s.ledger.GetAirlineCount(); count != 1 {
		t.Fatalf("\t%s\tAirline count after app request : got %d, want 1", tests.Failed, count)
	}
	t.Logf("\t%s\tApp registration without address rejected", tests.Success)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("\t%s\tHealth : got %d, want %d", tests.Failed, w.Code, http.StatusOK)
	}

	s.send(t, test.OwnerKey, ActionGetAirlineCount, nil)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("\t%s\tMetrics : got %d, want %d", tests.Failed, w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "flightsurety_requests_total") {
		t.Fatalf("\t%s\tMetrics missing request counter", tests.Failed)
	}
	if !strings.Contains(w.Body.String(), "flightsurety_airlines 1") {
		t.Fatalf("\t%s\tMetrics missing airline gauge", tests.Failed)
	}
	t.Logf("\t%s\tHealth and metrics served", tests.Success)
}

func TestMalformedBody(t *testing.T) {
	s := newServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/requests",
		strings.NewReader("not json")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("\t%s\tMalformed body : got %d, want %d", tests.Failed, w.Code, http.StatusBadRequest)
	}
}

// Package main runs end-to-end scenarios against a running assistant API.
//
// Usage:
//
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go              # runs all
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go happy-path   # runs one
//
// Set ADMIN_JWT_SECRET to also check the admin appointment listing.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	apiBase    string
	adminToken string
	client     = &http.Client{Timeout: 60 * time.Second}
)

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

type chatResponse struct {
	SessionID string          `json:"session_id"`
	Step      string          `json:"step"`
	Outcome   string          `json:"outcome"`
	Messages  []string        `json:"messages"`
	Error     string          `json:"error"`
	Booking   json.RawMessage `json:"booking"`
}

func (r chatResponse) text() string {
	return strings.Join(r.Messages, "\n")
}

func postJSON(path string, payload interface{}) (chatResponse, error) {
	var out chatResponse
	body, _ := json.Marshal(payload)
	resp, err := client.Post(apiBase+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return out, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func startSession() (chatResponse, error) {
	return postJSON("/chat/sessions", map[string]string{})
}

func say(sessionID, text string) (chatResponse, error) {
	fmt.Printf("    > %s\n", text)
	return postJSON("/chat/sessions/"+url.PathEscape(sessionID)+"/messages", map[string]string{"text": text})
}

// converse sends each input in turn and returns the last reply.
func converse(t *T, sessionID string, inputs ...string) (chatResponse, bool) {
	var last chatResponse
	for _, in := range inputs {
		resp, err := say(sessionID, in)
		if err != nil {
			t.fatalf("%v", err)
			return last, false
		}
		last = resp
	}
	return last, true
}

func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func generateJWT(secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  "e2e",
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// uniquePatient returns an email and a future slot that do not collide with
// earlier runs.
func uniquePatient() (email, date, clock string) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	email = fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())
	date = time.Now().AddDate(0, 0, 30+r.Intn(300)).Format("2006-01-02")
	clock = fmt.Sprintf("%02d:%02d am", 8+r.Intn(3), r.Intn(4)*15)
	return email, date, clock
}

func book(t *T, email, date, clock string) (chatResponse, bool) {
	start, err := startSession()
	if err != nil {
		t.fatalf("start: %v", err)
		return chatResponse{}, false
	}
	return converse(t, start.SessionID,
		"1", "Asha Verma", email, "98765 43210", "34", "female", "persistent cough", "1", date, clock, "yes")
}

func scenarioGreeting(t *T) {
	resp, err := startSession()
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	t.check("session id assigned", resp.SessionID != "")
	t.check("step is menu", resp.Step == "menu")
	t.check("menu lists booking", containsAny(resp.text(), "Book Appointment"))
}

func scenarioHappyPath(t *T) {
	email, date, clock := uniquePatient()
	resp, ok := book(t, email, date, clock)
	if !ok {
		return
	}
	t.check("outcome booked", resp.Outcome == "booked")
	t.check("booking returned", len(resp.Booking) > 0)
	t.check("reply carries appointment id", containsAny(resp.text(), "ID:"))
}

func scenarioValidation(t *T) {
	start, err := startSession()
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	resp, ok := converse(t, start.SessionID, "1", "J")
	if !ok {
		return
	}
	t.check("short name rejected", resp.Step == "name" && resp.Outcome == "rejected")

	resp, ok = converse(t, start.SessionID, "Ravi Kumar", "ravi@example.com", "12345")
	if !ok {
		return
	}
	t.check("short mobile rejected", resp.Step == "mobile" && resp.Outcome == "rejected")

	resp, ok = converse(t, start.SessionID, "9876543210", "30", "male", "headache", "1", "2001-01-01")
	if !ok {
		return
	}
	t.check("past date rejected", resp.Step == "appointment_date" && resp.Outcome == "rejected")
}

func scenarioCancel(t *T) {
	email, date, clock := uniquePatient()
	if resp, ok := book(t, email, date, clock); !ok || resp.Outcome != "booked" {
		t.fatalf("setup booking failed: %+v", resp)
		return
	}
	start, err := startSession()
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	resp, ok := converse(t, start.SessionID, "3", email)
	if !ok {
		return
	}
	t.check("appointments listed", resp.Step == "cancel_select")
	resp, ok = converse(t, start.SessionID, "1")
	if !ok {
		return
	}
	t.check("outcome cancelled", resp.Outcome == "cancelled")
}

func scenarioReschedule(t *T) {
	email, date, clock := uniquePatient()
	if resp, ok := book(t, email, date, clock); !ok || resp.Outcome != "booked" {
		t.fatalf("setup booking failed: %+v", resp)
		return
	}
	_, newDate, newClock := uniquePatient()
	start, err := startSession()
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	resp, ok := converse(t, start.SessionID, "2", email, "1", newDate, newClock)
	if !ok {
		return
	}
	t.check("outcome rescheduled", resp.Outcome == "rescheduled")
	t.check("new date echoed", containsAny(resp.text(), newDate))
}

func scenarioMedicalInfo(t *T) {
	start, err := startSession()
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	resp, ok := converse(t, start.SessionID, "4", "diabetes")
	if !ok {
		return
	}
	t.check("reply is not empty", len(resp.Messages) > 0)
	t.check("returns to menu prompt", containsAny(resp.text(), "anything else"))
}

func scenarioExit(t *T) {
	start, err := startSession()
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	resp, ok := converse(t, start.SessionID, "5")
	if !ok {
		return
	}
	t.check("outcome exited", resp.Outcome == "exited")
	t.check("says goodbye", containsAny(resp.text(), "goodbye"))
}

func scenarioAdminListing(t *T) {
	if adminToken == "" {
		fmt.Println("    SKIP: ADMIN_JWT_SECRET not set")
		return
	}
	email, date, clock := uniquePatient()
	if resp, ok := book(t, email, date, clock); !ok || resp.Outcome != "booked" {
		t.fatalf("setup booking failed: %+v", resp)
		return
	}
	req, _ := http.NewRequest(http.MethodGet, apiBase+"/admin/appointments?email="+url.QueryEscape(email), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := client.Do(req)
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	defer resp.Body.Close()
	var out struct {
		Total int `json:"total"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	t.check("admin listing ok", resp.StatusCode == http.StatusOK)
	t.check("one appointment for new patient", out.Total == 1)
}

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBase == "" {
		fmt.Fprintln(os.Stderr, "ERROR: API_BASE_URL required")
		os.Exit(1)
	}
	if secret := os.Getenv("ADMIN_JWT_SECRET"); secret != "" {
		token, err := generateJWT(secret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: sign admin token: %v\n", err)
			os.Exit(1)
		}
		adminToken = token
	}

	scenarios := []scenario{
		{"greeting", scenarioGreeting},
		{"happy-path", scenarioHappyPath},
		{"validation", scenarioValidation},
		{"cancel", scenarioCancel},
		{"reschedule", scenarioReschedule},
		{"medical-info", scenarioMedicalInfo},
		{"exit", scenarioExit},
		{"admin-listing", scenarioAdminListing},
	}

	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed := 0
	totalFailed := 0
	scenarioResults := make([]string, 0)

	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}

		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)

		totalPassed += t.passed
		totalFailed += t.failed

		status := "PASS"
		if t.failed > 0 {
			status = "FAIL"
		}
		scenarioResults = append(scenarioResults, fmt.Sprintf("  %s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range scenarioResults {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)

	if totalFailed > 0 {
		fmt.Println("\nSOME SCENARIOS FAILED")
		os.Exit(1)
	}
	fmt.Println("\nALL SCENARIOS PASSED")
}

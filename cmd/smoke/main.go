package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Drives a running server through one viewer session: pick two people, check
// a path comes back highlighted, then clear it.
func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Listing people...")
	var people struct {
		People []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"people"`
	}
	if !sendRequest(baseURL, "GET", "/api/people", nil, http.StatusOK, &people) || len(people.People) < 2 {
		fail("List people")
	}
	fmt.Printf("PASSED: %d people\n", len(people.People))

	fmt.Println("2. Opening session...")
	var created struct {
		SessionID string `json:"session_id"`
	}
	if !sendRequest(baseURL, "POST", "/api/sessions", nil, http.StatusCreated, &created) {
		fail("Open session")
	}
	actions := "/api/sessions/" + created.SessionID + "/actions"
	fmt.Println("PASSED: session", created.SessionID)

	a, b := people.People[0].ID, people.People[len(people.People)-1].ID
	fmt.Printf("3. Finding path %s -> %s...\n", a, b)
	var resp struct {
		View struct {
			Found bool     `json:"found"`
			State string   `json:"state"`
			Path  []string `json:"path"`
		} `json:"view"`
	}
	sendRequest(baseURL, "POST", actions, map[string]string{"action": "select-person-a", "person_id": a}, http.StatusOK, &resp)
	if !sendRequest(baseURL, "POST", actions, map[string]string{"action": "select-person-b", "person_id": b}, http.StatusOK, &resp) {
		fail("Find path")
	}
	fmt.Printf("PASSED: found=%v state=%s path=%v\n", resp.View.Found, resp.View.State, resp.View.Path)

	fmt.Println("4. Clearing path...")
	if !sendRequest(baseURL, "POST", actions, map[string]string{"action": "clear-path"}, http.StatusOK, &resp) || resp.View.State != "cleared" {
		fail("Clear path")
	}
	fmt.Println("PASSED: Clear path")

	if !sendRequest(baseURL, "DELETE", "/api/sessions/"+created.SessionID, nil, http.StatusNoContent, nil) {
		fail("Close session")
	}
	fmt.Println("Smoke test passed")
}

func fail(step string) {
	fmt.Printf("FAILED: %s\n", step)
	os.Exit(1)
}

func sendRequest(baseURL, method, endpoint string, payload any, want int, out any) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			fmt.Printf("Error decoding response: %v\n", err)
			return false
		}
	}
	return true
}

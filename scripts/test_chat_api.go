package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const baseURL = "http://localhost:3000/api/chat/v1"

var clientId = uuid.NewString()

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Id", clientId)

	client := &http.Client{} // No timeout: generation can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dump(resp *http.Response, body []byte) map[string]interface{} {
	color.Green("Status: %s", resp.Status)
	var parsed map[string]interface{}
	json.Unmarshal(body, &parsed)
	prettyPrint(parsed)
	return parsed
}

func main() {
	color.Cyan("Starting Career Counselor API smoke test (client %s)\n", clientId)

	sessionKey := uuid.NewString()

	// 1. Send first message (auto-creates the session)
	color.Yellow("\n1. Send first message")
	sendReq := map[string]interface{}{
		"session_id": sessionKey,
		"content":    "I want to move from QA into a backend engineering role, where do I start?",
	}
	resp, body, err := sendRequest("POST", "/message", sendReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	dump(resp, body)

	// 2. Send follow-up (contextual generation path)
	color.Yellow("\n2. Send follow-up message")
	followReq := map[string]interface{}{
		"session_id": sessionKey,
		"content":    "Which skill should I learn first?",
	}
	resp, body, err = sendRequest("POST", "/message", followReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	dump(resp, body)

	// 3. List sessions (preview cache path)
	color.Yellow("\n3. List sessions")
	resp, body, _ = sendRequest("GET", "/sessions", nil)
	dump(resp, body)

	// 4. Paginate messages
	color.Yellow("\n4. Fetch messages (limit 2)")
	resp, body, _ = sendRequest("GET", "/sessions/"+sessionKey+"/messages?limit=2", nil)
	dump(resp, body)

	// 5. Rename session
	color.Yellow("\n5. Rename session")
	resp, body, _ = sendRequest("PATCH", "/sessions/"+sessionKey+"/title", map[string]interface{}{
		"title": "Backend Transition Plan",
	})
	dump(resp, body)

	// 6. Session count
	color.Yellow("\n6. Session count")
	resp, body, _ = sendRequest("GET", "/sessions/count", nil)
	dump(resp, body)

	// 7. Delete session
	color.Yellow("\n7. Delete session")
	resp, body, _ = sendRequest("DELETE", "/sessions/"+sessionKey, nil)
	dump(resp, body)

	// 8. Verify the transcript is gone
	color.Yellow("\n8. Fetch messages after delete (expect 404)")
	resp, body, _ = sendRequest("GET", "/sessions/"+sessionKey+"/messages", nil)
	if resp.StatusCode != http.StatusNotFound {
		color.Red("Expected 404, got %s", resp.Status)
		os.Exit(1)
	}
	dump(resp, body)

	color.Cyan("\nSmoke test finished")
}

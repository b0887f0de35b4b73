package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

/* ---------------- Canned replies ---------------- */

// Chat failures never surface as hard errors; the client always gets a
// 200 with either the generated text or one of these advisories.
const (
	chatMsgNotConfigured = "The assistant is not configured yet. Set GEMINI_API_KEY in the .env file to enable it."
	chatMsgInvalidKey    = "The assistant API key is invalid. Create a new key at https://aistudio.google.com/apikey and update the .env file."
	chatMsgRateLimited   = "The assistant is busy right now. Wait about 10 seconds and try again."
	chatMsgGeneric       = "Sorry, something went wrong while processing your message. Try asking in a different way or wait a few seconds."
)

const chatPreamble = `You are a friendly and helpful study assistant called BNStudy Assistant.
Help students with their questions, explain concepts clearly and objectively.
Give study tips and always be polite and motivating.

Student question: %s

Answer concisely (300 words maximum):`

// shortened by tests
var chatRetryBaseDelay = 4 * time.Second

/* ---------------- Gemini payloads ---------------- */

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateReq struct {
	Contents []geminiContent `json:"contents"`
}

type geminiGenerateResp struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func isRateLimited(status int, body string) bool {
	return status == http.StatusTooManyRequests ||
		strings.Contains(body, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(body), "quota")
}

func isInvalidKey(status int, body string) bool {
	return strings.Contains(body, "API_KEY_INVALID") ||
		status == http.StatusUnauthorized || status == http.StatusForbidden
}

// askGemini performs one generateContent call and returns the text.
func askGemini(base, model, key, prompt string) (text string, status int, body string, err error) {
	payload, _ := json.Marshal(geminiGenerateReq{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", base, model, key)

	httpReq, _ := http.NewRequest("POST", url, bytes.NewReader(payload))
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", 0, "", err
	}
	defer resp.Body.Close()

	slurp, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", resp.StatusCode, string(slurp), nil
	}

	var out geminiGenerateResp
	if err := json.Unmarshal(slurp, &out); err != nil {
		return "", resp.StatusCode, string(slurp), err
	}
	if len(out.Candidates) == 0 {
		return "", resp.StatusCode, string(slurp), fmt.Errorf("no candidates in response")
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), resp.StatusCode, string(slurp), nil
}

// POST /api/chat
func handleChat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		errorJSON(w, http.StatusBadRequest, "empty message")
		return
	}

	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if key == "" {
		writeJSON(w, http.StatusOK, map[string]string{"response": chatMsgNotConfigured})
		return
	}
	model := envOr("GEMINI_MODEL", "gemini-2.5-flash")
	base := strings.TrimRight(envOr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/")

	prompt := fmt.Sprintf(chatPreamble, in.Message)

	const maxAttempts = 2
	delay := chatRetryBaseDelay
	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, status, body, err := askGemini(base, model, key, prompt)
		if err != nil {
			log.Printf("[chat] gemini call failed: %v", err)
			writeJSON(w, http.StatusOK, map[string]string{"response": chatMsgGeneric})
			return
		}
		if status/100 == 2 {
			writeJSON(w, http.StatusOK, map[string]string{"response": text})
			return
		}
		if isRateLimited(status, body) {
			if attempt < maxAttempts-1 {
				log.Printf("[chat] attempt %d rate-limited, retrying in %s", attempt+1, delay)
				time.Sleep(delay)
				delay *= 2
				continue
			}
			writeJSON(w, http.StatusOK, map[string]string{"response": chatMsgRateLimited})
			return
		}
		if isInvalidKey(status, body) {
			log.Printf("[chat] gemini rejected key: status=%d", status)
			writeJSON(w, http.StatusOK, map[string]string{"response": chatMsgInvalidKey})
			return
		}
		log.Printf("[chat] gemini non-2xx: status=%d body=%.150s", status, body)
		writeJSON(w, http.StatusOK, map[string]string{"response": chatMsgGeneric})
		return
	}
}

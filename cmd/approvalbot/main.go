package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"AquaTrace/internal/auth"
	"AquaTrace/internal/repo"
)

// approvalbot polls Telegram for chief-engineer decisions on pending
// override tickets and resolves them in the database.

type Update struct {
	UpdateID      int            `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	Message *Message `json:"message"`
}

type UpdateResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

func main() {
	token := os.Getenv("TOKEN_BOT")
	peerStr := os.Getenv("CHIEF_PEER_ID")
	if token == "" || peerStr == "" {
		log.Fatal("TOKEN_BOT or CHIEF_PEER_ID missing")
	}
	chiefID, _ := strconv.ParseInt(peerStr, 10, 64)

	db := auth.InitDB()
	defer db.Close()
	tickets := repo.NewPostgresDB(db)

	offset := 0
	for {
		updates, err := getUpdates(token, offset)
		if err != nil {
			log.Println("getUpdates error:", err)
			time.Sleep(2 * time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.CallbackQuery != nil {
				handleCallback(token, chiefID, tickets, u.CallbackQuery)
				continue
			}
			if u.Message != nil && u.Message.Chat.ID == chiefID && strings.TrimSpace(u.Message.Text) == "/pending" {
				sendPending(token, chiefID, tickets)
			}
		}
		time.Sleep(1 * time.Second)
	}
}

// sendPending lists every open override ticket with approve/reject
// buttons attached.
func sendPending(token string, chatID int64, tickets repo.Repository) {
	pending, err := tickets.PendingTickets(context.Background())
	if err != nil {
		log.Println("PendingTickets error:", err)
		return
	}
	if len(pending) == 0 {
		sendMessage(token, chatID, "No pending override tickets", nil)
		return
	}
	for _, t := range pending {
		text := fmt.Sprintf("Ticket #%d\nlog: %s\nparameter: %s\nrequested by: %s\n\n%s",
			t.ID, t.LogID, t.Parameter, t.Requester, t.Reason)
		keyboard := map[string]any{
			"inline_keyboard": [][]map[string]any{{
				{"text": "Approve", "callback_data": fmt.Sprintf("approve:%d", t.ID)},
				{"text": "Reject", "callback_data": fmt.Sprintf("reject:%d", t.ID)},
			}},
		}
		sendMessage(token, chatID, text, keyboard)
	}
}

func handleCallback(token string, chiefID int64, tickets repo.Repository, cb *CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat.ID != chiefID {
		answerCallback(token, cb.ID, "Not allowed")
		return
	}
	parts := strings.Split(cb.Data, ":")
	if len(parts) != 2 {
		answerCallback(token, cb.ID, "Bad data")
		return
	}
	action := parts[0]
	id, _ := strconv.Atoi(parts[1])

	switch action {
	case "approve":
		if err := tickets.ResolveTicket(context.Background(), id, "approved"); err != nil {
			answerCallback(token, cb.ID, "Ticket not found or already resolved")
			return
		}
		answerCallback(token, cb.ID, "Approved")
		editMessage(token, cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("✅ Approved override ticket #%d", id))
	case "reject":
		if err := tickets.ResolveTicket(context.Background(), id, "rejected"); err != nil {
			answerCallback(token, cb.ID, "Ticket not found or already resolved")
			return
		}
		answerCallback(token, cb.ID, "Rejected")
		editMessage(token, cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("❌ Rejected override ticket #%d", id))
	default:
		answerCallback(token, cb.ID, "Unknown action")
	}
}

func getUpdates(token string, offset int) ([]Update, error) {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?timeout=20&offset=%d", token, offset)
	res, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out UpdateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func sendMessage(token string, chatID int64, text string, keyboard map[string]any) {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", token)
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	b, _ := json.Marshal(payload)
	_, _ = http.Post(url, "application/json", strings.NewReader(string(b)))
}

func answerCallback(token, id, text string) {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/answerCallbackQuery", token)
	payload := map[string]any{"callback_query_id": id, "text": text}
	b, _ := json.Marshal(payload)
	_, _ = http.Post(url, "application/json", strings.NewReader(string(b)))
}

func editMessage(token string, chatID int64, messageID int, text string) {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/editMessageText", token)
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	b, _ := json.Marshal(payload)
	_, _ = http.Post(url, "application/json", strings.NewReader(string(b)))
}

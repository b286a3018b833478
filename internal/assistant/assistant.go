package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "assistant").Logger()

// Service answers buyer questions. When a model API is configured it is
// asked first; any failure falls back to the local keyword responder so the
// widget always answers something.
type Service struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewService(apiURL, apiKey string) *Service {
	return &Service{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Service) Reply(ctx context.Context, message string) string {
	if strings.TrimSpace(message) == "" {
		return "Hi! Ask me about ordering, delivery, payments, or our farmers' products."
	}

	if s.apiURL != "" {
		if reply, err := s.remoteReply(ctx, message); err == nil && reply != "" {
			return reply
		} else if err != nil {
			logger.Warn().Err(err).Msg("assistant api failed, using keyword fallback")
		}
	}

	return keywordReply(message)
}

type remoteRequest struct {
	Message string `json:"message"`
}

type remoteResponse struct {
	Reply string `json:"reply"`
}

func (s *Service) remoteReply(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(remoteRequest{Message: message})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("assistant api returned status %d", res.StatusCode)
	}

	var parsed remoteResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Reply, nil
}

// keywordRules are checked in order; the first match wins.
var keywordRules = []struct {
	keywords []string
	reply    string
}{
	{[]string{"order", "track"}, "You can see all your orders and their current status under My Orders. Each order moves through pending, processing, shipped and delivered."},
	{[]string{"cancel"}, "An order can only be cancelled while it is still pending. Once the farmer accepts it, cancellation is no longer possible."},
	{[]string{"payment", "pay", "card", "cash"}, "We accept card payments through our secure checkout and cash on delivery. You pick the method on the checkout page."},
	{[]string{"delivery", "shipping", "ship"}, "Farmers ship directly to the address you give at checkout. You'll see the status change to shipped when your order is on its way."},
	{[]string{"farmer", "sell"}, "Farmers can register a seller account, list their products, and manage incoming orders from the farmer dashboard."},
	{[]string{"product", "fresh", "vegetable", "fruit"}, "Browse the catalog by category to find fresh produce straight from local farms. Every product page shows the farmer behind it."},
	{[]string{"refund", "return"}, "For refunds or returns, contact the farmer through the order detail page. Cash-on-delivery orders can simply be declined at the door."},
}

func keywordReply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}
	return "I'm not sure about that one. Try asking about orders, delivery, payments, or products - or reach out to support@farmlink.example."
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"edulearn-cli/internal/domain"
)

// leaderboardWait is the fixed ceiling on leaderboard fetches; past it the
// caller gets a timeout-specific error with a manual retry, never a spinner.
const leaderboardWait = 8 * time.Second

func (c *Client) ListContests(ctx context.Context) ([]domain.Contest, error) {
	var payload paged[domain.Contest]
	if err := c.doJSON(ctx, http.MethodGet, "/api/contests/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *Client) GetContest(ctx context.Context, id int64) (domain.Contest, error) {
	var contest domain.Contest
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/contests/%d/", id), nil, &contest); err != nil {
		return domain.Contest{}, err
	}
	return contest, nil
}

func (c *Client) GetLeaderboard(ctx context.Context, contestID int64) (domain.Leaderboard, error) {
	ctx, cancel := context.WithTimeout(ctx, leaderboardWait)
	defer cancel()

	var lb domain.Leaderboard
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/contests/%d/leaderboard/", contestID), nil, &lb)
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Leaderboard{}, domain.ErrLeaderboardTimeout
	}
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return lb, nil
}

// wsMessage is the server's websocket frame: a type tag plus payload.
type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// WatchLeaderboard subscribes to live leaderboard updates for a contest.
// The returned cancel function must be called to close the connection; the
// channel is closed when the connection drops or the context ends.
func (c *Client) WatchLeaderboard(ctx context.Context, contestID int64) (<-chan domain.Leaderboard, func(), error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) +
		fmt.Sprintf("/api/contests/%d/leaderboard/ws", contestID)

	header := http.Header{}
	if token := c.accessToken(ctx); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, nil, err
	}

	updates := make(chan domain.Leaderboard, 8)
	done := make(chan struct{})

	go func() {
		defer close(updates)
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type != "leaderboard" {
				continue
			}
			var lb domain.Leaderboard
			if err := json.Unmarshal(msg.Payload, &lb); err != nil {
				log.Printf("leaderboard watch: bad payload: %v", err)
				continue
			}
			select {
			case updates <- lb:
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = conn.Close()
	}
	return updates, cancel, nil
}

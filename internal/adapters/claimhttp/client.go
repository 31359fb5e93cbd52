// Package claimhttp implements the claim backend call over HTTP,
// mapping transport and status failures onto the listing package's
// typed errors so presentation code can branch on them.
package claimhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/listing"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	session *http.Client
}

func NewClient(baseURL string, session *http.Client) *Client {
	if session == nil {
		session = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
	}
}

type claimRequest struct {
	RecipientID string `json:"recipient_id"`
}

type claimResponse struct {
	Success bool `json:"success"`
	Listing *struct {
		ID            string    `json:"id"`
		Title         string    `json:"title"`
		Category      string    `json:"category"`
		Perishability string    `json:"perishability"`
		Qty           float64   `json:"qty"`
		DonorID       string    `json:"donor_id"`
		RecipientID   string    `json:"recipient_id"`
		Status        string    `json:"status"`
		Address       string    `json:"address"`
		CreatedAt     time.Time `json:"created_at"`
	} `json:"listing"`
}

// Claim posts the claim and translates the outcome. 401 means the
// session expired, 403 the backend refused the viewer, 409 and 404
// both mean the listing is gone; timeouts surface as ErrClaimTimeout
// so callers can offer a retry.
func (c *Client) Claim(ctx context.Context, listingID, recipientID string) (*listing.ClaimResult, error) {
	body, err := json.Marshal(claimRequest{RecipientID: recipientID})
	if err != nil {
		return nil, fmt.Errorf("encode claim request: %w", err)
	}

	url := fmt.Sprintf("%s/api/listings/%s/claim", c.baseURL, listingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create claim request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, listing.ErrClaimTimeout
		}
		return nil, fmt.Errorf("execute claim request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, listing.ErrSessionExpired
	case http.StatusForbidden:
		return nil, listing.ErrForbidden
	case http.StatusConflict, http.StatusNotFound:
		return nil, listing.ErrUnavailable
	default:
		return nil, fmt.Errorf("claim listing %s: unexpected status %d", listingID, resp.StatusCode)
	}

	var decoded claimResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode claim response: %w", err)
	}

	result := &listing.ClaimResult{Success: decoded.Success}
	if decoded.Listing != nil {
		result.Listing = &listing.Listing{
			ID:            decoded.Listing.ID,
			Title:         decoded.Listing.Title,
			Category:      decoded.Listing.Category,
			Perishability: domain.Perishability(decoded.Listing.Perishability),
			Qty:           decoded.Listing.Qty,
			DonorID:       decoded.Listing.DonorID,
			RecipientID:   decoded.Listing.RecipientID,
			Status:        listing.Status(decoded.Listing.Status),
			Address:       decoded.Listing.Address,
			CreatedAt:     decoded.Listing.CreatedAt,
		}
	}
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

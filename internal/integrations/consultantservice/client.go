package consultantservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Client клиент справочника консультантов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetConsultant получает консультанта по ID.
// Неактивный консультант считается отсутствующим: записываться к нему нельзя.
func (c *Client) GetConsultant(ctx context.Context, consultantID int64) (*domain.Consultant, error) {
	url := fmt.Sprintf("%s/internal/consultants/%d", c.baseURL, consultantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrConsultantNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var consultant Consultant
	if err := json.NewDecoder(resp.Body).Decode(&consultant); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !consultant.Active {
		c.log.Info("Consultant id=%d is inactive, treating as not found", consultantID)
		return nil, ErrConsultantNotFound
	}

	return &domain.Consultant{
		ID:          consultant.ID,
		DisplayName: consultant.DisplayName,
		Specialty:   consultant.Specialty,
	}, nil
}

package feedbackservice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client клиент сервиса отзывов
// Отзыв (не более одного) привязан к завершенной записи и ищется по ID записи
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

// HasFeedback проверяет, оставлен ли отзыв по записи
func (c *Client) HasFeedback(ctx context.Context, appointmentID int64) (bool, error) {
	url := fmt.Sprintf("%s/internal/appointments/%d/feedback", c.baseURL, appointmentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}
}

// HasFeedbackWithGracefulDegradation как HasFeedback, но любая ошибка транспорта
// превращается в ErrServiceDegraded: карточка записи отдается и без сведений об отзыве
func (c *Client) HasFeedbackWithGracefulDegradation(ctx context.Context, appointmentID int64) (bool, error) {
	exists, err := c.HasFeedback(ctx, appointmentID)
	if err != nil {
		c.log.Error("FeedbackService unavailable, applying graceful degradation for appointment_id=%d: %v", appointmentID, err)
		return false, fmt.Errorf("%w: appointment_id=%d, error=%v", ErrServiceDegraded, appointmentID, err)
	}
	return exists, nil
}

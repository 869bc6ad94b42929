package get_availability

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	getAvailability "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ConsultantID int64             `json:"consultantId"`
	DisplayName  string            `json:"displayName"`
	Specialty    string            `json:"specialty,omitempty"`
	Days         []DayAvailability `json:"days"`
}

// DayAvailability свободные слоты на дату
type DayAvailability struct {
	Date      string `json:"date"` // "2026-03-02"
	FreeSlots []int  `json:"freeSlots"`
	Bookable  bool   `json:"bookable"`
}

// ToUseCaseRequest собирает запрос use case из пути и query-параметров
func ToUseCaseRequest(consultantID int64, query url.Values) (*getAvailability.Request, error) {
	mode, err := domain.ParseHorizonMode(query.Get("mode"))
	if err != nil {
		return nil, err
	}

	req := &getAvailability.Request{ConsultantID: consultantID, Mode: mode}

	if raw := strings.TrimSpace(query.Get("horizonDays")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		req.HorizonDays = &days
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		ConsultantID: resp.ConsultantID,
		DisplayName:  resp.DisplayName,
		Specialty:    resp.Specialty,
		Days:         make([]DayAvailability, 0, len(resp.Days)),
	}

	for _, d := range resp.Days {
		free := make([]int, 0, len(d.FreeSlots))
		for _, s := range d.FreeSlots {
			free = append(free, int(s))
		}
		out.Days = append(out.Days, DayAvailability{
			Date:      domain.DateKey(d.Date),
			FreeSlots: free,
			Bookable:  d.Bookable,
		})
	}

	return out
}

package get_slots

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// SlotResponse HTTP response model
type SlotResponse struct {
	ID        int    `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SlotsResponse каталог слотов дня
type SlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlots конвертирует каталог в HTTP response
func FromDomainSlots(windows []domain.SlotWindow) *SlotsResponse {
	resp := &SlotsResponse{Slots: make([]SlotResponse, 0, len(windows))}
	for _, w := range windows {
		resp.Slots = append(resp.Slots, SlotResponse{
			ID:        int(w.ID),
			StartTime: w.Start,
			EndTime:   w.End,
		})
	}
	return resp
}

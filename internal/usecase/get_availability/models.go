package get_availability

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса доступности консультанта
type Request struct {
	ConsultantID int64
	Mode         domain.HorizonMode // quick | extended
	HorizonDays  *int               // если задано, имеет приоритет над Mode
}

// Response модель ответа с доступностью по датам
type Response struct {
	ConsultantID int64
	DisplayName  string
	Specialty    string
	Days         []DayAvailability
}

// DayAvailability свободные слоты на дату
type DayAvailability struct {
	Date      time.Time
	FreeSlots []domain.TimeSlot
	Bookable  bool
}

package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	Actor        domain.Actor    // кто выполняет запрос
	CustomerID   int64           // 0 = сам пользователь; обязателен для сотрудников
	ConsultantID int64           // ID консультанта
	ServiceID    int64           // ID услуги
	Date         time.Time       // Дата записи (без времени)
	Slot         domain.TimeSlot // Слот дня
	Notes        string          // Причина обращения
}

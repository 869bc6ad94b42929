package consultantservice

// Consultant модель консультанта из справочника
type Consultant struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Specialty   string `json:"specialty"`
	Active      bool   `json:"active"`
}

// ErrorResponse модель ошибки от справочника
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

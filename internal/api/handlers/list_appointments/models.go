package list_appointments

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments/models"
)

type owner int

const (
	ownerCustomer owner = iota
	ownerConsultant
)

var errOwnerRequired = errors.New("exactly one of customerId and consultantId is required")

// parseQuery разбирает ?customerId=|consultantId=&bucket=&page=&pageSize=
func parseQuery(query url.Values, actor domain.Actor) (owner, *models.ListRequest, error) {
	customerRaw := strings.TrimSpace(query.Get("customerId"))
	consultantRaw := strings.TrimSpace(query.Get("consultantId"))
	if (customerRaw == "") == (consultantRaw == "") {
		return 0, nil, errOwnerRequired
	}

	kind, raw := ownerCustomer, customerRaw
	if consultantRaw != "" {
		kind, raw = ownerConsultant, consultantRaw
	}

	ownerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, nil, err
	}

	bucket, err := domain.ParseBucket(query.Get("bucket"))
	if err != nil {
		return 0, nil, err
	}

	page, err := optionalInt(query.Get("page"))
	if err != nil {
		return 0, nil, err
	}
	pageSize, err := optionalInt(query.Get("pageSize"))
	if err != nil {
		return 0, nil, err
	}

	return kind, &models.ListRequest{
		OwnerID:  ownerID,
		Bucket:   bucket,
		Page:     page,
		PageSize: pageSize,
		Actor:    actor,
	}, nil
}

func optionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

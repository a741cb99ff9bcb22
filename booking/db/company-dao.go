package db

import (
	"context"
	"log"

	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/appsync"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
)

const listCompaniesByBookingCode = `query ListCompaniesByBookingCode($filter: ModelCompanyFilterInput, $limit: Int) {
  listCompanies(filter: $filter, limit: $limit) {
    items {
      id
      name
      displayName
      logoUrl
      bookingCode
      bookingEnabled
    }
  }
}`

type CompanyAppSyncDao struct {
	client *appsync.Client
}

func NewCompanyAppSyncDao(client *appsync.Client) *CompanyAppSyncDao {
	return &CompanyAppSyncDao{client: client}
}

// FindByBookingCode filters on exact booking-code equality and on the
// enablement flag, and takes the first item of the result set. Booking
// codes are not unique by contract, first match wins.
func (dao *CompanyAppSyncDao) FindByBookingCode(ctx context.Context, bookingCode string) (model.Company, bool, error) {
	variables := map[string]any{
		"filter": map[string]any{
			"bookingCode":    map[string]any{"eq": bookingCode},
			"bookingEnabled": map[string]any{"eq": true},
		},
		"limit": 1000,
	}

	var result struct {
		ListCompanies struct {
			Items []model.Company `json:"items"`
		} `json:"listCompanies"`
	}

	if err := dao.client.Execute(ctx, listCompaniesByBookingCode, variables, &result); err != nil {
		log.Printf("Could not look up company by booking code: %v\n", err)
		return model.Company{}, false, err
	}

	if len(result.ListCompanies.Items) == 0 {
		return model.Company{}, false, nil
	}

	return result.ListCompanies.Items[0], true, nil
}

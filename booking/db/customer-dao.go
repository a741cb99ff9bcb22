package db

import (
	"context"
	"log"

	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/appsync"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
	"github.com/google/uuid"
)

const listCustomersByEmail = `query ListCustomersByEmail($filter: ModelCustomerFilterInput, $limit: Int) {
  listCustomers(filter: $filter, limit: $limit) {
    items {
      id
      companyId
      email
      name
      phone
      companyName
      isActive
    }
  }
}`

const createCustomerMutation = `mutation CreateCustomer($input: CreateCustomerInput!) {
  createCustomer(input: $input) {
    id
  }
}`

const updateCustomerMutation = `mutation UpdateCustomer($input: UpdateCustomerInput!) {
  updateCustomer(input: $input) {
    id
  }
}`

type CustomerAppSyncDao struct {
	client *appsync.Client
}

func NewCustomerAppSyncDao(client *appsync.Client) *CustomerAppSyncDao {
	return &CustomerAppSyncDao{client: client}
}

func (dao *CustomerAppSyncDao) FindByEmail(ctx context.Context, companyId string, normalizedEmail string) (model.Customer, bool, error) {
	variables := map[string]any{
		"filter": map[string]any{
			"companyId": map[string]any{"eq": companyId},
			"email":     map[string]any{"eq": normalizedEmail},
		},
		"limit": 1000,
	}

	var result struct {
		ListCustomers struct {
			Items []model.Customer `json:"items"`
		} `json:"listCustomers"`
	}

	if err := dao.client.Execute(ctx, listCustomersByEmail, variables, &result); err != nil {
		log.Printf("Could not look up customer for company %v: %v\n", companyId, err)
		return model.Customer{}, false, err
	}

	if len(result.ListCustomers.Items) == 0 {
		return model.Customer{}, false, nil
	}

	return result.ListCustomers.Items[0], true, nil
}

func (dao *CustomerAppSyncDao) Create(ctx context.Context, customer model.Customer) (string, error) {
	if customer.Id == "" {
		customer.Id = uuid.NewString()
	}

	variables := map[string]any{
		"input": map[string]any{
			"id":          customer.Id,
			"companyId":   customer.CompanyId,
			"email":       customer.Email,
			"name":        customer.Name,
			"phone":       customer.Phone,
			"companyName": customer.CompanyName,
			"isActive":    customer.IsActive,
		},
	}

	var result struct {
		CreateCustomer struct {
			Id string `json:"id"`
		} `json:"createCustomer"`
	}

	if err := dao.client.Execute(ctx, createCustomerMutation, variables, &result); err != nil {
		log.Printf("Could not create customer for company %v: %v\n", customer.CompanyId, err)
		return "", err
	}

	return result.CreateCustomer.Id, nil
}

func (dao *CustomerAppSyncDao) Update(ctx context.Context, customer model.Customer) error {
	variables := map[string]any{
		"input": map[string]any{
			"id":          customer.Id,
			"name":        customer.Name,
			"phone":       customer.Phone,
			"companyName": customer.CompanyName,
		},
	}

	if err := dao.client.Execute(ctx, updateCustomerMutation, variables, nil); err != nil {
		log.Printf("Could not update customer %v: %v\n", customer.Id, err)
		return err
	}

	return nil
}

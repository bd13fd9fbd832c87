package dto

import (
	"context"

	"github.com/medroute/medroute/internal/domain/managedclient"
	"github.com/medroute/medroute/internal/types"
	"github.com/medroute/medroute/internal/validator"
)

type CreateManagedClientRequest struct {
	FacilityID string `json:"facility_id"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"omitempty,max=100"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
}

func (r *CreateManagedClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateManagedClientRequest) ToManagedClient(ctx context.Context) *managedclient.ManagedClient {
	return &managedclient.ManagedClient{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MANAGED_CLIENT),
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Phone:      r.Phone,
		FacilityID: r.FacilityID,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
}

type ManagedClientResponse struct {
	*managedclient.ManagedClient
}

type ListManagedClientsResponse struct {
	Items []*ManagedClientResponse `json:"items"`
	Total int                      `json:"total"`
}

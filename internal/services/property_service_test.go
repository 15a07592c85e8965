package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
)

func TestPropertyCreate(t *testing.T) {
	repo := new(MockPropertyRepository)
	service := NewPropertyService(repo, &fakeTx{}, logger.New("test"))
	ctx := context.Background()
	accountID := uuid.New()

	p := &models.Property{Address: "3 Rothschild Blvd", City: "Tel Aviv", Type: models.PropertyResidential}
	repo.On("Create", ctx, p).Return(nil)

	created, err := service.Create(ctx, accountID, p)
	require.NoError(t, err)
	assert.Equal(t, accountID, created.AccountID)

	_, err = service.Create(ctx, accountID, &models.Property{Address: "  ", Type: models.PropertyLand})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Create(ctx, accountID, &models.Property{Address: "x", Type: "CASTLE"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	negative := dec("-1")
	_, err = service.Create(ctx, accountID, &models.Property{Address: "x", Type: models.PropertyLand, EstimatedValue: &negative})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestPropertyGet_ForeignIsNotFound(t *testing.T) {
	repo := new(MockPropertyRepository)
	service := NewPropertyService(repo, &fakeTx{}, logger.New("test"))
	ctx := context.Background()
	accountID, id := uuid.New(), uuid.New()

	repo.On("FindByID", ctx, accountID, id).Return(nil, nil)

	p, err := service.Get(ctx, accountID, id)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyList_TrimsSearchAndChecksType(t *testing.T) {
	repo := new(MockPropertyRepository)
	service := NewPropertyService(repo, &fakeTx{}, logger.New("test"))
	ctx := context.Background()
	accountID := uuid.New()

	repo.On("List", ctx, accountID, models.PropertyQuery{Search: "haifa"}).Return([]models.Property{{City: "Haifa"}}, nil)

	list, err := service.List(ctx, accountID, models.PropertyQuery{Search: "  haifa "})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = service.List(ctx, accountID, models.PropertyQuery{Type: "CASTLE"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPropertyUpdate_AppliesPatch(t *testing.T) {
	repo := new(MockPropertyRepository)
	tx := &fakeTx{}
	service := NewPropertyService(repo, tx, logger.New("test"))
	ctx := context.Background()
	accountID, id := uuid.New(), uuid.New()

	repo.On("FindByID", ctx, accountID, id).Return(&models.Property{
		ID: id, AccountID: accountID, Address: "Old", City: "Haifa", Type: models.PropertyResidential,
	}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Property")).Return(true, nil)

	notes := "new roof"
	updated, err := service.Update(ctx, accountID, id, models.PropertyPatch{Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, "new roof", updated.Notes)
	assert.Equal(t, "Old", updated.Address)
	assert.Equal(t, 1, tx.calls)
}

func TestPropertyDelete_NotFound(t *testing.T) {
	repo := new(MockPropertyRepository)
	service := NewPropertyService(repo, &fakeTx{}, logger.New("test"))
	ctx := context.Background()
	accountID, id := uuid.New(), uuid.New()

	repo.On("Owned", ctx, accountID, id).Return(false, nil)

	err := service.Delete(ctx, accountID, id)

	assert.ErrorIs(t, err, ErrPropertyNotFound)
	repo.AssertNotCalled(t, "Delete")
}

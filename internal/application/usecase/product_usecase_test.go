package usecase_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallerpro/taller-api/internal/application/dto"
	"github.com/tallerpro/taller-api/internal/application/usecase"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
)

// productRepoFake repositorio en memoria con falla inyectable en la consulta
// por código de barras.
type productRepoFake struct {
	byBarcode  map[string]*entity.Product
	barcodeErr error
	created    []*entity.Product
}

func (r *productRepoFake) Create(p *entity.Product) error {
	p.ID = int64(len(r.created) + 1)
	cp := *p
	r.created = append(r.created, &cp)
	return nil
}

func (r *productRepoFake) GetByID(id int64) (*entity.Product, error) { return nil, nil }

func (r *productRepoFake) GetByBarcode(code string) (*entity.Product, error) {
	if r.barcodeErr != nil {
		return nil, r.barcodeErr
	}
	if p, ok := r.byBarcode[code]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *productRepoFake) List(q string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *productRepoFake) Update(p *entity.Product) error { return nil }
func (r *productRepoFake) Delete(id int64) error          { return nil }

// Un código de barras ya registrado se rechaza antes de intentar el alta.
func TestProductCreate_CodigoDeBarrasDuplicado(t *testing.T) {
	repo := &productRepoFake{byBarcode: map[string]*entity.Product{
		"7501234567890": {ID: 1, Name: "Aceite 10W40", Barcode: "7501234567890"},
	}}
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Create(dto.CreateProductRequest{
		Name:    "Aceite 10W40",
		Price:   decimal.RequireFromString("25.00"),
		Barcode: "7501234567890",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, repo.created)
}

// Una falla del almacén durante la verificación de duplicados se propaga; no
// debe leerse como "sin duplicado".
func TestProductCreate_FallaEnVerificacionDeDuplicados(t *testing.T) {
	fallaAlmacen := errors.New("timeout de la consulta")
	repo := &productRepoFake{barcodeErr: fallaAlmacen}
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Create(dto.CreateProductRequest{
		Name:    "Filtro de aire",
		Price:   decimal.RequireFromString("8.50"),
		Barcode: "7509876543210",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fallaAlmacen)
	assert.Empty(t, repo.created, "nada debe persistirse si la verificación falló")
}

// Sin código de barras no hay verificación de duplicados que pueda fallar.
func TestProductCreate_SinCodigoDeBarras(t *testing.T) {
	repo := &productRepoFake{barcodeErr: errors.New("no debería consultarse")}
	uc := usecase.NewProductUseCase(repo)

	res, err := uc.Create(dto.CreateProductRequest{
		Name:  "Grasa multiuso",
		Price: decimal.RequireFromString("3.00"),
		Stock: 4,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, int64(4), res.Stock)
	require.Len(t, repo.created, 1)
}

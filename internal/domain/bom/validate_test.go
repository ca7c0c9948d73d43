package bom_test

import (
	"errors"
	"testing"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/bom"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestValidateRecipe_OK(t *testing.T) {
	err := bom.ValidateRecipe(fixture(), &entity.Recipe{
		ProductCode: "P3",
		Ingredients: []entity.Ingredient{prod("P2", "1"), mat("M1", "0.5")},
	})
	assert.NoError(t, err)
}

func TestValidateRecipe_Errores(t *testing.T) {
	cases := []struct {
		name   string
		recipe *entity.Recipe
		target error
	}{
		{"producto inexistente", &entity.Recipe{ProductCode: "PX", Ingredients: []entity.Ingredient{mat("M1", "1")}}, domain.ErrNotFound},
		{"receta vacía", &entity.Recipe{ProductCode: "P3"}, domain.ErrInvalidInput},
		{"cantidad cero", &entity.Recipe{ProductCode: "P3", Ingredients: []entity.Ingredient{mat("M1", "0")}}, domain.ErrInvalidInput},
		{"tipo inválido", &entity.Recipe{ProductCode: "P3", Ingredients: []entity.Ingredient{{Type: "otro", Code: "M1", Quantity: d("1")}}}, domain.ErrInvalidInput},
		{"material inexistente", &entity.Recipe{ProductCode: "P3", Ingredients: []entity.Ingredient{mat("MX", "1")}}, domain.ErrNotFound},
		{"autorreferencia", &entity.Recipe{ProductCode: "P3", Ingredients: []entity.Ingredient{prod("P3", "1")}}, domain.ErrCyclicRecipe},
		{"cierra ciclo", &entity.Recipe{ProductCode: "P1", Ingredients: []entity.Ingredient{prod("P2", "1")}}, domain.ErrCyclicRecipe},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := bom.ValidateRecipe(fixture(), tc.recipe)
			assert.True(t, errors.Is(err, tc.target), "esperado %v, obtenido %v", tc.target, err)
		})
	}
}

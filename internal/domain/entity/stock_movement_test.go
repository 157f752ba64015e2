package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestDirectionOf(t *testing.T) {
	cases := []struct {
		movType string
		want    entity.MovementDirection
	}{
		{entity.MovementTypeIN, entity.DirectionIncrease},
		{entity.MovementTypePURCHASE, entity.DirectionIncrease},
		{entity.MovementTypeRETURN, entity.DirectionIncrease},
		{entity.MovementTypeTRANSFERIN, entity.DirectionIncrease},
		{entity.MovementTypeOUT, entity.DirectionDecrease},
		{entity.MovementTypeSALE, entity.DirectionDecrease},
		{entity.MovementTypeDAMAGED, entity.DirectionDecrease},
		{entity.MovementTypeEXPIRED, entity.DirectionDecrease},
		{entity.MovementTypeTRANSFEROUT, entity.DirectionDecrease},
		{entity.MovementTypeADJUSTMENT, entity.DirectionSigned},
		{entity.MovementTypeRESERVATION, entity.DirectionNeutral},
		{entity.MovementTypeRELEASE, entity.DirectionNeutral},
	}

	for _, tc := range cases {
		got, ok := entity.DirectionOf(tc.movType)
		assert.True(t, ok, "tipo %s debe estar declarado", tc.movType)
		assert.Equal(t, tc.want, got, "dirección de %s", tc.movType)
	}

	_, ok := entity.DirectionOf("LOAN")
	assert.False(t, ok, "tipo no declarado debe reportar ok=false")
}

func TestSignedDelta(t *testing.T) {
	qty := decimal.NewFromInt(15)

	assert.True(t, entity.SignedDelta(entity.MovementTypePURCHASE, qty).Equal(qty),
		"una entrada suma")
	assert.True(t, entity.SignedDelta(entity.MovementTypeSALE, qty).Equal(qty.Neg()),
		"una salida resta")

	// ADJUSTMENT respeta el signo que entrega el caller.
	assert.True(t, entity.SignedDelta(entity.MovementTypeADJUSTMENT, decimal.NewFromInt(-8)).Equal(decimal.NewFromInt(-8)))
	assert.True(t, entity.SignedDelta(entity.MovementTypeADJUSTMENT, decimal.NewFromInt(8)).Equal(decimal.NewFromInt(8)))

	// Los tipos neutrales nunca mueven el saldo físico.
	assert.True(t, entity.SignedDelta(entity.MovementTypeRESERVATION, qty).IsZero())
	assert.True(t, entity.SignedDelta(entity.MovementTypeRELEASE, qty).IsZero())
}

func TestSignedDelta_NormalizaSigno(t *testing.T) {
	// Para entradas y salidas la cantidad llega sin signo; si llegara negativa,
	// el valor absoluto evita que el signo del caller invierta la dirección.
	neg := decimal.NewFromInt(-5)
	assert.True(t, entity.SignedDelta(entity.MovementTypeIN, neg).Equal(decimal.NewFromInt(5)))
	assert.True(t, entity.SignedDelta(entity.MovementTypeOUT, neg).Equal(decimal.NewFromInt(-5)))
}

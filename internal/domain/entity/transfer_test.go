package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestTransfer_TransicionesPermitidas(t *testing.T) {
	cases := []struct {
		from, to string
	}{
		{entity.TransferStatusPENDING, entity.TransferStatusINTRANSIT},
		{entity.TransferStatusPENDING, entity.TransferStatusCANCELLED},
		{entity.TransferStatusINTRANSIT, entity.TransferStatusCOMPLETED},
		{entity.TransferStatusINTRANSIT, entity.TransferStatusCANCELLED},
	}

	for _, tc := range cases {
		tr := &entity.Transfer{Status: tc.from}
		assert.True(t, tr.CanTransition(tc.to), "%s → %s debe estar permitida", tc.from, tc.to)
		require.NoError(t, tr.Transition(tc.to))
		assert.Equal(t, tc.to, tr.Status)
	}
}

func TestTransfer_TransicionesProhibidas(t *testing.T) {
	cases := []struct {
		from, to string
	}{
		{entity.TransferStatusPENDING, entity.TransferStatusCOMPLETED}, // no se puede saltar el tránsito
		{entity.TransferStatusCOMPLETED, entity.TransferStatusINTRANSIT},
		{entity.TransferStatusCOMPLETED, entity.TransferStatusCANCELLED},
		{entity.TransferStatusCANCELLED, entity.TransferStatusINTRANSIT},
		{entity.TransferStatusCANCELLED, entity.TransferStatusCOMPLETED},
		{entity.TransferStatusINTRANSIT, entity.TransferStatusPENDING}, // sin marcha atrás
	}

	for _, tc := range cases {
		tr := &entity.Transfer{Status: tc.from}
		assert.False(t, tr.CanTransition(tc.to), "%s → %s debe estar prohibida", tc.from, tc.to)
		err := tr.Transition(tc.to)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s → %s", tc.from, tc.to)
		assert.Equal(t, tc.from, tr.Status, "el estado no cambia tras un rechazo")
	}
}

func TestTransfer_EstadosTerminales(t *testing.T) {
	assert.False(t, (&entity.Transfer{Status: entity.TransferStatusPENDING}).IsTerminal())
	assert.False(t, (&entity.Transfer{Status: entity.TransferStatusINTRANSIT}).IsTerminal())
	assert.True(t, (&entity.Transfer{Status: entity.TransferStatusCOMPLETED}).IsTerminal())
	assert.True(t, (&entity.Transfer{Status: entity.TransferStatusCANCELLED}).IsTerminal())
}

func TestTransfer_AppendNote(t *testing.T) {
	tr := &entity.Transfer{}
	tr.AppendNote("primera")
	tr.AppendNote("") // vacías se ignoran
	tr.AppendNote("segunda")
	assert.Equal(t, []string{"primera", "segunda"}, tr.Notes)
}

func TestTransfer_ReservationHeld(t *testing.T) {
	now := time.Now()

	tr := &entity.Transfer{}
	assert.False(t, tr.ReservationHeld(), "sin aprobar no hay reserva")

	tr.ApprovedAt = &now
	assert.True(t, tr.ReservationHeld(), "aprobado y sin enviar mantiene la reserva")

	tr.SentAt = &now
	assert.False(t, tr.ReservationHeld(), "al enviar la reserva ya fue liberada")
}

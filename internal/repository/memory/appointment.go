package memory

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
)

var _ appointment.Repository = (*AppointmentTable)(nil)

type AppointmentTable struct {
	*Table[appointment.Appointment, int64]
}

func (t *AppointmentTable) Save(ctx context.Context, a *appointment.Appointment) error {
	row := a.References()
	if err := t.Table.Save(ctx, &row); err != nil {
		return err
	}
	a.ID = row.ID
	return nil
}

package service

import (
	"context"
	"fmt"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type Stats struct {
	Doctors      int64 `json:"doctors"`
	Patients     int64 `json:"patients"`
	Rooms        int64 `json:"rooms"`
	Appointments int64 `json:"appointments"`
}

type StatsService struct {
	doctors, patients, rooms, appointments Counter
}

func NewStatsService(doctors, patients, rooms, appointments Counter) *StatsService {
	return &StatsService{doctors: doctors, patients: patients, rooms: rooms, appointments: appointments}
}

func (s *StatsService) Snapshot(ctx context.Context) (*Stats, error) {
	var st Stats
	targets := []struct {
		name string
		src  Counter
		dst  *int64
	}{
		{"doctors", s.doctors, &st.Doctors},
		{"patients", s.patients, &st.Patients},
		{"rooms", s.rooms, &st.Rooms},
		{"appointments", s.appointments, &st.Appointments},
	}
	for _, t := range targets {
		n, err := t.src.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", t.name, err)
		}
		*t.dst = n
	}
	return &st, nil
}

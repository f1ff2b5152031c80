package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/domain/billing"
	"github.com/medbill/medbill/internal/domain/identity"
	"github.com/medbill/medbill/internal/domain/patient"
	"github.com/medbill/medbill/internal/domain/settings"
)

// Seeder loads a development data set: an admin login, hospital settings, a
// service catalog, and a few patients. Every step is idempotent so the seed
// command can be rerun safely.
type Seeder struct {
	users    *identity.Service
	settings *settings.Service
	patients *patient.Service
	billing  *billing.Service
	log      zerolog.Logger
}

func New(users *identity.Service, cfg *settings.Service, patients *patient.Service, bill *billing.Service, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, settings: cfg, patients: patients, billing: bill, log: log}
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedAdmin(ctx); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if err := s.seedSettings(ctx); err != nil {
		return fmt.Errorf("seed hospital settings: %w", err)
	}
	if err := s.seedServices(ctx); err != nil {
		return fmt.Errorf("seed services: %w", err)
	}
	if err := s.seedPatients(ctx); err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}
	s.log.Info().Msg("seed complete")
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if _, err := s.users.GetByUsername(ctx, "admin"); err == nil {
		s.log.Info().Msg("admin user already present, skipping")
		return nil
	}
	admin := identity.User{Username: "admin", Password: "admin123", Name: "Administrator", Role: "admin"}
	if err := s.users.CreateUser(ctx, &admin); err != nil {
		return err
	}
	s.log.Info().Str("username", "admin").Msg("created admin user")
	return nil
}

func (s *Seeder) seedSettings(ctx context.Context) error {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if current != nil {
		s.log.Info().Msg("hospital settings already present, skipping")
		return nil
	}
	name := "City General Hospital"
	address := "123 Medical Center Road, New Delhi"
	phone := "+91-11-23456789"
	email := "billing@citygeneral.example"
	currency := "INR"
	taxRate := "18.00"
	_, err = s.settings.Save(ctx, &settings.UpsertInput{
		Name:     &name,
		Address:  &address,
		Phone:    &phone,
		Email:    &email,
		Currency: &currency,
		TaxRate:  &taxRate,
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("name", name).Msg("created hospital settings")
	return nil
}

func (s *Seeder) seedServices(ctx context.Context) error {
	existing, err := s.billing.ListServices(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.log.Info().Int("count", len(existing)).Msg("services already present, skipping")
		return nil
	}

	catalog := []billing.MedicalService{
		{Name: "General Consultation", Category: "Consultation", Price: "500.00", IsActive: true},
		{Name: "Blood Test - Complete Panel", Category: "Laboratory", Price: "800.00", IsActive: true},
		{Name: "X-Ray - Chest", Category: "Radiology", Price: "1200.00", IsActive: true},
		{Name: "ECG", Category: "Cardiology", Price: "600.00", IsActive: true},
		{Name: "Ultrasound - Abdomen", Category: "Radiology", Price: "1500.00", IsActive: true},
	}
	for i := range catalog {
		if err := s.billing.CreateService(ctx, &catalog[i]); err != nil {
			return err
		}
	}
	s.log.Info().Int("count", len(catalog)).Msg("created service catalog")
	return nil
}

func (s *Seeder) seedPatients(ctx context.Context) error {
	existing, err := s.patients.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.log.Info().Int("count", len(existing)).Msg("patients already present, skipping")
		return nil
	}

	str := func(v string) *string { return &v }
	sample := []patient.Patient{
		{Name: "Rahul Sharma", Email: str("rahul.sharma@example.com"), Phone: str("+91-98765-43210"), DateOfBirth: str("1985-04-12"), Status: "active"},
		{Name: "Priya Patel", Email: str("priya.patel@example.com"), Phone: str("+91-98765-43211"), DateOfBirth: str("1992-09-30"), Status: "active"},
		{Name: "Amit Kumar", Email: str("amit.kumar@example.com"), Phone: str("+91-98765-43212"), DateOfBirth: str("1978-01-25"), Status: "active"},
	}
	for i := range sample {
		if err := s.patients.Create(ctx, &sample[i]); err != nil {
			return err
		}
	}
	s.log.Info().Int("count", len(sample)).Msg("created sample patients")
	return nil
}

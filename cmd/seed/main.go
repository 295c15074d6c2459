package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/config"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/logger"
)

func main() {
	count := flag.Int("count", 500, "number of appointments to seed")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	if err := database.Migrate(db, zlog); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAppointments(context.Background(), repository.NewAppointmentRepository(db, nil), *count); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedAppointments(ctx context.Context, repo *repository.AppointmentRepository, count int) error {
	log.Printf("seeding %d appointments", count)

	types := []appointment.AppointmentType{
		appointment.TypeConsultation,
		appointment.TypeFollowUp,
		appointment.TypeCheckUp,
		appointment.TypeEmergency,
		appointment.TypeSpecialist,
	}

	for i := 0; i < count; i++ {
		start := time.Now().UTC().
			Add(time.Duration(gofakeit.Number(1, 90*24)) * time.Hour).
			Truncate(time.Minute)
		duration := time.Duration(gofakeit.Number(1, 4)) * 30 * time.Minute

		a := &appointment.Appointment{
			PatientID:  gofakeit.UUID(),
			ProviderID: gofakeit.UUID(),
			StartTime:  start,
			EndTime:    start.Add(duration),
			Status:     appointment.StatusScheduled,
			Type:       types[gofakeit.Number(0, len(types)-1)],
			Reason:     gofakeit.Sentence(6),
			Notes:      gofakeit.Sentence(12),
		}

		if err := repo.Create(ctx, a); err != nil {
			return err
		}
	}

	return nil
}

// file: internals/seeds/runner.go
package seeds

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingModel "trekmandu_backend/internals/features/bookings/model"
	eventModel "trekmandu_backend/internals/features/events/model"
	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
	userModel "trekmandu_backend/internals/features/users/model"
)

// Run migrates the schema and inserts demo catalog data for local
// development. Enabled with RUN_SEEDS=true; safe to rerun.
func Run(db *gorm.DB) error {
	log.Println("🌱 Running migrations + seeds...")

	if err := db.AutoMigrate(
		&userModel.User{},
		&eventModel.Organizer{},
		&eventModel.TrekEvent{},
		&bookingModel.Registration{},
		&bookingModel.Participant{},
		&paymentModel.Payment{},
		&paymentModel.PaymentGatewayEvent{},
	); err != nil {
		return err
	}

	org := eventModel.Organizer{
		OrganizerID:           uuid.MustParse("6b1f6a0a-0000-4000-8000-000000000001"),
		OrganizerName:         "Himalayan Trails",
		OrganizerOrganization: "Himalayan Trails Pvt. Ltd.",
		OrganizerEmail:        "office@himalayantrails.example",
	}
	if err := db.Where("organizer_id = ?", org.OrganizerID).FirstOrCreate(&org).Error; err != nil {
		return err
	}

	events := []eventModel.TrekEvent{
		{
			TrekEventID:          uuid.MustParse("6b1f6a0a-0000-4000-8000-000000000011"),
			TrekEventOrganizerID: org.OrganizerID,
			TrekEventTitle:       "Annapurna Base Camp",
			TrekEventStartDate:   time.Now().AddDate(0, 2, 0),
			TrekEventPricePaisa:  4_500_000, // NPR 45,000.00
			TrekEventCapacity:    16,
		},
		{
			TrekEventID:          uuid.MustParse("6b1f6a0a-0000-4000-8000-000000000012"),
			TrekEventOrganizerID: org.OrganizerID,
			TrekEventTitle:       "Langtang Valley",
			TrekEventStartDate:   time.Now().AddDate(0, 3, 0),
			TrekEventPricePaisa:  3_200_000,
			TrekEventCapacity:    12,
		},
	}
	for i := range events {
		if err := db.Where("trek_event_id = ?", events[i].TrekEventID).FirstOrCreate(&events[i]).Error; err != nil {
			return err
		}
	}

	demo := userModel.User{
		UserID:    uuid.MustParse("6b1f6a0a-0000-4000-8000-000000000021"),
		UserName:  "Demo Traveler",
		UserEmail: "traveler@example.com",
	}
	if err := db.Where("user_id = ?", demo.UserID).FirstOrCreate(&demo).Error; err != nil {
		return err
	}

	log.Println("✅ Seeds done")
	return nil
}

package seed

import (
	. "hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fixed ids so cmd/token can mint tokens for the seeded users after every reseed.
var (
	RequesterID       = uuid.MustParse("0195a1c0-0000-7000-8000-000000000001")
	SecondRequesterID = uuid.MustParse("0195a1c0-0000-7000-8000-000000000002")
	CleanerID         = uuid.MustParse("0195a1c0-0000-7000-8000-000000000101")
	LaundryID         = uuid.MustParse("0195a1c0-0000-7000-8000-000000000102")
)

func stringPtr(s string) *string {
	return &s
}

func Seed(db *gorm.DB, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	users := []User{
		{FirstName: "Asha", LastName: "Requester", Email: stringPtr("asha@example.com"), Role: RoleRequester, IsActive: true},
		{FirstName: "Ben", LastName: "Requester", Email: stringPtr("ben@example.com"), Role: RoleRequester, IsActive: true},
		{FirstName: "Chidi", LastName: "Cleaner", Email: stringPtr("chidi@example.com"), Role: RoleProvider, IsActive: true},
		{FirstName: "Dana", LastName: "Laundry", Email: stringPtr("dana@example.com"), Role: RoleProvider, IsActive: true},
	}
	ids := []uuid.UUID{RequesterID, SecondRequesterID, CleanerID, LaundryID}
	for i := range users {
		users[i].ID = ids[i]
	}

	for _, user := range users {
		if err := db.Create(&user).Error; err != nil {
			return log.Err("failed to create user", err, "email", *user.Email)
		}
	}

	hostels := []Hostel{
		{Name: "North Hall", Address: "1 Campus Road"},
		{Name: "Lakeside House", Address: "12 Lake Drive"},
	}

	for _, hostel := range hostels {
		if err := db.Create(&hostel).Error; err != nil {
			return log.Err("failed to create hostel", err, "hostel", hostel.Name)
		}

		facilities := []Facility{
			{HostelID: hostel.ID, Name: hostel.Name + " Housekeeping", Category: CategoryCleaning},
			{HostelID: hostel.ID, Name: hostel.Name + " Laundry Room", Category: CategoryWashing},
		}
		for _, facility := range facilities {
			if err := db.Create(&facility).Error; err != nil {
				return log.Err("failed to create facility", err, "facility", facility.Name)
			}
		}

		log.Info("Seeded hostel", "hostel", hostel.Name, "hostelID", hostel.ID)
	}

	log.Info("Seed complete", "users", len(users), "hostels", len(hostels))
	return nil
}

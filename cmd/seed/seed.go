package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel/internal/domain"
	"hotel/internal/repository"
)

const (
	adminEmail    = "admin@hotel.at"
	adminPassword = "admin123"
	staffPassword = "staff123"
	guestPassword = "guest123"

	guestCount   = 5
	roomCount    = 10
	bookingTries = 40
)

type summary struct {
	Users      int
	Rooms      int
	Activities int
	Bookings   int
}

var roomNames = []string{"Alpine", "Lakeside", "Forest", "Garden", "Summit", "Valley", "Meadow", "River", "Glacier", "Vineyard"}

// seed wipes the demo tables and fills them with generated data. All
// randomness comes from rng so a fixed seed reproduces the same data set.
func seed(ctx context.Context, db *gorm.DB, rng *rand.Rand, now time.Time) (summary, error) {
	var sum summary
	if err := wipe(db.WithContext(ctx)); err != nil {
		return sum, err
	}

	users := repository.NewUserRepository(db)
	staff := []struct {
		email string
		role  domain.UserRole
		pass  string
	}{
		{adminEmail, domain.RoleAdmin, adminPassword},
		{"reception@hotel.at", domain.RoleReceptionist, staffPassword},
		{"cleaning@hotel.at", domain.RoleCleaningStaff, staffPassword},
	}
	for _, s := range staff {
		if _, err := createUser(ctx, users, s.email, s.role, s.pass, "Staff", string(s.role)); err != nil {
			return sum, err
		}
		sum.Users++
	}

	guests := make([]*domain.User, 0, guestCount)
	for i := 1; i <= guestCount; i++ {
		u, err := createUser(ctx, users, fmt.Sprintf("guest%d@hotel.at", i), domain.RoleGuest, guestPassword, "Guest", fmt.Sprintf("Number%d", i))
		if err != nil {
			return sum, err
		}
		guests = append(guests, u)
		sum.Users++
	}

	rooms := repository.NewRoomRepository(db)
	created := make([]*domain.Room, 0, roomCount)
	for i := 0; i < roomCount; i++ {
		r := &domain.Room{
			Name:        fmt.Sprintf("%s Room %d", roomNames[i%len(roomNames)], 101+i),
			Description: "Comfortable room with mountain view",
			Price:       float64(80 + rng.Intn(23)*10),
			Capacity:    1 + rng.Intn(4),
			HalfBoard:   rng.Intn(2) == 0,
		}
		if rng.Intn(3) == 0 {
			lock := int64(17000000 + rng.Intn(1000000))
			r.SmartLockID = &lock
		}
		if err := rooms.Create(ctx, r); err != nil {
			return sum, fmt.Errorf("create room: %w", err)
		}
		created = append(created, r)
		sum.Rooms++
	}

	n, err := seedActivities(ctx, db, now)
	if err != nil {
		return sum, err
	}
	sum.Activities = n

	if sum.Bookings, err = seedBookings(ctx, db, rng, now, created, guests); err != nil {
		return sum, err
	}
	return sum, nil
}

func wipe(db *gorm.DB) error {
	for _, table := range []string{
		"check_outs", "check_ins", "documents", "activity_bookings", "activity_slots",
		"activity_timeslot_infos", "activities", "bookings", "rooms", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}
	return nil
}

func createUser(ctx context.Context, users *repository.UserRepository, email string, role domain.UserRole, password, first, last string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    first,
		LastName:     last,
		Nationality:  "AUT",
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}
	return u, nil
}

func seedActivities(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	repo := repository.NewActivityRepository(db)
	defs := []struct {
		activity  domain.Activity
		templates []domain.ActivityTimeslotInfo
	}{
		{
			domain.Activity{Name: "Morning Yoga", Description: "Gentle yoga on the terrace", Price: 15, Capacity: 12, Categories: "Wellness"},
			[]domain.ActivityTimeslotInfo{
				domain.NewTimeslotInfo(domain.Weekly{Day: time.Monday}, "07:30", "08:30"),
				domain.NewTimeslotInfo(domain.Weekly{Day: time.Thursday}, "07:30", "08:30"),
			},
		},
		{
			domain.Activity{Name: "Guided Hike", Description: "Half-day hike to the summit hut", Price: 35, Capacity: 8, Categories: "Outdoor"},
			[]domain.ActivityTimeslotInfo{domain.NewTimeslotInfo(domain.Weekly{Day: time.Saturday}, "09:00", "13:00")},
		},
		{
			domain.Activity{Name: "Sauna Session", Description: "Finnish sauna with herbal infusion", Price: 20, Capacity: 6, Categories: "Wellness"},
			[]domain.ActivityTimeslotInfo{domain.NewTimeslotInfo(domain.Daily{}, "18:00", "19:00")},
		},
		{
			domain.Activity{Name: "Wine Tasting", Description: "Regional wines with the sommelier", Price: 45, Capacity: 20, Categories: "Culinary"},
			[]domain.ActivityTimeslotInfo{domain.NewTimeslotInfo(domain.OneOff{Date: domain.DateOf(now).AddDate(0, 0, 14)}, "19:00", "21:00")},
		},
	}

	for _, d := range defs {
		a := d.activity
		a.Timeslots = d.templates
		slots, err := domain.MaterializeSlots(&a, d.templates, now)
		if err != nil {
			return 0, err
		}
		if err := repo.CreateWithSlots(ctx, &a, slots); err != nil {
			return 0, fmt.Errorf("create activity %s: %w", a.Name, err)
		}
	}
	return len(defs), nil
}

// seedBookings places random stays between 20 days ago and 40 days ahead,
// skipping any attempt that would collide with a stay already in the room.
func seedBookings(ctx context.Context, db *gorm.DB, rng *rand.Rand, now time.Time, rooms []*domain.Room, guests []*domain.User) (int, error) {
	repo := repository.NewBookingRepository(db)
	today := domain.DateOf(now)
	taken := make(map[int64][][2]time.Time)

	placed := 0
	for i := 0; i < bookingTries; i++ {
		room := rooms[rng.Intn(len(rooms))]
		guest := guests[rng.Intn(len(guests))]
		start := today.AddDate(0, 0, rng.Intn(61)-20)
		end := start.AddDate(0, 0, 1+rng.Intn(5))

		clash := false
		for _, r := range taken[room.ID] {
			if domain.Overlaps(start, end, r[0], r[1]) {
				clash = true
				break
			}
		}
		if clash {
			continue
		}

		b := &domain.Booking{
			RoomID:        room.ID,
			UserID:        guest.ID,
			StartDate:     start,
			EndDate:       end,
			Paid:          rng.Intn(2) == 0 || end.Before(today),
			BookingNumber: domain.NewBookingNumber(),
			BookingDate:   minDate(today, start.AddDate(0, 0, -7)),
		}
		b.Refresh(now, room.Price)
		if rng.Intn(10) == 0 {
			b.Cancel(minDate(today, start))
		}
		if err := repo.CreateIfAvailable(ctx, b); err != nil {
			return placed, fmt.Errorf("create booking: %w", err)
		}
		if b.Status.Blocks() {
			taken[room.ID] = append(taken[room.ID], [2]time.Time{start, end})
		}
		placed++
	}
	return placed, nil
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

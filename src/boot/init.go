package boot

import (
	"log"
	"time"

	"gigtix/src/common"
	"gigtix/src/db"
	"gigtix/src/lib"
	"gigtix/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Event{},
		&models.TicketType{},
		&models.Hold{},
		&models.PromoCode{},
		&models.Order{},
		&models.OrderItem{},
		&models.Ticket{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

const sweepInterval = time.Minute

// InitSweeper schedules the periodic hold-expiry sweep and runs one pass
// immediately to reclaim holds left over from a previous process.
func InitSweeper() {
	ledger := common.GetLedger()
	sweep := func() {
		if _, err := common.ExpireSweep(db.GetDb(), ledger, time.Now()); err != nil {
			log.Printf("Expiry sweep failed: %s\n", err.Error())
		}
	}
	go sweep()
	id, err := lib.CreateCronJob(sweep, sweepInterval)
	if err != nil {
		log.Printf("Error scheduling expiry sweep: %s\n", err.Error())
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	sched.Start()
	log.Printf("Expiry sweep scheduled: %s\n", *id)
}

package advocacy

import (
	"log"

	"github.com/OpenAdvocacy/OA-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(
		&Jurisdiction{},
		&District{},
		&Entity{},
		&Group{},
		&Project{},
		&EntityStatusRecord{},
	); err != nil {
		log.Fatal("Failed to auto-migrate tables: ", err)
	}
}

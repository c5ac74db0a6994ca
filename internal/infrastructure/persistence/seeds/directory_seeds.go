// Package seeds loads demo data into development databases.
package seeds

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/constants"
)

// DemoUsers is the directory seeded by SeedDemoDirectory.
var DemoUsers = []models.UserModel{
	{Username: "admin", Role: authorization.RoleAdmin.String(), Status: constants.UserStatusActive},
	{Username: "alice", Role: authorization.RoleHR.String(), Status: constants.UserStatusActive},
	{Username: "hannah", Role: authorization.RoleHR.String(), Status: constants.UserStatusActive},
	{Username: "bob", Role: authorization.RoleEmployee.String(), Status: constants.UserStatusActive},
	{Username: "carol", Role: authorization.RoleEmployee.String(), Status: constants.UserStatusActive},
	{Username: "dave", Role: authorization.RoleEmployee.String(), Status: constants.UserStatusInactive},
}

// SeedDemoDirectory inserts DemoUsers, leaving existing usernames untouched.
// It returns the number of users actually inserted.
func SeedDemoDirectory(db *gorm.DB) (int64, error) {
	rows := make([]models.UserModel, len(DemoUsers))
	copy(rows, DemoUsers)

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	return result.RowsAffected, result.Error
}

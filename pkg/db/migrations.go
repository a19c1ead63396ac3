package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adminhub/adminhub/pkg/db/models"
)

// seededRelations describe how payload fields on the shipped admin entities
// resolve to display names. An empty JoinTable is a direct foreign key, a
// non-empty one is a many-to-many relation walked through that join table.
// MasterTable is the logical singular name; the audit engine derives the
// physical table from it.
var seededRelations = []models.TableRelation{
	{EntityType: "profile", FieldName: "roleIds", JoinTable: "profile_roles", MasterTable: "role"},
	{EntityType: "profile", FieldName: "clientIds", JoinTable: "profile_clients", MasterTable: "client"},
	{EntityType: "profile", FieldName: "statusId", MasterTable: "status"},
	{EntityType: "role", FieldName: "permissionIds", JoinTable: "role_permissions", MasterTable: "permission"},
	{EntityType: "client", FieldName: "functionalAreaIds", JoinTable: "client_functional_areas", MasterTable: "functionalArea"},
	{EntityType: "client", FieldName: "statusId", MasterTable: "status"},
}

// UpdateSchema migrates all model tables and seeds the relation metadata.
// Safe to run repeatedly.
func (dbc *DB) UpdateSchema() error {
	if err := dbc.DB.AutoMigrate(
		&models.Profile{},
		&models.ProfileEmail{},
		&models.ProfilePhone{},
		&models.Role{},
		&models.Permission{},
		&models.Client{},
		&models.FunctionalArea{},
		&models.Status{},
		&models.TableRelation{},
		&models.ChangeEvent{},
		&models.FieldChange{},
	); err != nil {
		return errors.Wrap(err, "error migrating schema")
	}

	return populateTableRelations(dbc.DB)
}

func populateTableRelations(db *gorm.DB) error {
	for _, seed := range seededRelations {
		existing := models.TableRelation{}
		res := db.Where("entity_type = ? AND field_name = ?", seed.EntityType, seed.FieldName).First(&existing)
		if res.Error != nil {
			if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return res.Error
			}
			if err := db.Create(&seed).Error; err != nil {
				return errors.Wrapf(err, "error seeding relation for %s.%s", seed.EntityType, seed.FieldName)
			}
			log.WithField("entityType", seed.EntityType).WithField("fieldName", seed.FieldName).
				Info("created relation metadata")
		}
	}

	return nil
}

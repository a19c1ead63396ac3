package models

// The administrative entities below are read by the audit engine when it
// resolves foreign keys and join tables to display names. Their CRUD semantics
// live in the calling services, not here.

type Profile struct {
	Model
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ExternalID string `json:"external_id"`
	DelegateID *uint  `json:"delegate_id"`
	StatusID   *uint  `json:"status_id"`

	Roles   []Role   `json:"roles,omitempty" gorm:"many2many:profile_roles;"`
	Clients []Client `json:"clients,omitempty" gorm:"many2many:profile_clients;"`

	Emails []ProfileEmail `json:"emails,omitempty"`
	Phones []ProfilePhone `json:"phones,omitempty"`
}

// ProfileEmail and ProfilePhone are child rows of a profile; at most one row
// per profile carries IsDefault and is flattened into the audit snapshot.
type ProfileEmail struct {
	Model
	ProfileID uint   `json:"profile_id" gorm:"not null;index"`
	Email     string `json:"email" gorm:"not null"`
	IsDefault bool   `json:"is_default"`
}

type ProfilePhone struct {
	Model
	ProfileID   uint   `json:"profile_id" gorm:"not null;index"`
	PhoneNumber string `json:"phone_number" gorm:"not null"`
	IsDefault   bool   `json:"is_default"`
}

type Role struct {
	Model
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	Description string `json:"description"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}

type Permission struct {
	Model
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	Description string `json:"description"`
}

type Client struct {
	Model
	Name     string `json:"name" gorm:"not null;uniqueIndex"`
	StatusID *uint  `json:"status_id"`

	FunctionalAreas []FunctionalArea `json:"functional_areas,omitempty" gorm:"many2many:client_functional_areas;"`
}

type FunctionalArea struct {
	Model
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

// Status is a shared master table for entity lifecycle states (Active,
// Inactive, Draft, ...).
type Status struct {
	Model
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

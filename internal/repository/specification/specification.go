package specification

import "gorm.io/gorm"

// Specification defines the interface for query specifications.
// Implementations are plain data structs so that in-memory fakes can
// interpret them without a *gorm.DB.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

package repository

import "gorm.io/gorm/clause"

// forUpdate is the row lock used to serialize balance mutations.
func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

package implementation

import (
	"errors"

	"vidnotes-be/internal/repository/contract"
	"vidnotes-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// translateError needs gorm.Config.TranslateError enabled to see ErrDuplicatedKey.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(contract.ErrDuplicate, err)
	}
	return err
}

package records

import (
	"errors"

	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
)

// translateStoreErr turns infrastructure sentinels into coded domain errors
// at the service boundary.
func translateStoreErr(err error, id string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "record not found: "+id)
	}
	return dErrors.Wrap(dErrors.CodeStorage, "load record", err)
}

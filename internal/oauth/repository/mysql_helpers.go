package repository

import (
	"github.com/google/uuid"

	apperrors "github.com/authflow/authflow/internal/errors"
)

// marshalUUID converts a UUID to its 16-byte form for BINARY(16) columns.
func marshalUUID(id uuid.UUID) ([]byte, error) {
	b, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal uuid")
	}
	return b, nil
}

// marshalUUIDPtr converts an optional UUID to its 16-byte form, passing
// nil through for NULL columns.
func marshalUUIDPtr(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	return marshalUUID(*id)
}

// unmarshalUUIDPtr converts a nullable BINARY(16) column back to an
// optional UUID.
func unmarshalUUIDPtr(b []byte) (*uuid.UUID, error) {
	if b == nil {
		return nil, nil
	}
	var id uuid.UUID
	if err := id.UnmarshalBinary(b); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal uuid")
	}
	return &id, nil
}
